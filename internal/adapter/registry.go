// internal/adapter/registry.go
package adapter

import (
	"fmt"
	"sort"

	"FightSync/internal/config"
	"FightSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// Factory 记录来源工厂函数签名
type Factory func(cfg *config.IngestConfig, logger *logrus.Logger) (interfaces.RecordSource, error)

// 全局工厂函数注册表，由各来源包的 init 填充
var factoryRegistry = make(map[string]Factory)

// Register 供来源包 init 函数调用，注册工厂函数
func Register(name string, factory Factory) {
	if factory == nil {
		panic(fmt.Sprintf("来源%s的工厂函数不能为nil", name))
	}
	if _, exists := factoryRegistry[name]; exists {
		logrus.Warnf("来源%s已注册，将覆盖原有实现", name)
	}
	factoryRegistry[name] = factory
}

// GetFactory 获取指定来源的工厂函数
func GetFactory(name string) (Factory, bool) {
	factory, ok := factoryRegistry[name]
	return factory, ok
}

// ListFactories 列出所有已注册的来源（按名称排序）
func ListFactories() []string {
	names := make([]string, 0, len(factoryRegistry))
	for n := range factoryRegistry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewSource 按名称创建记录来源
func NewSource(name string, cfg *config.IngestConfig, logger *logrus.Logger) (interfaces.RecordSource, error) {
	factory, ok := GetFactory(name)
	if !ok {
		return nil, fmt.Errorf("未知的记录来源%s（已注册：%v）", name, ListFactories())
	}
	src, err := factory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化记录来源%s失败: %w", name, err)
	}
	logger.WithField("source", name).Info("记录来源初始化成功")
	return src, nil
}
