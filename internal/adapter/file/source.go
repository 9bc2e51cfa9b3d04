package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"FightSync/internal/adapter"
	"FightSync/internal/config"
	"FightSync/internal/interfaces"
	"FightSync/internal/model"

	"github.com/sirupsen/logrus"
)

// Name 注册名
const Name = "file"

func init() {
	adapter.Register(Name, NewSource)
}

// Source 从本地 JSON 文件（记录数组）读取
type Source struct {
	path   string
	logger *logrus.Logger
}

func NewSource(cfg *config.IngestConfig, logger *logrus.Logger) (interfaces.RecordSource, error) {
	if cfg.Path == "" {
		return nil, errors.New("ingest.path 未配置")
	}
	return &Source{path: cfg.Path, logger: logger}, nil
}

func (s *Source) GetName() string {
	return Name
}

func (s *Source) FetchRecords(ctx context.Context) ([]*model.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("读取记录文件失败: %w", err)
	}
	records, err := model.DecodeRecords(data)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("path", s.path).Infof("读取记录共%d条", len(records))
	return records, nil
}
