package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Database DatabaseConfig `mapstructure:"database"` // 数据库配置
	Log      LogConfig      `mapstructure:"log"`      // 日志配置
	Ingest   IngestConfig   `mapstructure:"ingest"`   // 入库配置
	Images   ImagesConfig   `mapstructure:"images"`   // 图片派生与缓存配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`            // postgres / sqlite
	DSN             string        `mapstructure:"dsn"`               // 连接DSN（sqlite 为文件路径）
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
	LogLevel        string        `mapstructure:"log_level"`         // GORM日志级别：silent/error/warn/info
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // logrus 级别
	Format string `mapstructure:"format"` // text / json
}

// IngestConfig 入库配置
type IngestConfig struct {
	Source       string `mapstructure:"source"`         // 记录来源：file / remote
	Path         string `mapstructure:"path"`           // file 来源的 JSON 文件路径
	URL          string `mapstructure:"url"`            // remote 来源的 JSON 地址
	EventURLBase string `mapstructure:"event_url_base"` // 赛事页面URL前缀
	Timeout      int    `mapstructure:"timeout"`        // remote 来源请求超时（秒）
	Proxy        string `mapstructure:"proxy"`          // remote 来源代理地址
}

// ImagesConfig 图片配置
type ImagesConfig struct {
	OutputDir      string `mapstructure:"output_dir"`       // 本地缓存目录
	Timeout        int    `mapstructure:"timeout"`          // 下载超时（秒）
	Proxy          string `mapstructure:"proxy"`            // 代理地址
	BioMarker      string `mapstructure:"bio_marker"`       // 头像图片文件名标记
	FullBodyMarker string `mapstructure:"full_body_marker"` // 全身图片文件名标记
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("ingest.source", "file")
	v.SetDefault("ingest.path", "fights.json")
	v.SetDefault("ingest.timeout", 30)
	v.SetDefault("ingest.event_url_base", "https://www.premierboxingchampions.com/fight-night-")
	v.SetDefault("images.output_dir", "images")
	v.SetDefault("images.timeout", 10)
	v.SetDefault("images.bio_marker", "BioImage")
	v.SetDefault("images.full_body_marker", "FullBody")
}

// LoadConfig 加载配置文件（默认 config/config.yaml），敏感项从 .env 覆盖（不提交 git）
// path 非空时直接读取该文件；文件不存在时使用默认值
func LoadConfig(path string) (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("HTTP_PROXY_URL"); v != "" {
		cfg.Images.Proxy = v
		cfg.Ingest.Proxy = v
	}
}
