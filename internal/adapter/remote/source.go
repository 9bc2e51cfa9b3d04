package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"FightSync/internal/adapter"
	"FightSync/internal/config"
	"FightSync/internal/interfaces"
	"FightSync/internal/model"
	"FightSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Name 注册名
const Name = "remote"

func init() {
	adapter.Register(Name, NewSource)
}

// Source 通过 HTTP GET 拉取 JSON 记录数组
type Source struct {
	url        string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewSource(cfg *config.IngestConfig, logger *logrus.Logger) (interfaces.RecordSource, error) {
	if cfg.URL == "" {
		return nil, errors.New("ingest.url 未配置")
	}
	return &Source{
		url:        cfg.URL,
		httpClient: httpclient.NewHTTPClient(cfg.Timeout, cfg.Proxy, logger),
		logger:     logger,
	}, nil
}

func (s *Source) GetName() string {
	return Name
}

func (s *Source) FetchRecords(ctx context.Context) ([]*model.RawRecord, error) {
	body, err := httpclient.Get(ctx, s.httpClient, s.url)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := body.Close(); err != nil {
			s.logger.Errorf("关闭响应体失败: %v", err)
		}
	}()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	records, err := model.DecodeRecords(data)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("url", s.url).Infof("拉取记录共%d条", len(records))
	return records, nil
}
