package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"FightSync/internal/interfaces"
	"FightSync/internal/model"
	"FightSync/internal/repository"
	"FightSync/internal/utils/dbctx"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultImageExt = ".jpg"

// ImageCacheResult 一次图片缓存的统计
type ImageCacheResult struct {
	Kind    string `json:"kind"`
	Fetched int    `json:"fetched"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

type imageItem struct {
	id  uint64
	url string
}

// ImageCacheService 把实体图片下载到本地目录，文件名 <kind>_<id><ext>，已存在的文件跳过
type ImageCacheService struct {
	events      repository.EventRepository
	fights      repository.FightRepository
	competitors repository.CompetitorRepository
	fetcher     interfaces.ImageFetcher
	outputDir   string
	logger      *logrus.Logger
}

func NewImageCacheService(db *gorm.DB, fetcher interfaces.ImageFetcher, outputDir string, logger *logrus.Logger) *ImageCacheService {
	return &ImageCacheService{
		events:      repository.NewEventRepository(db),
		fights:      repository.NewFightRepository(db),
		competitors: repository.NewCompetitorRepository(db),
		fetcher:     fetcher,
		outputDir:   outputDir,
		logger:      logger,
	}
}

// FetchImages 单个文件失败只计数并记录日志，不中止整个过程
func (s *ImageCacheService) FetchImages(ctx context.Context, kind string) (*ImageCacheResult, error) {
	kind, err := CanonicalKind(kind)
	if err != nil {
		return nil, err
	}
	items, err := s.collect(dbctx.New(ctx), kind)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建图片目录失败: %w", err)
	}

	res := &ImageCacheResult{Kind: kind}
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if it.url == "" {
			res.Skipped++
			continue
		}
		target := filepath.Join(s.outputDir, fmt.Sprintf("%s_%d%s", kind, it.id, imageExt(it.url)))
		if _, err := os.Stat(target); err == nil {
			res.Skipped++
			continue
		}
		if err := s.download(ctx, it.url, target); err != nil {
			res.Failed++
			s.logger.WithError(err).WithFields(logrus.Fields{"kind": kind, "id": it.id, "url": it.url}).Warn("图片下载失败")
			continue
		}
		res.Fetched++
	}
	s.logger.Infof("%s图片缓存完成: 下载=%d 跳过=%d 失败=%d", kind, res.Fetched, res.Skipped, res.Failed)
	return res, nil
}

func (s *ImageCacheService) collect(dbc dbctx.Context, kind string) ([]imageItem, error) {
	var items []imageItem
	switch kind {
	case KindCompetitors:
		list, err := s.competitors.ListAll(dbc)
		if err != nil {
			return nil, err
		}
		for _, c := range list {
			items = append(items, imageItem{id: c.ID, url: c.Image})
		}
	case KindFights:
		list, err := s.fights.ListAll(dbc)
		if err != nil {
			return nil, err
		}
		for _, f := range list {
			items = append(items, imageItem{id: f.ID, url: f.Image})
		}
	case KindEvents:
		list, err := s.events.ListAll(dbc)
		if err != nil {
			return nil, err
		}
		for _, e := range list {
			it := imageItem{id: e.ID}
			if e.EventImage != nil {
				it.url = *e.EventImage
			}
			items = append(items, it)
		}
	default:
		return nil, model.NewValidationError("kind", fmt.Sprintf("不支持的图片类型: %s（可选 competitors|fights|events）", kind))
	}
	return items, nil
}

// download 先写临时文件再重命名，失败时不留下半截文件
func (s *ImageCacheService) download(ctx context.Context, rawURL, target string) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := s.fetcher.Fetch(ctx, rawURL, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

func imageExt(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	if ext == "" || len(ext) > 5 {
		return defaultImageExt
	}
	return ext
}
