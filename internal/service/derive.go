package service

import (
	"context"
	"fmt"
	"strings"

	"FightSync/internal/config"
	"FightSync/internal/model"
	"FightSync/internal/repository"
	"FightSync/internal/utils/dbctx"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DeriveResult 一次派生/清洗的统计
type DeriveResult struct {
	Scanned int   `json:"scanned"`
	Updated int64 `json:"updated"`
	Skipped int   `json:"skipped"`
}

// DeriveService 入库后的离线派生与清洗。force=false 时只补空字段
type DeriveService struct {
	events      repository.EventRepository
	fights      repository.FightRepository
	competitors repository.CompetitorRepository
	maintenance repository.MaintenanceRepository
	variants    *ImageVariantDeriver
	urlBase     string
	logger      *logrus.Logger
}

func NewDeriveService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *DeriveService {
	return &DeriveService{
		events:      repository.NewEventRepository(db),
		fights:      repository.NewFightRepository(db),
		competitors: repository.NewCompetitorRepository(db),
		maintenance: repository.NewMaintenanceRepository(db),
		variants:    NewImageVariantDeriver(cfg.Images.BioMarker, cfg.Images.FullBodyMarker),
		urlBase:     cfg.Ingest.EventURLBase,
		logger:      logger,
	}
}

// UpdateEventURLs 为赛事生成页面URL
func (s *DeriveService) UpdateEventURLs(ctx context.Context, force bool) (*DeriveResult, error) {
	if s.urlBase == "" {
		return nil, model.NewValidationError("ingest.event_url_base", "未配置")
	}
	dbc := dbctx.New(ctx)
	events, err := s.events.ListAll(dbc)
	if err != nil {
		return nil, err
	}
	res := &DeriveResult{Scanned: len(events)}
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !force && e.EventURL != nil && *e.EventURL != "" {
			res.Skipped++
			continue
		}
		url := BuildEventURL(s.urlBase, EventURLDate(e))
		if err := s.events.UpdateEventURL(dbc, e.ID, url); err != nil {
			return res, err
		}
		res.Updated++
		s.logger.WithFields(logrus.Fields{"event_id": e.ID, "event_url": url}).Debug("更新赛事URL")
	}
	s.logger.Infof("赛事URL更新完成: 扫描=%d 更新=%d 跳过=%d", res.Scanned, res.Updated, res.Skipped)
	return res, nil
}

// UpdateEventImages 从赛事下的对决图片中选出赛事图片
func (s *DeriveService) UpdateEventImages(ctx context.Context, force bool) (*DeriveResult, error) {
	dbc := dbctx.New(ctx)
	events, err := s.events.ListAll(dbc)
	if err != nil {
		return nil, err
	}
	res := &DeriveResult{Scanned: len(events)}
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !force && e.EventImage != nil && *e.EventImage != "" {
			res.Skipped++
			continue
		}
		fights, err := s.fights.ListByEvent(dbc, e.ID)
		if err != nil {
			return res, err
		}
		images := make([]string, 0, len(fights))
		for _, f := range fights {
			images = append(images, f.Image)
		}
		img, ok := ChooseEventImage(images)
		if !ok {
			res.Skipped++
			continue
		}
		if err := s.events.UpdateEventImage(dbc, e.ID, img); err != nil {
			return res, err
		}
		res.Updated++
	}
	s.logger.Infof("赛事图片更新完成: 扫描=%d 更新=%d 跳过=%d", res.Scanned, res.Updated, res.Skipped)
	return res, nil
}

// UpdateCompetitorImages 派生选手全身图与去序号图
func (s *DeriveService) UpdateCompetitorImages(ctx context.Context, force bool) (*DeriveResult, error) {
	dbc := dbctx.New(ctx)
	competitors, err := s.competitors.ListAll(dbc)
	if err != nil {
		return nil, err
	}
	res := &DeriveResult{Scanned: len(competitors)}
	for _, c := range competitors {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !force && c.FullBodyImage != nil && *c.FullBodyImage != "" {
			res.Skipped++
			continue
		}
		v, ok := s.variants.Derive(c.Image)
		if !ok {
			res.Skipped++
			continue
		}
		var bioNoIndex, fullBodyNoIndex *string
		if v.BioNoIndex != "" {
			bioNoIndex, fullBodyNoIndex = &v.BioNoIndex, &v.FullBodyNoIndex
		}
		if err := s.competitors.UpdateImageVariants(dbc, c.ID, &v.FullBody, bioNoIndex, fullBodyNoIndex); err != nil {
			return res, err
		}
		res.Updated++
	}
	s.logger.Infof("选手图片派生完成: 扫描=%d 更新=%d 跳过=%d", res.Scanned, res.Updated, res.Skipped)
	return res, nil
}

// StandardizeFightTitles 将恰有两名选手的对决标题统一为 "Given Family vs. Given Family"。
// 新标题与同赛事下其他对决冲突时跳过
func (s *DeriveService) StandardizeFightTitles(ctx context.Context) (*DeriveResult, error) {
	dbc := dbctx.New(ctx)
	fights, err := s.fights.ListAll(dbc)
	if err != nil {
		return nil, err
	}
	res := &DeriveResult{Scanned: len(fights)}
	for _, f := range fights {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		competitors, err := s.competitors.ListByFight(dbc, f.ID)
		if err != nil {
			return res, err
		}
		if len(competitors) != 2 {
			res.Skipped++
			continue
		}
		title, ok := StandardFightTitle(competitors[0], competitors[1])
		if !ok || title == f.Title {
			res.Skipped++
			continue
		}
		clash, err := s.fights.FindByEventTitle(dbc, f.EventID, title)
		if err != nil {
			return res, err
		}
		if clash != nil && clash.ID != f.ID {
			res.Skipped++
			s.logger.WithFields(logrus.Fields{
				"fight_id":    f.ID,
				"conflict_id": clash.ID,
				"title":       title,
			}).Warn("标准化标题与已有对决冲突，跳过")
			continue
		}
		if err := s.fights.UpdateTitle(dbc, f.ID, title); err != nil {
			return res, err
		}
		res.Updated++
	}
	s.logger.Infof("对决标题标准化完成: 扫描=%d 更新=%d 跳过=%d", res.Scanned, res.Updated, res.Skipped)
	return res, nil
}

// CleanColumn 对指定实体的文本列做子串替换
func (s *DeriveService) CleanColumn(ctx context.Context, kind, column, target, replacement string) (*DeriveResult, error) {
	entity, err := EntityForKind(kind)
	if err != nil {
		return nil, err
	}
	n, err := s.maintenance.ReplaceInColumn(dbctx.New(ctx), entity, column, target, replacement)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"kind":   kind,
		"column": column,
		"rows":   n,
	}).Info("文本列清洗完成")
	return &DeriveResult{Updated: n}, nil
}

const (
	KindCompetitors = "competitors"
	KindFights      = "fights"
	KindEvents      = "events"
	KindVenues      = "venues"
)

var kindAliases = map[string]string{
	"competitors": KindCompetitors, "competitor": KindCompetitors, "fighters": KindCompetitors, "fighter": KindCompetitors,
	"fights": KindFights, "fight": KindFights,
	"events": KindEvents, "event": KindEvents,
	"venues": KindVenues, "venue": KindVenues, "locations": KindVenues, "location": KindVenues,
}

// CanonicalKind 将命令行中的实体名（含 fighters/locations 等别名）归一
func CanonicalKind(kind string) (string, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(kind))]; ok {
		return k, nil
	}
	return "", model.NewValidationError("kind", fmt.Sprintf("不支持的实体类型: %s", kind))
}

// EntityForKind 将命令行中的实体名映射到模型
func EntityForKind(kind string) (interface{}, error) {
	k, err := CanonicalKind(kind)
	if err != nil {
		return nil, err
	}
	switch k {
	case KindCompetitors:
		return &model.Competitor{}, nil
	case KindFights:
		return &model.Fight{}, nil
	case KindEvents:
		return &model.Event{}, nil
	default:
		return &model.Venue{}, nil
	}
}
