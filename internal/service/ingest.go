package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FightSync/internal/interfaces"
	"FightSync/internal/model"
	"FightSync/internal/repository"
	"FightSync/internal/utils/dbctx"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OutcomeStatus 单条记录的处理结果
type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeSkipped   OutcomeStatus = "skipped_duplicate"
	OutcomeFailed    OutcomeStatus = "failed"
)

// RecordOutcome 单条记录的结果
type RecordOutcome struct {
	Index   int           `json:"index"`
	Title   string        `json:"title"`
	Status  OutcomeStatus `json:"status"`
	Reason  string        `json:"reason,omitempty"`
	FightID uint64        `json:"fight_id,omitempty"`
}

// IngestReport 一次批量入库的汇总
type IngestReport struct {
	RunID      string          `json:"run_id"`
	Source     string          `json:"source"`
	Total      int             `json:"total"`
	Succeeded  int             `json:"succeeded"`
	Skipped    int             `json:"skipped"`
	Failed     int             `json:"failed"`
	Outcomes   []RecordOutcome `json:"outcomes"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

func (r *IngestReport) add(o RecordOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case OutcomeSucceeded:
		r.Succeeded++
	case OutcomeSkipped:
		r.Skipped++
	default:
		r.Failed++
	}
}

// IngestService 入库编排：逐条顺序处理，每条记录一个事务（场馆+赛事+对决+选手+关联原子提交）
type IngestService struct {
	store    *repository.Store
	resolver *Resolver
	linker   *Linker
	runs     repository.IngestRunRepository
	logger   *logrus.Logger
}

func NewIngestService(db *gorm.DB, logger *logrus.Logger) *IngestService {
	fights := repository.NewFightRepository(db)
	return &IngestService{
		store: repository.NewStore(db),
		resolver: NewResolver(
			repository.NewVenueRepository(db),
			repository.NewEventRepository(db),
			fights,
			repository.NewCompetitorRepository(db),
			logger,
		),
		linker: NewLinker(fights),
		runs:   repository.NewIngestRunRepository(db),
		logger: logger,
	}
}

// IngestSource 从来源拉取记录并入库
func (s *IngestService) IngestSource(ctx context.Context, src interfaces.RecordSource) (*IngestReport, error) {
	records, err := src.FetchRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s拉取记录失败: %w", src.GetName(), err)
	}
	if len(records) == 0 {
		s.logger.Warnf("%s未拉取到任何记录", src.GetName())
	}
	return s.IngestAll(ctx, src.GetName(), records), nil
}

// IngestAll 逐条入库；单条失败只中止该条，不影响整批
func (s *IngestService) IngestAll(ctx context.Context, source string, records []*model.RawRecord) *IngestReport {
	report := &IngestReport{
		RunID:     uuid.NewString(),
		Source:    source,
		Total:     len(records),
		Outcomes:  make([]RecordOutcome, 0, len(records)),
		StartedAt: time.Now(),
	}
	log := s.logger.WithFields(logrus.Fields{"run_id": report.RunID, "source": source})

	for i, raw := range records {
		title := ""
		if raw != nil {
			title = raw.Title
		}
		if err := ctx.Err(); err != nil {
			report.add(RecordOutcome{Index: i, Title: title, Status: OutcomeFailed, Reason: err.Error()})
			continue
		}

		fightID, err := s.IngestRecord(ctx, raw)
		entry := log.WithFields(logrus.Fields{"index": i, "title": title})
		switch {
		case err == nil:
			report.add(RecordOutcome{Index: i, Title: title, Status: OutcomeSucceeded, FightID: fightID})
			entry.WithField("fight_id", fightID).Info("记录入库成功")
		case errors.Is(err, model.ErrDuplicateFight):
			report.add(RecordOutcome{Index: i, Title: title, Status: OutcomeSkipped, Reason: err.Error(), FightID: fightID})
			entry.Info("对决已存在，跳过")
		default:
			report.add(RecordOutcome{Index: i, Title: title, Status: OutcomeFailed, Reason: err.Error()})
			entry.WithError(err).Warn("记录入库失败，已回滚")
		}
	}
	report.FinishedAt = time.Now()

	s.saveRun(ctx, report, log)
	log.WithFields(logrus.Fields{
		"total":     report.Total,
		"succeeded": report.Succeeded,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
	}).Info("批量入库完成")
	return report
}

// IngestRecord 在单个事务内处理一条记录，返回对决ID。
// 对决已存在时返回包装了 model.ErrDuplicateFight 的错误及已有对决ID
func (s *IngestService) IngestRecord(ctx context.Context, raw *model.RawRecord) (uint64, error) {
	rec, err := raw.Normalize()
	if err != nil {
		return 0, err
	}

	var fightID uint64
	err = s.store.InTx(ctx, func(dbc dbctx.Context) error {
		venue, _, err := s.resolver.ResolveVenue(dbc, rec.Venue)
		if err != nil {
			return err
		}
		event, _, err := s.resolver.ResolveEvent(dbc, rec.Date, rec.LocalDate, venue.ID, rec.EventDescription)
		if err != nil {
			return err
		}
		existing, err := s.resolver.FindFight(dbc, event.ID, rec.Title)
		if err != nil {
			return err
		}
		if existing != nil {
			fightID = existing.ID
			return fmt.Errorf("%w: event_id=%d title=%s", model.ErrDuplicateFight, event.ID, rec.Title)
		}
		fight, _, err := s.resolver.ResolveFight(dbc, event.ID, rec)
		if err != nil {
			return err
		}

		competitors := make([]*model.Competitor, 0, len(rec.Competitors))
		for i, in := range rec.Competitors {
			c, _, err := s.resolver.ResolveCompetitor(dbc, in)
			if err != nil {
				return fmt.Errorf("competitors[%d]: %w", i, err)
			}
			competitors = append(competitors, c)
		}
		if err := s.linker.Link(dbc, fight, competitors); err != nil {
			return err
		}
		fightID = fight.ID
		return nil
	})
	if err != nil && !errors.Is(err, model.ErrDuplicateFight) {
		return 0, err
	}
	return fightID, err
}

func (s *IngestService) saveRun(ctx context.Context, report *IngestReport, log *logrus.Entry) {
	outcomes, err := json.Marshal(report.Outcomes)
	if err != nil {
		log.WithError(err).Warn("序列化入库结果失败")
		return
	}
	run := &model.IngestRun{
		RunUUID:    report.RunID,
		Source:     report.Source,
		Total:      report.Total,
		Succeeded:  report.Succeeded,
		Skipped:    report.Skipped,
		Failed:     report.Failed,
		Outcomes:   datatypes.JSON(outcomes),
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
	}
	if err := s.runs.Create(dbctx.New(ctx), run); err != nil {
		log.WithError(err).Warn("保存入库批次记录失败")
	}
}
