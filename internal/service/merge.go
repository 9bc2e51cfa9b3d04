package service

import (
	"context"
	"fmt"

	"FightSync/internal/model"
	"FightSync/internal/repository"
	"FightSync/internal/utils/dbctx"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MergeResult 场馆合并结果
type MergeResult struct {
	PrimaryID     uint64   `json:"primary_id"`
	DuplicateIDs  []uint64 `json:"duplicate_ids"`
	EventsMoved   int64    `json:"events_moved"`
	VenuesDeleted int64    `json:"venues_deleted"`
}

// MergeService 人工指定的重复场馆合并
type MergeService struct {
	store  *repository.Store
	venues repository.VenueRepository
	events repository.EventRepository
	logger *logrus.Logger
}

func NewMergeService(db *gorm.DB, logger *logrus.Logger) *MergeService {
	return &MergeService{
		store:  repository.NewStore(db),
		venues: repository.NewVenueRepository(db),
		events: repository.NewEventRepository(db),
		logger: logger,
	}
}

// MergeVenues 分两步：先在一个事务内把重复场馆下的赛事改挂到主场馆并提交；
// 提交成功后再删除重复场馆。第一步失败时不做任何删除
func (s *MergeService) MergeVenues(ctx context.Context, primaryID uint64, duplicateIDs []uint64) (*MergeResult, error) {
	dups := dedupIDs(duplicateIDs)
	res := &MergeResult{PrimaryID: primaryID, DuplicateIDs: dups}
	if len(dups) == 0 {
		return res, nil
	}
	for _, id := range dups {
		if id == primaryID {
			return nil, model.NewValidationError("duplicate_ids", fmt.Sprintf("不能包含主场馆 %d", primaryID))
		}
	}
	primary, err := s.venues.GetByID(dbctx.New(ctx), primaryID)
	if err != nil {
		return nil, err
	}
	if primary == nil {
		return nil, model.NewValidationError("primary_id", fmt.Sprintf("场馆 %d 不存在", primaryID))
	}

	log := s.logger.WithFields(logrus.Fields{"primary_id": primaryID, "duplicate_ids": dups})

	// 第一步：改挂赛事
	err = s.store.InTx(ctx, func(dbc dbctx.Context) error {
		moved, err := s.events.ReassignVenue(dbc, dups, primaryID)
		if err != nil {
			return err
		}
		res.EventsMoved = moved
		return nil
	})
	if err != nil {
		log.WithError(err).Error("赛事改挂失败，合并已中止")
		return nil, err
	}

	// 第二步：删除重复场馆
	deleted, err := s.venues.DeleteByIDs(dbctx.New(ctx), dups)
	if err != nil {
		log.WithError(err).Error("删除重复场馆失败（赛事已改挂）")
		return res, err
	}
	res.VenuesDeleted = deleted
	log.WithFields(logrus.Fields{
		"events_moved":   res.EventsMoved,
		"venues_deleted": res.VenuesDeleted,
	}).Infof("场馆合并完成: %s", primary.Name)
	return res, nil
}

func dedupIDs(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
