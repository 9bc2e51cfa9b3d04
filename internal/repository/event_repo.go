package repository

import (
	"errors"
	"time"

	"FightSync/internal/model"
	"FightSync/internal/utils/dbctx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepository 赛事仓储
type EventRepository interface {
	// FindByDateVenue 按自然键 (date, venue_id) 查找，不存在返回 nil, nil
	FindByDateVenue(dbc dbctx.Context, date time.Time, venueID uint64) (*model.Event, error)
	Create(dbc dbctx.Context, e *model.Event) error
	// GetByID 获取赛事（含场馆），不存在返回 nil, nil
	GetByID(dbc dbctx.Context, id uint64) (*model.Event, error)
	// ListEvents 分页查询，按时间倒序
	ListEvents(dbc dbctx.Context, page, pageSize int) ([]*model.Event, int64, error)
	// ListAll 全量按 id 顺序返回（供派生字段批处理）
	ListAll(dbc dbctx.Context) ([]*model.Event, error)
	// ListByVenueIDs 查询指定场馆下的赛事
	ListByVenueIDs(dbc dbctx.Context, venueIDs []uint64) ([]*model.Event, error)
	// ReassignVenue 将指向 fromIDs 的赛事改为指向 toID，返回影响行数
	ReassignVenue(dbc dbctx.Context, fromIDs []uint64, toID uint64) (int64, error)
	UpdateEventURL(dbc dbctx.Context, id uint64, url string) error
	UpdateEventImage(dbc dbctx.Context, id uint64, image string) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) FindByDateVenue(dbc dbctx.Context, date time.Time, venueID uint64) (*model.Event, error) {
	var e model.Event
	if err := dbc.Conn(r.db).Where("date = ? AND venue_id = ?", date.UTC(), venueID).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, model.WrapStoreError("查询赛事", err)
	}
	return &e, nil
}

func (r *eventRepository) Create(dbc dbctx.Context, e *model.Event) error {
	e.Date = e.Date.UTC()
	return model.WrapStoreError("保存赛事", dbc.Conn(r.db).Omit(clause.Associations).Create(e).Error)
}

func (r *eventRepository) GetByID(dbc dbctx.Context, id uint64) (*model.Event, error) {
	var e model.Event
	if err := dbc.Conn(r.db).Preload("Venue").Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, model.WrapStoreError("查询赛事", err)
	}
	return &e, nil
}

func (r *eventRepository) ListEvents(dbc dbctx.Context, page, pageSize int) ([]*model.Event, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	var total int64
	if err := dbc.Conn(r.db).Model(&model.Event{}).Count(&total).Error; err != nil {
		return nil, 0, model.WrapStoreError("统计赛事", err)
	}
	var events []*model.Event
	if err := dbc.Conn(r.db).Preload("Venue").
		Order("date DESC").Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&events).Error; err != nil {
		return nil, 0, model.WrapStoreError("查询赛事列表", err)
	}
	return events, total, nil
}

func (r *eventRepository) ListAll(dbc dbctx.Context) ([]*model.Event, error) {
	var events []*model.Event
	if err := dbc.Conn(r.db).Order("id ASC").Find(&events).Error; err != nil {
		return nil, model.WrapStoreError("查询赛事列表", err)
	}
	return events, nil
}

func (r *eventRepository) ListByVenueIDs(dbc dbctx.Context, venueIDs []uint64) ([]*model.Event, error) {
	if len(venueIDs) == 0 {
		return []*model.Event{}, nil
	}
	var events []*model.Event
	if err := dbc.Conn(r.db).Where("venue_id IN ?", venueIDs).Order("id ASC").Find(&events).Error; err != nil {
		return nil, model.WrapStoreError("查询场馆赛事", err)
	}
	return events, nil
}

func (r *eventRepository) ReassignVenue(dbc dbctx.Context, fromIDs []uint64, toID uint64) (int64, error) {
	if len(fromIDs) == 0 {
		return 0, nil
	}
	res := dbc.Conn(r.db).Model(&model.Event{}).
		Where("venue_id IN ?", fromIDs).
		Updates(map[string]interface{}{
			"venue_id":   toID,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, model.WrapStoreError("更新赛事场馆", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *eventRepository) UpdateEventURL(dbc dbctx.Context, id uint64, url string) error {
	return model.WrapStoreError("更新赛事URL", dbc.Conn(r.db).Model(&model.Event{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"event_url": url, "updated_at": time.Now()}).Error)
}

func (r *eventRepository) UpdateEventImage(dbc dbctx.Context, id uint64, image string) error {
	return model.WrapStoreError("更新赛事图片", dbc.Conn(r.db).Model(&model.Event{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"event_image": image, "updated_at": time.Now()}).Error)
}
