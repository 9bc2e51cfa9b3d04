package repository

import (
	"errors"
	"time"

	"FightSync/internal/model"
	"FightSync/internal/utils/dbctx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FightRepository 对决仓储（含对决-选手关联）
type FightRepository interface {
	// FindByEventTitle 按自然键 (event_id, title) 查找，不存在返回 nil, nil
	FindByEventTitle(dbc dbctx.Context, eventID uint64, title string) (*model.Fight, error)
	Create(dbc dbctx.Context, f *model.Fight) error
	// ListByEvent 按存储顺序（id）返回赛事下的对决
	ListByEvent(dbc dbctx.Context, eventID uint64) ([]*model.Fight, error)
	ListAll(dbc dbctx.Context) ([]*model.Fight, error)
	UpdateTitle(dbc dbctx.Context, id uint64, title string) error
	// ReplaceCompetitors 用给定列表整体替换对决的选手集合，顺序写入 position
	ReplaceCompetitors(dbc dbctx.Context, fightID uint64, competitorIDs []uint64) error
	// ListLinks 按 position 返回对决的关联行
	ListLinks(dbc dbctx.Context, fightID uint64) ([]*model.FightCompetitor, error)
}

type fightRepository struct {
	db *gorm.DB
}

func NewFightRepository(db *gorm.DB) FightRepository {
	return &fightRepository{db: db}
}

func (r *fightRepository) FindByEventTitle(dbc dbctx.Context, eventID uint64, title string) (*model.Fight, error) {
	var f model.Fight
	if err := dbc.Conn(r.db).Where("event_id = ? AND title = ?", eventID, title).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, model.WrapStoreError("查询对决", err)
	}
	return &f, nil
}

func (r *fightRepository) Create(dbc dbctx.Context, f *model.Fight) error {
	return model.WrapStoreError("保存对决", dbc.Conn(r.db).Omit(clause.Associations).Create(f).Error)
}

func (r *fightRepository) ListByEvent(dbc dbctx.Context, eventID uint64) ([]*model.Fight, error) {
	var fights []*model.Fight
	if err := dbc.Conn(r.db).Where("event_id = ?", eventID).Order("id ASC").Find(&fights).Error; err != nil {
		return nil, model.WrapStoreError("查询赛事对决", err)
	}
	return fights, nil
}

func (r *fightRepository) ListAll(dbc dbctx.Context) ([]*model.Fight, error) {
	var fights []*model.Fight
	if err := dbc.Conn(r.db).Order("id ASC").Find(&fights).Error; err != nil {
		return nil, model.WrapStoreError("查询对决列表", err)
	}
	return fights, nil
}

func (r *fightRepository) UpdateTitle(dbc dbctx.Context, id uint64, title string) error {
	return model.WrapStoreError("更新对决标题", dbc.Conn(r.db).Model(&model.Fight{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "updated_at": time.Now()}).Error)
}

func (r *fightRepository) ReplaceCompetitors(dbc dbctx.Context, fightID uint64, competitorIDs []uint64) error {
	conn := dbc.Conn(r.db)
	if err := conn.Where("fight_id = ?", fightID).Delete(&model.FightCompetitor{}).Error; err != nil {
		return model.WrapStoreError("清除对决选手", err)
	}
	if len(competitorIDs) == 0 {
		return nil
	}
	links := make([]*model.FightCompetitor, 0, len(competitorIDs))
	for i, id := range competitorIDs {
		links = append(links, &model.FightCompetitor{FightID: fightID, CompetitorID: id, Position: i})
	}
	return model.WrapStoreError("保存对决选手", conn.Omit(clause.Associations).Create(&links).Error)
}

func (r *fightRepository) ListLinks(dbc dbctx.Context, fightID uint64) ([]*model.FightCompetitor, error) {
	var links []*model.FightCompetitor
	if err := dbc.Conn(r.db).Where("fight_id = ?", fightID).Order("position ASC").Find(&links).Error; err != nil {
		return nil, model.WrapStoreError("查询对决选手", err)
	}
	return links, nil
}
