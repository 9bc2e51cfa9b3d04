package repository

import (
	"errors"
	"time"

	"FightSync/internal/model"
	"FightSync/internal/utils/dbctx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompetitorRepository 选手仓储
type CompetitorRepository interface {
	// FindByNameBirth 按自然键 (name, birth_date) 查找，不存在返回 nil, nil
	FindByNameBirth(dbc dbctx.Context, name string, birthDate time.Time) (*model.Competitor, error)
	Create(dbc dbctx.Context, c *model.Competitor) error
	ListAll(dbc dbctx.Context) ([]*model.Competitor, error)
	// ListByFight 按关联 position 顺序返回对决的选手
	ListByFight(dbc dbctx.Context, fightID uint64) ([]*model.Competitor, error)
	// UpdateImageVariants 写入派生图片字段（nil 表示不修改）
	UpdateImageVariants(dbc dbctx.Context, id uint64, fullBody, bioNoIndex, fullBodyNoIndex *string) error
}

type competitorRepository struct {
	db *gorm.DB
}

func NewCompetitorRepository(db *gorm.DB) CompetitorRepository {
	return &competitorRepository{db: db}
}

func (r *competitorRepository) FindByNameBirth(dbc dbctx.Context, name string, birthDate time.Time) (*model.Competitor, error) {
	var c model.Competitor
	if err := dbc.Conn(r.db).Where("name = ? AND birth_date = ?", name, birthDate.UTC()).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, model.WrapStoreError("查询选手", err)
	}
	return &c, nil
}

func (r *competitorRepository) Create(dbc dbctx.Context, c *model.Competitor) error {
	c.BirthDate = c.BirthDate.UTC()
	return model.WrapStoreError("保存选手", dbc.Conn(r.db).Omit(clause.Associations).Create(c).Error)
}

func (r *competitorRepository) ListAll(dbc dbctx.Context) ([]*model.Competitor, error) {
	var list []*model.Competitor
	if err := dbc.Conn(r.db).Order("id ASC").Find(&list).Error; err != nil {
		return nil, model.WrapStoreError("查询选手列表", err)
	}
	return list, nil
}

func (r *competitorRepository) ListByFight(dbc dbctx.Context, fightID uint64) ([]*model.Competitor, error) {
	var list []*model.Competitor
	if err := dbc.Conn(r.db).
		Joins("JOIN fight_competitors ON fight_competitors.competitor_id = competitors.id").
		Where("fight_competitors.fight_id = ?", fightID).
		Order("fight_competitors.position ASC").
		Find(&list).Error; err != nil {
		return nil, model.WrapStoreError("查询对决选手", err)
	}
	return list, nil
}

func (r *competitorRepository) UpdateImageVariants(dbc dbctx.Context, id uint64, fullBody, bioNoIndex, fullBodyNoIndex *string) error {
	updates := map[string]interface{}{}
	if fullBody != nil {
		updates["full_body_image"] = *fullBody
	}
	if bioNoIndex != nil {
		updates["bio_image_no_index"] = *bioNoIndex
	}
	if fullBodyNoIndex != nil {
		updates["full_body_no_index"] = *fullBodyNoIndex
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()
	return model.WrapStoreError("更新选手图片", dbc.Conn(r.db).Model(&model.Competitor{}).
		Where("id = ?", id).
		Updates(updates).Error)
}
