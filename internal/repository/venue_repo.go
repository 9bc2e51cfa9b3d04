package repository

import (
	"errors"

	"FightSync/internal/model"
	"FightSync/internal/utils/dbctx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VenueRepository 场馆仓储
type VenueRepository interface {
	// FindByName 按名称精确查找，不存在返回 nil, nil
	FindByName(dbc dbctx.Context, name string) (*model.Venue, error)
	Create(dbc dbctx.Context, v *model.Venue) error
	GetByID(dbc dbctx.Context, id uint64) (*model.Venue, error)
	// DeleteByIDs 删除指定场馆，返回删除行数
	DeleteByIDs(dbc dbctx.Context, ids []uint64) (int64, error)
}

type venueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) FindByName(dbc dbctx.Context, name string) (*model.Venue, error) {
	var v model.Venue
	if err := dbc.Conn(r.db).Where("name = ?", name).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, model.WrapStoreError("查询场馆", err)
	}
	return &v, nil
}

func (r *venueRepository) Create(dbc dbctx.Context, v *model.Venue) error {
	return model.WrapStoreError("保存场馆", dbc.Conn(r.db).Omit(clause.Associations).Create(v).Error)
}

func (r *venueRepository) GetByID(dbc dbctx.Context, id uint64) (*model.Venue, error) {
	var v model.Venue
	if err := dbc.Conn(r.db).Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, model.WrapStoreError("查询场馆", err)
	}
	return &v, nil
}

func (r *venueRepository) DeleteByIDs(dbc dbctx.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.Conn(r.db).Where("id IN ?", ids).Delete(&model.Venue{})
	if res.Error != nil {
		return 0, model.WrapStoreError("删除场馆", res.Error)
	}
	return res.RowsAffected, nil
}
