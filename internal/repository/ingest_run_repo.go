package repository

import (
	"FightSync/internal/model"
	"FightSync/internal/utils/dbctx"

	"gorm.io/gorm"
)

// IngestRunRepository 入库批次审计
type IngestRunRepository interface {
	Create(dbc dbctx.Context, run *model.IngestRun) error
	GetByUUID(dbc dbctx.Context, runUUID string) (*model.IngestRun, error)
}

type ingestRunRepository struct {
	db *gorm.DB
}

func NewIngestRunRepository(db *gorm.DB) IngestRunRepository {
	return &ingestRunRepository{db: db}
}

func (r *ingestRunRepository) Create(dbc dbctx.Context, run *model.IngestRun) error {
	return model.WrapStoreError("保存入库批次", dbc.Conn(r.db).Create(run).Error)
}

func (r *ingestRunRepository) GetByUUID(dbc dbctx.Context, runUUID string) (*model.IngestRun, error) {
	var run model.IngestRun
	if err := dbc.Conn(r.db).Where("run_uuid = ?", runUUID).First(&run).Error; err != nil {
		return nil, model.WrapStoreError("查询入库批次", err)
	}
	return &run, nil
}
