package repository

import (
	"context"
	"fmt"

	"FightSync/internal/model"
	"FightSync/internal/utils/dbctx"

	"gorm.io/gorm"
)

// Store 持有数据库连接，提供事务边界
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB 返回底层连接
func (s *Store) DB() *gorm.DB { return s.db }

// InTx 在单个事务中执行 fn：fn 返回错误或 panic 时整体回滚，否则提交
func (s *Store) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) (err error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return model.WrapStoreError("开启事务", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			err = fmt.Errorf("事务执行panic: %v", p)
		}
	}()

	if err := fn(dbctx.Context{Ctx: ctx, Tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return model.WrapStoreError("提交事务", err)
	}
	return nil
}
