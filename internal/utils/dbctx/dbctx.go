package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context 一次调用的工作单元：请求上下文 + 可选的 GORM 事务
// Tx 为空时仓储使用自身持有的连接
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// New 创建不带事务的工作单元
func New(ctx context.Context) Context {
	return Context{Ctx: ctx}
}

// Conn 返回本次调用应使用的连接（事务优先）
func (c Context) Conn(fallback *gorm.DB) *gorm.DB {
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if c.Tx != nil {
		return c.Tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}
