package interfaces

import (
	"context"

	"FightSync/internal/model"
)

// RecordSource 所有记录来源必须实现的核心接口
type RecordSource interface {
	GetName() string                                              // 来源名称
	FetchRecords(ctx context.Context) ([]*model.RawRecord, error) // 拉取原始记录
}
