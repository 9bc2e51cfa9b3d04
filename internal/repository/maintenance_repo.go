package repository

import (
	"fmt"
	"reflect"

	"FightSync/internal/model"
	"FightSync/internal/utils/dbctx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaintenanceRepository 面向运维的批量数据修正
type MaintenanceRepository interface {
	// ReplaceInColumn 将 entity 对应表中 column 列的 target 全部替换为 replacement，返回影响行数
	ReplaceInColumn(dbc dbctx.Context, entity interface{}, column, target, replacement string) (int64, error)
}

type maintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) ReplaceInColumn(dbc dbctx.Context, entity interface{}, column, target, replacement string) (int64, error) {
	if target == "" {
		return 0, model.NewValidationError("target", "不能为空")
	}
	stmt := &gorm.Statement{DB: r.db}
	if err := stmt.Parse(entity); err != nil {
		return 0, fmt.Errorf("解析模型失败: %w", err)
	}
	field := stmt.Schema.LookUpField(column)
	if field == nil || field.DBName == "" {
		return 0, model.NewValidationError(column, fmt.Sprintf("不是表 %s 的列", stmt.Schema.Table))
	}
	// DataType 会被 type:varchar/text 标签覆盖，按 Go 类型判断
	if field.IndirectFieldType.Kind() != reflect.String {
		return 0, model.NewValidationError(column, "不是文本列")
	}

	col := clause.Column{Name: field.DBName}
	res := dbc.Conn(r.db).Model(entity).
		Where("? IS NOT NULL", col).
		Update(field.DBName, gorm.Expr("REPLACE(?, ?, ?)", col, target, replacement))
	if res.Error != nil {
		return 0, model.WrapStoreError("批量替换", res.Error)
	}
	return res.RowsAffected, nil
}
