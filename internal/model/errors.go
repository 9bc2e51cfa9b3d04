package model

import (
	"errors"
	"fmt"
)

// ValidationError 必填字段缺失或格式错误，仅中止当前记录
type ValidationError struct {
	Field  string // 字段路径，如 competitors[1].birthDate
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("校验失败: %s", e.Reason)
	}
	return fmt.Sprintf("校验失败: %s %s", e.Field, e.Reason)
}

// NewValidationError 创建 ValidationError
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StoreError 存储层错误（约束冲突、连接失败等）
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s失败: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// WrapStoreError err 为 nil 时返回 nil
func WrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// ErrDuplicateFight 对决已存在（说明该记录已入库过），不是失败
var ErrDuplicateFight = errors.New("对决已存在")

// IsValidationError 判断是否为校验错误
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStoreError 判断是否为存储层错误
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
