package diag

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"wordtally/pkg/contract"
)

// Code 是最小错误分类代码。
// 仅用于日志汇总，与退出码解耦。
type Code string

const (
	CodeUnknown  Code = "unknown"
	CodeCancel   Code = "cancel"
	CodeEncoding Code = "encoding"
	CodeConfig   Code = "config"
	CodeInput    Code = "input"
	CodeIO       Code = "io"
)

// Classify 将错误归为最小分类。
// 说明：仅依赖哨兵错误与标准库错误类型，不做字符串匹配。
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	// 取消/超时优先
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancel
	}
	// 编码/数据
	var ee *contract.EncodingError
	if errors.As(err, &ee) {
		return CodeEncoding
	}
	// 配置
	if errors.Is(err, contract.ErrConfigInvalid) || errors.Is(err, contract.ErrUsage) {
		return CodeConfig
	}
	// 输入来源（不存在/无权限/不支持映射）
	var ie *contract.InputError
	if errors.As(err, &ie) {
		return CodeInput
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, contract.ErrMmapUnsupported) {
		return CodeInput
	}
	// I/O
	var perr *os.PathError
	if errors.As(err, &perr) {
		return CodeIO
	}
	return CodeUnknown
}
