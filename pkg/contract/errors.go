package contract

import (
	"errors"
	"fmt"
)

// 最小哨兵错误分类。
var (
	// ErrMmapUnsupported: 对不可寻址来源（管道/套接字/STDIN）请求内存映射。
	// 不做静默回退，直接上抛。
	ErrMmapUnsupported = errors.New("mapping unsupported: source is not a seekable regular file")
	// ErrConfigInvalid: 配置非法（数值越界、枚举未知等），在处理开始前出现。
	ErrConfigInvalid = errors.New("config invalid")
	// ErrUsage: 调用方式错误（参数组合非法）。
	ErrUsage = errors.New("usage")
)

// EncodingError: 编码错误，携带首个非法字节的绝对偏移。
// 仅在 ASCII 模式或输入为畸形 UTF-8 时可达。
type EncodingError struct {
	// Offset: 完整输入中的绝对字节位置（跨 chunk 已折算）。
	Offset int64
	// Byte: 违规字节值。
	Byte byte
	// Encoding: 触发错误的编码模式。
	Encoding Encoding
}

func (e *EncodingError) Error() string {
	if e.Encoding == EncodingAscii {
		return fmt.Sprintf("non-ascii byte 0x%02x at offset %d", e.Byte, e.Offset)
	}
	return fmt.Sprintf("invalid utf-8 byte 0x%02x at offset %d", e.Byte, e.Offset)
}

// Translate 返回偏移平移后的副本（chunk 内相对偏移 → 全输入绝对偏移）。
func (e *EncodingError) Translate(base int64) *EncodingError {
	return &EncodingError{Offset: e.Offset + base, Byte: e.Byte, Encoding: e.Encoding}
}

// InputError: 输入来源错误（不存在/无权限/打开或映射失败），保留底层错误以便区分。
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string { return fmt.Sprintf("input %s: %v", e.Path, e.Err) }

func (e *InputError) Unwrap() error { return e.Err }

// PatternError: 过滤模式编译失败（配置错误的一种）。
type PatternError struct {
	// Kind: "include" 或 "exclude"。
	Kind    string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Kind, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Is 使 PatternError 归入 ErrConfigInvalid 哨兵。
func (e *PatternError) Is(target error) bool { return target == ErrConfigInvalid }
