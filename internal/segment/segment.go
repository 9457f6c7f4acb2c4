// Package segment 从文本片段产出词 token（Unicode 或 ASCII 模式）。
// 约束：
// 1) 无状态：输出仅取决于片段字节，可跨 chunk/协程安全复用；
// 2) 惰性有限序列，yield 返回 false 即提前停止；
// 3) 不做大小写归一（由计数方在计数时施加）。
package segment

import (
	"github.com/clipperhouse/uax29/iterators/filter"
	"github.com/clipperhouse/uax29/words"

	"wordtally/pkg/contract"
)

// Words 按编码模式遍历片段中的词。
// ASCII 模式遇到任何 >= 0x80 的字节立即失败，错误偏移相对片段起点。
func Words(span []byte, enc contract.Encoding, yield func(word []byte) bool) error {
	if enc == contract.EncodingAscii {
		return asciiWords(span, yield)
	}
	return unicodeWords(span, yield)
}

// unicodeWords 应用 UAX#29 词边界分段，丢弃纯空白/标点 token。
// 片段须为合法 UTF-8（由调用方预先校验）。
func unicodeWords(span []byte, yield func(word []byte) bool) error {
	seg := words.NewSegmenter(span)
	seg.Filter(filter.Wordlike)
	for seg.Next() {
		if !yield(seg.Bytes()) {
			return nil
		}
	}
	return seg.Err()
}

// asciiWords 快速路径：字母数字连跑，词内撇号视为词的一部分。
// 扫描覆盖片段全部字节，包括 token 之外的区域。
func asciiWords(span []byte, yield func(word []byte) bool) error {
	start := -1 // 当前 token 起点；-1 表示不在 token 内
	for i := 0; i < len(span); i++ {
		b := span[i]
		if b >= 0x80 {
			return &contract.EncodingError{
				Offset:   int64(i),
				Byte:     b,
				Encoding: contract.EncodingAscii,
			}
		}
		switch {
		case isAlnum(b):
			if start < 0 {
				start = i
			}
		case b == '\'' && start >= 0 && i+1 < len(span) && isAlnum(span[i+1]):
			// 词内撇号：前后均为字母数字才联结
		default:
			if start >= 0 {
				if !yield(span[start:i]) {
					return scanRest(span, i)
				}
				start = -1
			}
		}
	}
	if start >= 0 {
		if !yield(span[start:]) {
			return nil
		}
	}
	return nil
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// scanRest 在调用方提前停止后继续完成非 ASCII 校验，保证错误语义不依赖消费进度。
func scanRest(span []byte, from int) error {
	for i := from; i < len(span); i++ {
		if span[i] >= 0x80 {
			return &contract.EncodingError{
				Offset:   int64(i),
				Byte:     span[i],
				Encoding: contract.EncodingAscii,
			}
		}
	}
	return nil
}
