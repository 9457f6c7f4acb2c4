// Package chunk 将字节缓冲切分为边界安全、可独立并行处理的连续区间。
// 不变量：
// 1) 区间无重叠无缝隙，并集恰为 [0, N)；
// 2) 每个边界落在合法 UTF-8 码点边界，尽可能落在分隔符之后；
// 3) 给定 N 与份数，切分结果确定（无随机性）。
package chunk

import (
	"wordtally/pkg/contract"
)

// Window: 从朴素切点向前扫描分隔符的有界窗口。
// 远小于最小块体积（默认块 64KiB），窗口内找不到分隔符才退化到码点边界。
const Window = 4096

// isSeparator 按字节分类 ASCII 空白（无需解码）。
func isSeparator(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// isContinuation 判断 UTF-8 续字节（0b10xxxxxx）。
func isContinuation(b byte) bool { return b&0xC0 == 0x80 }

// boundary 将朴素切点 pos 解析为可接受边界。
// 优先：窗口内首个分隔符之后；窗口触及缓冲末尾：缓冲末尾；
// 退化：pos 起最近的非续字节（保证前进且不切断码点）。
func boundary(buf []byte, pos int) int {
	n := len(buf)
	if pos >= n {
		return n
	}
	limit := pos + Window
	if limit >= n {
		limit = n
	}
	for i := pos; i < limit; i++ {
		if isSeparator(buf[i]) {
			return i + 1
		}
	}
	if limit == n {
		// 剩余部分是一个未被分隔的长词尾：并入前一区间
		return n
	}
	// 窗口耗尽：退到最近码点边界（极罕见地切入长词内部）
	for i := pos; i < n; i++ {
		if !isContinuation(buf[i]) {
			return i
		}
	}
	return n
}

// Split 将 buf 切为至多 parts 个边界安全区间。
// 空缓冲返回 nil；parts <= 1 或缓冲过小返回单区间。
func Split(buf []byte, parts int) []contract.Chunk {
	n := len(buf)
	if n == 0 {
		return nil
	}
	if parts <= 1 || n < parts {
		return []contract.Chunk{{Start: 0, End: n}}
	}

	chunks := make([]contract.Chunk, 0, parts)
	start := 0
	for i := 1; i < parts; i++ {
		naive := i * n / parts
		if naive <= start {
			continue
		}
		end := boundary(buf, naive)
		if end <= start {
			continue
		}
		if end >= n {
			break
		}
		chunks = append(chunks, contract.Chunk{Start: start, End: end})
		start = end
	}
	return append(chunks, contract.Chunk{Start: start, End: n})
}

// LastSeparator 返回缓冲内最后一个分隔符之后的位置；无分隔符返回 0。
// 流式路径以此收口批尾，保证词与多字节码点不跨批。
func LastSeparator(buf []byte) int {
	for i := len(buf) - 1; i >= 0; i-- {
		if isSeparator(buf[i]) {
			return i + 1
		}
	}
	return 0
}
