package contract

import "strings"

// Case: 计数时的大小写归一模式。
type Case string

const (
	CaseOriginal Case = "original"
	CaseUpper    Case = "upper"
	CaseLower    Case = "lower"
)

// Normalize 按模式归一化一个词。
func (c Case) Normalize(word string) string {
	switch c {
	case CaseUpper:
		return strings.ToUpper(word)
	case CaseOriginal:
		return word
	default:
		return strings.ToLower(word)
	}
}

// Encoding: 词边界检测模式。
type Encoding string

const (
	// EncodingUnicode: 与区域设置无关的 Unicode 词边界分段（默认）。
	EncodingUnicode Encoding = "unicode"
	// EncodingAscii: 仅 ASCII 快速路径；遇到任何 >= 0x80 的字节立即失败。
	EncodingAscii Encoding = "ascii"
)

// Io: 输入读取策略。
type Io string

const (
	// IoStreamed: 有界缓冲流式读取，不整载输入（默认；管道唯一可用策略之外也适用文件）。
	IoStreamed Io = "streamed"
	// IoBuffered: 先整载入自有缓冲再处理。
	IoBuffered Io = "buffered"
	// IoMmap: 内存映射零拷贝视图；仅常规可寻址文件，管道报错而非回退。
	IoMmap Io = "mmap"
)

// Processing: 处理策略。
type Processing string

const (
	ProcessingSequential Processing = "sequential"
	ProcessingParallel   Processing = "parallel"
)

// Sort: 结果排序。
type Sort string

const (
	// SortDesc: 按计数降序；计数相同按词字典序升序决出（固定、确定性的并列规则）。
	SortDesc Sort = "desc"
	// SortAsc: 按词字典序升序。
	SortAsc Sort = "asc"
	// SortUnsorted: 保持合并的自然顺序（首次出现序，确定性）。
	SortUnsorted Sort = "unsorted"
)

// Performance: 容量估算与切分调优参数。
// 由配置层一次性捕获（ENV/JSON/CLI），核心不读环境。
type Performance struct {
	// BaseCapacity: 无体积线索时 TallyMap 的初始容量。
	BaseCapacity int
	// UniquenessRatio: 估算唯一词数的比率（总词数 : 唯一词数）。
	UniquenessRatio int
	// WordsPerKB: 每 KB 文本的词数估算。
	WordsPerKB int
	// ChunkSize: 并行切分的目标块大小（字节）。
	ChunkSize int
}

// 默认调优值。
const (
	DefaultBaseCapacity    = 16384
	DefaultUniquenessRatio = 10
	DefaultWordsPerKB      = 200
	DefaultChunkSize       = 64 * 1024
)

// DefaultPerformance 返回默认调优参数。
func DefaultPerformance() Performance {
	return Performance{
		BaseCapacity:    DefaultBaseCapacity,
		UniquenessRatio: DefaultUniquenessRatio,
		WordsPerKB:      DefaultWordsPerKB,
		ChunkSize:       DefaultChunkSize,
	}
}

// Capacity 依据输入体积线索估算目标 map 容量。
// sizeHint < 0 表示体积未知（管道），退回 BaseCapacity。
// 零值槽位回填默认，杜绝除零与零容量钳制。
func (p Performance) Capacity(sizeHint int64) int {
	base := p.BaseCapacity
	if base <= 0 {
		base = DefaultBaseCapacity
	}
	if sizeHint < 0 {
		return base
	}
	ratio := p.UniquenessRatio
	if ratio <= 0 {
		ratio = DefaultUniquenessRatio
	}
	wpk := p.WordsPerKB
	if wpk <= 0 {
		wpk = DefaultWordsPerKB
	}
	est := sizeHint / 1024 * int64(wpk) / int64(ratio)
	if est < 16 {
		return 16
	}
	if est > int64(base)*64 {
		return base * 64
	}
	return int(est)
}

// FilterSpec: 过滤规格（未编译的原始形式；模式在处理开始前编译并校验）。
type FilterSpec struct {
	// MinChars: 词的最小字符数（按字素簇计）。0 表示不限制。
	MinChars int
	// MinCount: 词的最小出现次数。0 或 1 表示不限制。
	MinCount Count
	// ExcludeWords: 显式排除词表（按 Case 归一后比较）。
	ExcludeWords []string
	// ExcludePatterns: 命中任一模式的词被丢弃。
	ExcludePatterns []string
	// IncludePatterns: 非空时，词必须命中至少一个模式才保留。
	IncludePatterns []string
}

// Options: 单次运行的只读配置。由外部配置层构造一次并传入核心。
type Options struct {
	Case       Case
	Encoding   Encoding
	Io         Io
	Processing Processing
	Sort       Sort
	// Threads: 工作协程数；0 表示使用全部可用核。
	Threads int
	Perf    Performance
	Filters FilterSpec
}

// DefaultOptions 返回与原始行为一致的默认配置。
func DefaultOptions() Options {
	return Options{
		Case:       CaseLower,
		Encoding:   EncodingUnicode,
		Io:         IoStreamed,
		Processing: ProcessingSequential,
		Sort:       SortDesc,
		Threads:    0,
		Perf:       DefaultPerformance(),
	}
}
