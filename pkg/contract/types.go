package contract

// Word: 归一化后的词（大小写归一由 Options.Case 决定）。
type Word = string

// Count: 词的出现次数（非负）。
type Count = uint64

// Chunk: 缓冲区内的连续字节区间 [Start, End)。
// 约束：
// - 起止均落在合法码点边界；
// - 同一次切分产出的区间无重叠、无缝隙，并集覆盖整个缓冲区；
// - 区间边界尽可能落在分隔符之后（见 chunk 包）。
type Chunk struct {
	Start int
	End   int
}

// Len 返回区间字节长度。
func (c Chunk) Len() int { return c.End - c.Start }

// Pair: 有序结果中的一项（词与计数）。
type Pair struct {
	Word  Word  `json:"word"`
	Count Count `json:"count"`
}

// WordTally: 单次运行的最终产物，构造后不可变。
// - Tally: 按 Options.Sort 排序的 (词, 计数) 序列；
// - Count: 过滤前的总词数；
// - Uniq: 过滤后的唯一词数（len(Tally)）。
type WordTally struct {
	Tally []Pair `json:"tally"`
	Count Count  `json:"count"`
	Uniq  int    `json:"uniq"`
}
