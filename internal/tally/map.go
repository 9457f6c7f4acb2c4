// Package tally 实现按 chunk 并行计数与确定性合并。
// 并发模型：fork-join；每个 worker 独占私有 TallyMap（热路径零锁），
// join 后按 chunk 序做交换且结合的归并折叠。
package tally

import (
	"wordtally/pkg/contract"
)

// TallyMap: 归一化词 → 出现次数。
// 除 map 外维护首次插入顺序，使 "unsorted" 结果在任意并行度下可复现；
// 实例要么为单 worker 私有，要么在归并阶段被单协程独占，无内部同步。
type TallyMap struct {
	counts map[contract.Word]contract.Count
	order  []contract.Word
}

// NewMap 以预留容量创建 TallyMap。
func NewMap(capacity int) *TallyMap {
	if capacity < 0 {
		capacity = 0
	}
	return &TallyMap{
		counts: make(map[contract.Word]contract.Count, capacity),
		order:  make([]contract.Word, 0, capacity),
	}
}

// Add 将词计数加一，首见词记录插入顺序。
func (m *TallyMap) Add(word contract.Word) {
	if _, ok := m.counts[word]; !ok {
		m.order = append(m.order, word)
	}
	m.counts[word]++
}

// AddCount 累加任意次数（归并用）。
func (m *TallyMap) AddCount(word contract.Word, n contract.Count) {
	if n == 0 {
		return
	}
	if _, ok := m.counts[word]; !ok {
		m.order = append(m.order, word)
	}
	m.counts[word] += n
}

// Merge 将 other 并入 m，保持 m 的既有顺序，other 的新词按其顺序追加。
// 归并按 chunk 序逐一调用即可得到确定性的首见顺序。
func (m *TallyMap) Merge(other *TallyMap) {
	if other == nil {
		return
	}
	for _, w := range other.order {
		m.AddCount(w, other.counts[w])
	}
}

// Len 返回唯一词数。
func (m *TallyMap) Len() int { return len(m.counts) }

// Get 返回词的计数（缺省 0）。
func (m *TallyMap) Get(word contract.Word) contract.Count { return m.counts[word] }

// Total 返回全部计数之和。
func (m *TallyMap) Total() contract.Count {
	var sum contract.Count
	for _, c := range m.counts {
		sum += c
	}
	return sum
}

// Each 按首次插入顺序遍历；yield 返回 false 提前停止。
func (m *TallyMap) Each(yield func(word contract.Word, count contract.Count) bool) {
	for _, w := range m.order {
		if !yield(w, m.counts[w]) {
			return
		}
	}
}

// Retain 仅保留谓词为真的词，维持相对顺序（过滤用）。
func (m *TallyMap) Retain(pred func(word contract.Word, count contract.Count) bool) {
	kept := m.order[:0]
	for _, w := range m.order {
		if pred(w, m.counts[w]) {
			kept = append(kept, w)
		} else {
			delete(m.counts, w)
		}
	}
	m.order = kept
}
