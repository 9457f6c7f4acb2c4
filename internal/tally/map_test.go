package tally

import (
	"reflect"
	"testing"

	"wordtally/pkg/contract"
)

func pairs(m *TallyMap) []contract.Pair {
	var out []contract.Pair
	m.Each(func(w contract.Word, c contract.Count) bool {
		out = append(out, contract.Pair{Word: w, Count: c})
		return true
	})
	return out
}

// TestMapAddOrder 首见顺序保持
func TestMapAddOrder(t *testing.T) {
	m := NewMap(4)
	for _, w := range []string{"b", "a", "b", "c", "a", "b"} {
		m.Add(w)
	}
	want := []contract.Pair{{Word: "b", Count: 3}, {Word: "a", Count: 2}, {Word: "c", Count: 1}}
	if got := pairs(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}
	if m.Len() != 3 || m.Total() != 6 {
		t.Fatalf("len %d total %d", m.Len(), m.Total())
	}
}

// TestMapMergeCommutativeCounts 归并计数与顺序语义
func TestMapMergeCommutativeCounts(t *testing.T) {
	a := NewMap(0)
	a.Add("x")
	a.Add("y")
	b := NewMap(0)
	b.Add("y")
	b.Add("z")

	m := NewMap(0)
	m.Merge(a)
	m.Merge(b)
	want := []contract.Pair{{Word: "x", Count: 1}, {Word: "y", Count: 2}, {Word: "z", Count: 1}}
	if got := pairs(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}

	// 计数交换律：反序归并计数相同，顺序按归并序
	r := NewMap(0)
	r.Merge(b)
	r.Merge(a)
	if r.Get("y") != 2 || r.Get("x") != 1 || r.Get("z") != 1 {
		t.Fatalf("reverse merge counts wrong")
	}
}

// TestMapMergeNil 空与 nil 安全
func TestMapMergeNil(t *testing.T) {
	m := NewMap(0)
	m.Merge(nil)
	m.Merge(NewMap(0))
	if m.Len() != 0 {
		t.Fatalf("expect empty")
	}
}

// TestMapRetain 过滤保持相对顺序
func TestMapRetain(t *testing.T) {
	m := NewMap(0)
	for _, w := range []string{"aa", "b", "cc", "d", "ee"} {
		m.Add(w)
	}
	m.Retain(func(w contract.Word, _ contract.Count) bool { return len(w) == 2 })
	want := []contract.Pair{{Word: "aa", Count: 1}, {Word: "cc", Count: 1}, {Word: "ee", Count: 1}}
	if got := pairs(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}
	if m.Get("b") != 0 {
		t.Fatalf("removed word still counted")
	}
}
