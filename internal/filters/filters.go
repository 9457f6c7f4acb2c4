// Package filters 对统计结果做词过滤与最终排序。
package filters

import (
	"regexp"
	"sort"

	"github.com/clipperhouse/uax29/graphemes"

	"wordtally/internal/tally"
	"wordtally/pkg/contract"
)

// Filters 由 FilterSpec 编译而成的可执行过滤器。
// 编译一次，可对任意次统计结果复用。
type Filters struct {
	minChars int
	minCount contract.Count
	exclude  map[contract.Word]struct{}
	excludeP []*regexp.Regexp
	includeP []*regexp.Regexp
}

// Compile 编译过滤规格。排除词按 c 归一化；
// 任一模式非法即返回 PatternError（配置错，先于 I/O 暴露）。
func Compile(spec *contract.FilterSpec, c contract.Case) (*Filters, error) {
	f := &Filters{
		minChars: spec.MinChars,
		minCount: spec.MinCount,
	}
	if len(spec.ExcludeWords) > 0 {
		f.exclude = make(map[contract.Word]struct{}, len(spec.ExcludeWords))
		for _, w := range spec.ExcludeWords {
			f.exclude[c.Normalize(w)] = struct{}{}
		}
	}
	var err error
	if f.excludeP, err = compilePatterns("exclude", spec.ExcludePatterns); err != nil {
		return nil, err
	}
	if f.includeP, err = compilePatterns("include", spec.IncludePatterns); err != nil {
		return nil, err
	}
	return f, nil
}

func compilePatterns(kind string, pats []string) ([]*regexp.Regexp, error) {
	if len(pats) == 0 {
		return nil, nil
	}
	out := make([]*regexp.Regexp, 0, len(pats))
	for _, p := range pats {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &contract.PatternError{Kind: kind, Pattern: p, Err: err}
		}
		out = append(out, re)
	}
	return out, nil
}

// Apply 就地过滤 m，保持首现顺序。
// 次序固定：最小计数 → 最小字符 → 排除词 → 排除模式 → 包含模式。
func (f *Filters) Apply(m *tally.TallyMap) {
	if f.minCount > 1 {
		min := f.minCount
		m.Retain(func(_ contract.Word, n contract.Count) bool { return n >= min })
	}
	if f.minChars > 1 {
		min := f.minChars
		m.Retain(func(w contract.Word, _ contract.Count) bool {
			return graphemeLen(string(w)) >= min
		})
	}
	if f.exclude != nil {
		m.Retain(func(w contract.Word, _ contract.Count) bool {
			_, hit := f.exclude[w]
			return !hit
		})
	}
	if len(f.excludeP) > 0 {
		m.Retain(func(w contract.Word, _ contract.Count) bool {
			return !anyMatch(f.excludeP, string(w))
		})
	}
	if len(f.includeP) > 0 {
		m.Retain(func(w contract.Word, _ contract.Count) bool {
			return anyMatch(f.includeP, string(w))
		})
	}
}

func anyMatch(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// graphemeLen 词长按字形簇计数，不按字节或码点。
func graphemeLen(s string) int {
	n := 0
	seg := graphemes.NewSegmenter([]byte(s))
	for seg.Next() {
		n++
	}
	return n
}

// Finalize 过滤并排序，产出最终结果。
// Count 为过滤前全量词数，Uniq 为过滤后词表长度。
func Finalize(m *tally.TallyMap, f *Filters, order contract.Sort) *contract.WordTally {
	total := m.Total()
	if f != nil {
		f.Apply(m)
	}
	pairs := make([]contract.Pair, 0, m.Len())
	m.Each(func(w contract.Word, n contract.Count) bool {
		pairs = append(pairs, contract.Pair{Word: w, Count: n})
		return true
	})
	switch order {
	case contract.SortDesc:
		// 计数降序，计数相同按词字典序升序。
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].Count != pairs[j].Count {
				return pairs[i].Count > pairs[j].Count
			}
			return pairs[i].Word < pairs[j].Word
		})
	case contract.SortAsc:
		// 按词字典序升序。
		sort.Slice(pairs, func(i, j int) bool {
			return pairs[i].Word < pairs[j].Word
		})
	case contract.SortUnsorted:
		// 保持首现顺序。
	}
	return &contract.WordTally{Tally: pairs, Count: total, Uniq: len(pairs)}
}
