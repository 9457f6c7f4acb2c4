package config

import (
	"fmt"
	"strings"

	"wordtally/pkg/contract"
)

// Validate 校验枚举与数值域；违例一律归为配置错误。
func Validate(c *Config) error {
	switch contract.Case(c.Case) {
	case contract.CaseOriginal, contract.CaseUpper, contract.CaseLower:
	default:
		return fmt.Errorf("case %q: %w", c.Case, contract.ErrConfigInvalid)
	}
	switch contract.Encoding(c.Encoding) {
	case contract.EncodingUnicode, contract.EncodingAscii:
	default:
		return fmt.Errorf("encoding %q: %w", c.Encoding, contract.ErrConfigInvalid)
	}
	switch contract.Io(c.Io) {
	case contract.IoStreamed, contract.IoBuffered, contract.IoMmap:
	default:
		return fmt.Errorf("io %q: %w", c.Io, contract.ErrConfigInvalid)
	}
	switch contract.Processing(c.Processing) {
	case contract.ProcessingSequential, contract.ProcessingParallel:
	default:
		return fmt.Errorf("processing %q: %w", c.Processing, contract.ErrConfigInvalid)
	}
	switch contract.Sort(c.Sort) {
	case contract.SortDesc, contract.SortAsc, contract.SortUnsorted:
	default:
		return fmt.Errorf("sort %q: %w", c.Sort, contract.ErrConfigInvalid)
	}
	switch c.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("format %q: %w", c.Format, contract.ErrConfigInvalid)
	}
	if c.Threads < 0 {
		return fmt.Errorf("threads %d: %w", c.Threads, contract.ErrConfigInvalid)
	}
	if c.Performance.ChunkSize < 0 || c.Performance.TallyMapCap < 0 ||
		c.Performance.UniquenessRatio < 0 || c.Performance.WordsPerKB < 0 {
		return fmt.Errorf("performance values must be non-negative: %w", contract.ErrConfigInvalid)
	}
	if c.Filters.MinChars < 0 {
		return fmt.Errorf("min_chars %d: %w", c.Filters.MinChars, contract.ErrConfigInvalid)
	}
	if _, err := Unescape(c.FieldDelimiter); err != nil {
		return err
	}
	if _, err := Unescape(c.EntryDelimiter); err != nil {
		return err
	}
	return nil
}

// Assemble 将校验过的 Config 装配为核心只读 Options。
// 调优项为 0 的槽位回填默认值。
func Assemble(c *Config) contract.Options {
	perf := contract.DefaultPerformance()
	if c.Performance.ChunkSize > 0 {
		perf.ChunkSize = c.Performance.ChunkSize
	}
	if c.Performance.TallyMapCap > 0 {
		perf.BaseCapacity = c.Performance.TallyMapCap
	}
	if c.Performance.UniquenessRatio > 0 {
		perf.UniquenessRatio = c.Performance.UniquenessRatio
	}
	if c.Performance.WordsPerKB > 0 {
		perf.WordsPerKB = c.Performance.WordsPerKB
	}
	threads := c.Threads
	if threads < 0 {
		threads = 0
	}
	return contract.Options{
		Case:       contract.Case(c.Case),
		Encoding:   contract.Encoding(c.Encoding),
		Io:         contract.Io(c.Io),
		Processing: contract.Processing(c.Processing),
		Sort:       contract.Sort(c.Sort),
		Threads:    threads,
		Perf:       perf,
		Filters: contract.FilterSpec{
			MinChars:        c.Filters.MinChars,
			MinCount:        contract.Count(c.Filters.MinCount),
			ExcludeWords:    cloneStrings(c.Filters.ExcludeWords),
			ExcludePatterns: cloneStrings(c.Filters.ExcludePatterns),
			IncludePatterns: cloneStrings(c.Filters.IncludePatterns),
		},
	}
}

// Unescape 展开分隔符中的转义序列（\t \n \r \0 \\ \"）。
// 未知转义视为配置错误，而非静默透传。
func Unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("trailing backslash in delimiter %q: %w", s, contract.ErrConfigInvalid)
		}
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		default:
			return "", fmt.Errorf("unknown escape \\%c in delimiter %q: %w", s[i], s, contract.ErrConfigInvalid)
		}
	}
	return b.String(), nil
}
