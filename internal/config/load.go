package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"wordtally/pkg/contract"
)

// Defaults 返回带有安全默认值的 Config 雏形。
func Defaults() Config {
	return Config{
		Case:           string(contract.CaseLower),
		Encoding:       string(contract.EncodingUnicode),
		Io:             string(contract.IoStreamed),
		Processing:     string(contract.ProcessingSequential),
		Sort:           string(contract.SortDesc),
		Threads:        0,
		Format:         "text",
		FieldDelimiter: " ",
		EntryDelimiter: "\n",
		Output:         "-",
		Logging:        Logging{Level: "info"},
	}
}

// LoadJSON 从文件路径或原始 JSON 解析 Config（严格拒绝未知字段）。
func LoadJSON(path string, raw []byte) (Config, error) {
	var cfg Config
	// -1 表示 threads 未设置，以便 Merge 区分“未覆盖”与“显式 0”。
	cfg.Threads = -1
	var r io.Reader
	switch {
	case len(raw) > 0:
		r = bytes.NewReader(raw)
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		r = f
	default:
		return cfg, errors.New("no config source provided")
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Merge 按优先级合并（后者覆盖前者）。
// 仅标量/字符串/切片为“替换”；不做深度合并。
func Merge(base, over Config) Config {
	out := base
	if len(over.Sources) > 0 {
		out.Sources = cloneStrings(over.Sources)
	}
	if s := strings.TrimSpace(over.Case); s != "" {
		out.Case = s
	}
	if s := strings.TrimSpace(over.Encoding); s != "" {
		out.Encoding = s
	}
	if s := strings.TrimSpace(over.Io); s != "" {
		out.Io = s
	}
	if s := strings.TrimSpace(over.Processing); s != "" {
		out.Processing = s
	}
	if s := strings.TrimSpace(over.Sort); s != "" {
		out.Sort = s
	}
	// 特殊：Threads 的 0 具有语义（全部核）。>=0 视为存在，-1 视为未覆盖。
	if over.Threads >= 0 {
		out.Threads = over.Threads
	}
	if s := strings.TrimSpace(over.Format); s != "" {
		out.Format = s
	}
	if over.FieldDelimiter != "" {
		out.FieldDelimiter = over.FieldDelimiter
	}
	if over.EntryDelimiter != "" {
		out.EntryDelimiter = over.EntryDelimiter
	}
	if s := strings.TrimSpace(over.Output); s != "" {
		out.Output = s
	}

	if over.Filters.MinChars > 0 {
		out.Filters.MinChars = over.Filters.MinChars
	}
	if over.Filters.MinCount > 0 {
		out.Filters.MinCount = over.Filters.MinCount
	}
	if len(over.Filters.ExcludeWords) > 0 {
		out.Filters.ExcludeWords = cloneStrings(over.Filters.ExcludeWords)
	}
	if len(over.Filters.ExcludePatterns) > 0 {
		out.Filters.ExcludePatterns = cloneStrings(over.Filters.ExcludePatterns)
	}
	if len(over.Filters.IncludePatterns) > 0 {
		out.Filters.IncludePatterns = cloneStrings(over.Filters.IncludePatterns)
	}

	if over.Performance.ChunkSize > 0 {
		out.Performance.ChunkSize = over.Performance.ChunkSize
	}
	if over.Performance.TallyMapCap > 0 {
		out.Performance.TallyMapCap = over.Performance.TallyMapCap
	}
	if over.Performance.UniquenessRatio > 0 {
		out.Performance.UniquenessRatio = over.Performance.UniquenessRatio
	}
	if over.Performance.WordsPerKB > 0 {
		out.Performance.WordsPerKB = over.Performance.WordsPerKB
	}

	if over.Verbose {
		out.Verbose = true
	}
	if s := strings.TrimSpace(over.Logging.Level); s != "" {
		out.Logging.Level = s
	}
	return out
}

// EnvOverlay 从环境变量构建一个 Config 覆盖（仅解析有限键集合）。
// 规则：前缀 WORD_TALLY_；集合之外的键忽略。
func EnvOverlay(environ []string) Config {
	var over Config
	over.Threads = -1
	for _, kv := range environ {
		if !strings.HasPrefix(kv, "WORD_TALLY_") {
			continue
		}
		eq := strings.IndexByte(kv, '=')
		if eq <= len("WORD_TALLY_") {
			continue
		}
		nk := strings.TrimPrefix(kv[:eq], "WORD_TALLY_")
		val := kv[eq+1:]
		switch nk {
		case "IO":
			over.Io = strings.TrimSpace(val)
		case "PROCESSING":
			over.Processing = strings.TrimSpace(val)
		case "THREADS":
			if v, err := atoi(val); err == nil && v >= 0 {
				over.Threads = v
			}
		case "CHUNK_SIZE":
			if v, err := atoi(val); err == nil {
				over.Performance.ChunkSize = v
			}
		case "UNIQUENESS_RATIO":
			if v, err := atoi(val); err == nil {
				over.Performance.UniquenessRatio = v
			}
		case "WORDS_PER_KB":
			if v, err := atoi(val); err == nil {
				over.Performance.WordsPerKB = v
			}
		case "TALLY_MAP_CAPACITY":
			if v, err := atoi(val); err == nil {
				over.Performance.TallyMapCap = v
			}
		case "VERBOSE":
			over.Verbose = isTruthy(val)
		case "LOG_LEVEL":
			over.Logging.Level = strings.TrimSpace(val)
		}
	}
	return over
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
