// Package config 负责配置的装载、叠加与校验。
// 叠加次序：默认值 < JSON 文件 < 环境变量 < 命令行。
package config

// Config: 运行期只读配置（一次解析，运行期不变）。
// JSON 使用 snake_case；未知字段在解析期失败。
type Config struct {
	Sources    []string `json:"sources"`
	Case       string   `json:"case"`
	Encoding   string   `json:"encoding"`
	Io         string   `json:"io"`
	Processing string   `json:"processing"`
	Sort       string   `json:"sort"`
	// Threads: 并行工作协程数；0 表示全部可用核，-1 表示未设置。
	Threads int `json:"threads"`

	// 输出形态。
	Format         string `json:"format"`          // text|json|csv
	FieldDelimiter string `json:"field_delimiter"` // text 格式的词/计数分隔（支持转义序列）
	EntryDelimiter string `json:"entry_delimiter"` // text 格式的行分隔
	Output         string `json:"output"`          // 目标路径；"-" 为 stdout

	Filters     Filters     `json:"filters"`
	Performance Performance `json:"performance"`

	Verbose bool    `json:"verbose"`
	Logging Logging `json:"logging"`
}

// Filters: 词过滤规格（原始形式；模式在处理前编译校验）。
type Filters struct {
	MinChars        int      `json:"min_chars"`
	MinCount        uint64   `json:"min_count"`
	ExcludeWords    []string `json:"exclude_words"`
	ExcludePatterns []string `json:"exclude_patterns"`
	IncludePatterns []string `json:"include_patterns"`
}

// Performance: 容量估算与切分调优；0 表示使用默认值。
type Performance struct {
	ChunkSize       int `json:"chunk_size"`
	TallyMapCap     int `json:"tally_map_capacity"`
	UniquenessRatio int `json:"uniqueness_ratio"`
	WordsPerKB      int `json:"words_per_kb"`
}

// Logging: 仅保留日志等级可配置。
type Logging struct {
	Level string `json:"level"`
}
