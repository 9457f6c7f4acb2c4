package config

// DefaultTemplateConfig 返回一个“可运行”的默认配置模板：
// - 默认输入为 STDIN（"-"），结果输出到 stdout；
// - 所有枚举与调优键显式给出，便于按需修改。
func DefaultTemplateConfig() Config {
	cfg := Defaults()
	cfg.Sources = []string{"-"}
	cfg.Filters = Filters{
		MinChars:        0,
		MinCount:        0,
		ExcludeWords:    []string{},
		ExcludePatterns: []string{},
		IncludePatterns: []string{},
	}
	cfg.Performance = Performance{
		ChunkSize:       65536,
		TallyMapCap:     16384,
		UniquenessRatio: 10,
		WordsPerKB:      200,
	}
	return cfg
}
