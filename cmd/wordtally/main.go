package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	cfgpkg "wordtally/internal/config"
	"wordtally/internal/diag"
	"wordtally/internal/output"
	"wordtally/internal/pipeline"
	"wordtally/pkg/contract"
)

const version = "1.0.0"

// sysexits 风格退出码。
const (
	exitOK      = 0
	exitUsage   = 64 // 命令行用法错误
	exitDataErr = 65 // 输入数据错误（编码违例）
	exitNoInput = 66 // 输入不存在或不可打开
	exitIOErr   = 74 // I/O 失败
	exitNoPerm  = 77 // 权限不足
	exitConfig  = 78 // 配置错误
)

var pipelineRun = pipeline.Run

// 词频统计 CLI。位置参数为来源（文件路径或 "-" 表示 STDIN）。
// 配置叠加次序：CLI > ENV > JSON > 默认值。
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// 在任何 ENV 读取前，尝试加载工作目录下的 .env（不覆盖已有 ENV）。
	_ = loadDotEnv(".env")

	fl := flag.NewFlagSet("wordtally", flag.ContinueOnError)
	fl.SetOutput(stderr)
	var (
		flagConfig     string
		flagCase       string
		flagEncoding   string
		flagIo         string
		flagParallel   bool
		flagSort       string
		flagThreads    int
		flagFormat     string
		flagFieldDelim string
		flagEntryDelim string
		flagOutput     string
		flagMinChars   int
		flagMinCount   uint64
		flagExclude    string
		flagExcludeRe  string
		flagIncludeRe  string
		flagVerbose    bool
		flagInitDir    string
		flagVersion    bool
	)
	fl.StringVar(&flagConfig, "config", "", "配置文件路径（JSON）；缺省读取 ./wordtally.json（若存在）")
	fl.StringVar(&flagCase, "case", "", "大小写归一：original|upper|lower（覆盖配置）")
	fl.StringVar(&flagEncoding, "encoding", "", "词边界模式：unicode|ascii（覆盖配置）")
	fl.StringVar(&flagIo, "io", "", "读取策略：streamed|buffered|mmap（覆盖配置）")
	fl.BoolVar(&flagParallel, "parallel", false, "并行处理（覆盖配置）")
	fl.StringVar(&flagSort, "sort", "", "排序：desc|asc|unsorted（覆盖配置）")
	fl.IntVar(&flagThreads, "threads", -1, "工作协程数；0 表示全部可用核（覆盖配置）")
	fl.StringVar(&flagFormat, "format", "", "输出格式：text|json|csv（覆盖配置）")
	fl.StringVar(&flagFieldDelim, "field-delimiter", "", "text 格式的词/计数分隔符，支持 \\t \\n 转义（覆盖配置）")
	fl.StringVar(&flagEntryDelim, "entry-delimiter", "", "text 格式的行分隔符（覆盖配置）")
	fl.StringVar(&flagOutput, "output", "", "输出目标路径；\"-\" 为 stdout（覆盖配置）")
	fl.IntVar(&flagMinChars, "min-chars", 0, "词的最小字符数，按字素簇计（覆盖配置）")
	fl.Uint64Var(&flagMinCount, "min-count", 0, "词的最小出现次数（覆盖配置）")
	fl.StringVar(&flagExclude, "exclude-words", "", "排除词，逗号分隔（覆盖配置）")
	fl.StringVar(&flagExcludeRe, "exclude-patterns", "", "排除模式，逗号分隔的正则（覆盖配置）")
	fl.StringVar(&flagIncludeRe, "include-patterns", "", "包含模式，逗号分隔的正则（覆盖配置）")
	fl.BoolVar(&flagVerbose, "verbose", false, "输出运行报告与调试日志（stderr）")
	fl.StringVar(&flagInitDir, "init-config", "", "在指定目录生成默认配置 wordtally.json 模板（不覆盖已有文件）")
	fl.BoolVar(&flagVersion, "version", false, "打印版本并退出")
	if err := fl.Parse(args); err != nil {
		return exitUsage
	}

	if flagVersion {
		fmt.Fprintf(stdout, "wordtally %s\n", version)
		return exitOK
	}

	logger := diag.NewLogger("info")

	// --init-config: 生成模板并退出
	if dir := strings.TrimSpace(flagInitDir); dir != "" {
		if err := writeTemplate(dir); err != nil {
			fmt.Fprintf(stderr, "生成默认配置失败: %v\n", err)
			logger.Error("config", string(diag.Classify(err)), err.Error())
			return exitIOErr
		}
		return exitOK
	}

	// JSON 配置（文件或 ENV: WORD_TALLY_CONFIG_JSON）
	var cfgJSON []byte
	if s := os.Getenv("WORD_TALLY_CONFIG_JSON"); s != "" {
		cfgJSON = []byte(s)
	}
	if flagConfig == "" {
		if s := os.Getenv("WORD_TALLY_CONFIG_FILE"); s != "" {
			flagConfig = s
		}
	}
	// 默认读取工作目录下 wordtally.json（若存在）
	if flagConfig == "" {
		if _, err := os.Stat("wordtally.json"); err == nil {
			flagConfig = "wordtally.json"
		}
	}

	cfg := cfgpkg.Defaults()
	if flagConfig != "" || len(cfgJSON) > 0 {
		base, err := cfgpkg.LoadJSON(flagConfig, cfgJSON)
		if err != nil {
			fmt.Fprintf(stderr, "配置解析失败: %v\n", err)
			logger.Error("config", string(diag.CodeConfig), err.Error())
			return exitConfig
		}
		cfg = cfgpkg.Merge(cfg, base)
	}

	// ENV 覆盖
	cfg = cfgpkg.Merge(cfg, cfgpkg.EnvOverlay(os.Environ()))

	// CLI 覆盖
	overCLI := cliOverlay(flagCase, flagEncoding, flagIo, flagParallel, flagSort,
		flagThreads, flagFormat, flagFieldDelim, flagEntryDelim, flagOutput,
		flagMinChars, flagMinCount, flagExclude, flagExcludeRe, flagIncludeRe,
		flagVerbose, fl.Args())
	cfg = cfgpkg.Merge(cfg, overCLI)

	// 校验 & 装配
	if err := cfgpkg.Validate(&cfg); err != nil {
		fmt.Fprintf(stderr, "配置校验失败: %v\n", err)
		logger.Error("config", string(diag.CodeConfig), err.Error())
		return exitConfig
	}

	// 使用最终配置中的日志级别重建 logger；verbose 隐含 debug
	logLevel := cfg.Logging.Level
	if cfg.Verbose {
		logLevel = "debug"
	}
	logger = diag.NewLogger(logLevel)

	opts := cfgpkg.Assemble(&cfg)
	logger.DebugKV("config", "effective", effectiveKV(&cfg))

	res, err := pipelineRun(context.Background(), cfg.Sources, &opts, logger)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(stderr, "运行失败: %v\n", err)
		}
		return exitCode(err)
	}

	if err := writeResult(stdout, res, &cfg); err != nil {
		fmt.Fprintf(stderr, "输出失败: %v\n", err)
		logger.Error("output", string(diag.Classify(err)), err.Error())
		return exitCode(err)
	}

	if cfg.Verbose {
		report(logger, res, &cfg)
	}
	return exitOK
}

// exitCode 将错误映射到 sysexits 风格退出码。
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, contract.ErrUsage):
		return exitUsage
	case isEncoding(err):
		return exitDataErr
	case errors.Is(err, contract.ErrConfigInvalid):
		return exitConfig
	case errors.Is(err, fs.ErrPermission):
		return exitNoPerm
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, contract.ErrMmapUnsupported):
		return exitNoInput
	default:
		return exitIOErr
	}
}

func isEncoding(err error) bool {
	var ee *contract.EncodingError
	return errors.As(err, &ee)
}

// writeResult 打开目标、渲染并提交。文件目标为原子替换。
func writeResult(stdout io.Writer, res *contract.WordTally, cfg *cfgpkg.Config) error {
	fieldDelim, err := cfgpkg.Unescape(cfg.FieldDelimiter)
	if err != nil {
		return err
	}
	entryDelim, err := cfgpkg.Unescape(cfg.EntryDelimiter)
	if err != nil {
		return err
	}
	o := &output.Options{Format: cfg.Format, FieldDelimiter: fieldDelim, EntryDelimiter: entryDelim}

	if cfg.Output == "" || cfg.Output == output.Stdout {
		bw := bufio.NewWriter(stdout)
		if err := output.Render(bw, res, o); err != nil {
			return err
		}
		return bw.Flush()
	}
	sink, err := output.NewSink(cfg.Output)
	if err != nil {
		return err
	}
	if err := output.Render(sink, res, o); err != nil {
		sink.Abort()
		return err
	}
	return sink.Commit()
}

// report 输出运行报告（verbose）。
func report(logger *diag.Logger, res *contract.WordTally, cfg *cfgpkg.Config) {
	kv := map[string]string{
		"total_words":  strconv.FormatUint(uint64(res.Count), 10),
		"unique_words": strconv.Itoa(res.Uniq),
		"sources":      strings.Join(cfg.Sources, ","),
	}
	for k, v := range effectiveKV(cfg) {
		kv[k] = v
	}
	logger.DebugKV("report", "run report", kv)
}

func effectiveKV(cfg *cfgpkg.Config) map[string]string {
	kv := map[string]string{
		"case":       cfg.Case,
		"encoding":   cfg.Encoding,
		"io":         cfg.Io,
		"processing": cfg.Processing,
		"sort":       cfg.Sort,
		"threads":    strconv.Itoa(cfg.Threads),
		"format":     cfg.Format,
	}
	if cfg.Filters.MinChars > 0 {
		kv["min_chars"] = strconv.Itoa(cfg.Filters.MinChars)
	}
	if cfg.Filters.MinCount > 0 {
		kv["min_count"] = strconv.FormatUint(cfg.Filters.MinCount, 10)
	}
	if len(cfg.Filters.ExcludeWords) > 0 {
		kv["exclude_words"] = strings.Join(cfg.Filters.ExcludeWords, ",")
	}
	if len(cfg.Filters.ExcludePatterns) > 0 {
		kv["exclude_patterns"] = strings.Join(cfg.Filters.ExcludePatterns, ",")
	}
	if len(cfg.Filters.IncludePatterns) > 0 {
		kv["include_patterns"] = strings.Join(cfg.Filters.IncludePatterns, ",")
	}
	return kv
}

// cliOverlay 将命令行旗标折叠为一层配置覆盖。
func cliOverlay(flagCase, flagEncoding, flagIo string, flagParallel bool, flagSort string,
	flagThreads int, flagFormat, flagFieldDelim, flagEntryDelim, flagOutput string,
	flagMinChars int, flagMinCount uint64, flagExclude, flagExcludeRe, flagIncludeRe string,
	flagVerbose bool, sources []string) cfgpkg.Config {
	var over cfgpkg.Config
	over.Threads = -1
	over.Case = flagCase
	over.Encoding = flagEncoding
	over.Io = flagIo
	if flagParallel {
		over.Processing = string(contract.ProcessingParallel)
	}
	over.Sort = flagSort
	if flagThreads >= 0 {
		over.Threads = flagThreads
	}
	over.Format = flagFormat
	over.FieldDelimiter = flagFieldDelim
	over.EntryDelimiter = flagEntryDelim
	over.Output = flagOutput
	over.Filters.MinChars = flagMinChars
	over.Filters.MinCount = flagMinCount
	over.Filters.ExcludeWords = splitComma(flagExclude)
	over.Filters.ExcludePatterns = splitComma(flagExcludeRe)
	over.Filters.IncludePatterns = splitComma(flagIncludeRe)
	over.Verbose = flagVerbose
	if len(sources) > 0 {
		over.Sources = sources
	}
	return over
}

func splitComma(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// writeTemplate 在目录下生成 wordtally.json 模板（不覆盖已有文件）。
func writeTemplate(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfgpkg.DefaultTemplateConfig(), "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, "wordtally.json")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}

// loadDotEnv 读取简单的 .env 文件格式并注入进程环境。
// 规则：
// - 忽略不存在的文件；无法读取时返回错误（但调用处可忽略）。
// - 跳过空行与以 # 开头的行；支持可选的前缀 "export ".
// - 仅按首个 '=' 分割；若 value 被成对引号包裹则去除外层引号。
// - 不覆盖已存在的环境变量（保持系统/调用者优先）。
func loadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if key == "" {
			continue
		}
		if len(val) >= 2 {
			if (val[0] == '\'' && val[len(val)-1] == '\'') || (val[0] == '"' && val[len(val)-1] == '"') {
				val = val[1 : len(val)-1]
			}
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		_ = os.Setenv(key, val)
	}
	return s.Err()
}
