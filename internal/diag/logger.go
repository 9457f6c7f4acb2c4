// Package diag 提供最小结构化日志与错误分类。
package diag

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// 级别定义
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

func parseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return Debug
	case "warn":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

// Logger 为最小结构化日志器：单行 JSON 输出到 sink（默认 stderr）。
// 结果走 stdout，日志与结果互不混流。
type Logger struct {
	level Level
	sink  io.Writer
	mu    sync.Mutex
}

// NewLogger 通过配置的 level 初始化，输出到 stderr。
func NewLogger(level string) *Logger {
	return &Logger{level: parseLevel(strings.TrimSpace(level)), sink: os.Stderr}
}

// NewLoggerTo 输出到指定 sink（日志文件等）。
func NewLoggerTo(level string, sink io.Writer) *Logger {
	if sink == nil {
		sink = os.Stderr
	}
	return &Logger{level: parseLevel(strings.TrimSpace(level)), sink: sink}
}

// Event 为标准事件结构。
type Event struct {
	Level  string            `json:"level"`
	TS     string            `json:"ts"`
	Comp   string            `json:"comp"`
	Stage  string            `json:"stage"` // start|finish|error
	Code   string            `json:"code,omitempty"`
	DurMS  int64             `json:"dur_ms,omitempty"`
	Count  int64             `json:"count,omitempty"`
	Source string            `json:"source,omitempty"`
	Msg    string            `json:"msg"`
	KV     map[string]string `json:"kv,omitempty"`
}

// log 以最小开销写出事件，遵循级别。
func (l *Logger) log(lv Level, ev Event) {
	if l == nil || lv < l.level {
		return
	}
	ev.Level = lv.String()
	ev.TS = NowUTC()
	b, _ := json.Marshal(ev)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.sink.Write(append(b, '\n'))
}

// Start 记录 start 事件；返回计时器用于 Finish。
func (l *Logger) Start(comp, msg string) *Timer {
	l.log(Info, Event{Comp: comp, Stage: "start", Msg: msg})
	return &Timer{l: l, comp: comp, t0: time.Now()}
}

// StartWith 记录带 source 的 start。
func (l *Logger) StartWith(comp, msg, source string) *Timer {
	l.log(Info, Event{Comp: comp, Stage: "start", Source: source, Msg: msg})
	return &Timer{l: l, comp: comp, source: source, t0: time.Now()}
}

// Error 记录 error 事件（不受级别过滤以下的采样影响）。
func (l *Logger) Error(comp, code, msg string) {
	l.log(Error, Event{Comp: comp, Stage: "error", Code: code, Msg: msg})
}

// ErrorWith 支持 source。
func (l *Logger) ErrorWith(comp, code, msg, source string) {
	l.log(Error, Event{Comp: comp, Stage: "error", Code: code, Msg: msg, Source: source})
}

// DebugKV 输出调试级别事件（仅在 level=debug 时生效）。
func (l *Logger) DebugKV(comp, msg string, kv map[string]string) {
	l.log(Debug, Event{Comp: comp, Stage: "start", Msg: msg, KV: kv})
}

// Timer 用于 start→finish 计时。
type Timer struct {
	l      *Logger
	comp   string
	source string
	t0     time.Time
}

// Finish 记录 finish；可选 count。
func (t *Timer) Finish(msg string, count int64) {
	if t == nil || t.l == nil {
		return
	}
	t.l.log(Info, Event{Comp: t.comp, Stage: "finish", DurMS: time.Since(t.t0).Milliseconds(), Count: count, Source: t.source, Msg: msg})
}

// NowUTC 返回 RFC3339 UTC 时间字符串（用于结构化日志字段 ts）。
func NowUTC() string { return time.Now().UTC().Format(time.RFC3339) }
