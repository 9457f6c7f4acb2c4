package diag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"testing"

	"wordtally/pkg/contract"
)

// TestLoggerJSONLine 事件为单行 JSON 且字段齐全
func TestLoggerJSONLine(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo("info", &buf)
	tm := l.StartWith("tally", "count", "corpus.txt")
	tm.Finish("done", 42)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("lines: %d", len(lines))
	}
	var ev Event
	if err := json.Unmarshal(lines[1], &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Comp != "tally" || ev.Stage != "finish" || ev.Count != 42 || ev.Source != "corpus.txt" {
		t.Fatalf("event: %+v", ev)
	}
	if ev.TS == "" || ev.Level != "info" {
		t.Fatalf("event: %+v", ev)
	}
}

// TestLoggerLevelFilter 低于阈值的事件被丢弃
func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo("error", &buf)
	l.Start("x", "ignored")
	l.DebugKV("x", "ignored", nil)
	if buf.Len() != 0 {
		t.Fatalf("unexpected output: %s", buf.String())
	}
	l.Error("x", string(CodeIO), "boom")
	if buf.Len() == 0 {
		t.Fatal("error event dropped")
	}
}

// TestClassify 按错误类型归类
func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{nil, CodeUnknown},
		{context.Canceled, CodeCancel},
		{&contract.EncodingError{Offset: 3, Byte: 0xC3, Encoding: contract.EncodingAscii}, CodeEncoding},
		{contract.ErrConfigInvalid, CodeConfig},
		{&contract.PatternError{Kind: "include", Pattern: "(", Err: errors.New("x")}, CodeConfig},
		{contract.ErrUsage, CodeConfig},
		{&contract.InputError{Path: "a", Err: fs.ErrNotExist}, CodeInput},
		{fs.ErrPermission, CodeInput},
		{contract.ErrMmapUnsupported, CodeInput},
		{errors.New("opaque"), CodeUnknown},
	}
	for i, c := range cases {
		if got := Classify(c.err); got != c.want {
			t.Fatalf("case %d: got %s want %s", i, got, c.want)
		}
	}
}
