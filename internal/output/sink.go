package output

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

// Stdout: 约定的标准输出目标名。
const Stdout = "-"

const sinkBufSize = 64 * 1024

// Sink: 结果写出目标。文件目标使用同目录临时文件 + 原子替换，
// 失败时不留下半成品覆盖旧文件。
type Sink struct {
	bw      *bufio.Writer
	tmp     *os.File
	tmpPath string
	dest    string
}

// NewSink 打开写出目标；path 为 "-" 或空时写 stdout。
func NewSink(path string) (*Sink, error) {
	if path == "" || path == Stdout {
		return &Sink{bw: bufio.NewWriterSize(os.Stdout, sinkBufSize)}, nil
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return nil, err
	}
	_ = os.Chmod(tmp.Name(), 0o644)
	return &Sink{
		bw:      bufio.NewWriterSize(tmp, sinkBufSize),
		tmp:     tmp,
		tmpPath: tmp.Name(),
		dest:    path,
	}, nil
}

var _ io.Writer = (*Sink)(nil)

func (s *Sink) Write(p []byte) (int, error) { return s.bw.Write(p) }

// Commit 落盘并原子替换目标；stdout 目标仅冲刷缓冲。
func (s *Sink) Commit() error {
	if err := s.bw.Flush(); err != nil {
		s.Abort()
		return err
	}
	if s.tmp == nil {
		return nil
	}
	if err := s.tmp.Sync(); err != nil {
		s.Abort()
		return err
	}
	if err := s.tmp.Close(); err != nil {
		_ = os.Remove(s.tmpPath)
		s.tmp = nil
		return err
	}
	s.tmp = nil
	if err := osReplace(s.tmpPath, s.dest); err != nil {
		_ = os.Remove(s.tmpPath)
		return err
	}
	// 最佳努力：同步父目录，提升崩溃安全性
	_ = syncDir(filepath.Dir(s.dest))
	return nil
}

// Abort 丢弃未提交的写出；可在 Commit 之后安全调用。
func (s *Sink) Abort() {
	if s.tmp == nil {
		return
	}
	_ = s.tmp.Close()
	_ = os.Remove(s.tmpPath)
	s.tmp = nil
}
