// Package input 将 STDIN、缓冲文件与内存映射文件统一为一套字节访问抽象。
// 约束：
// 1) 打开失败保留底层 fs 错误（不存在/无权限可区分）；
// 2) 体积线索仅在廉价可得时给出（文件 stat；管道为未知）；
// 3) 不在内部起并发，不读取环境。
package input

import (
	"bufio"
	"io"
	"os"

	"wordtally/pkg/contract"
)

// Stdin: 约定的标准输入来源名。
const Stdin = "-"

const defaultBufSize = 64 * 1024

// Stream: 顺序读取来源（文件或 STDIN）。
type Stream struct {
	*bufio.Reader
	c    io.Closer
	name string
	size int64
}

// Open 打开顺序读取流。source 为 "-" 时读 STDIN（体积未知）。
// bufSize <= 0 使用默认 64KiB。
func Open(source string, bufSize int) (*Stream, error) {
	if bufSize <= 0 {
		bufSize = defaultBufSize
	}
	if source == Stdin {
		// STDIN 不由本层关闭
		return &Stream{
			Reader: bufio.NewReaderSize(os.Stdin, bufSize),
			name:   Stdin,
			size:   -1,
		}, nil
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, &contract.InputError{Path: source, Err: err}
	}
	size := int64(-1)
	if info, serr := f.Stat(); serr == nil && info.Mode().IsRegular() {
		size = info.Size()
	}
	return &Stream{
		Reader: bufio.NewReaderSize(f, bufSize),
		c:      f,
		name:   source,
		size:   size,
	}, nil
}

// Name 返回来源标识（路径或 "-"）。
func (s *Stream) Name() string { return s.name }

// SizeHint 返回字节体积线索；未知（管道/STDIN）为 -1。
func (s *Stream) SizeHint() int64 { return s.size }

// Close 释放底层描述符。
func (s *Stream) Close() error {
	if s.c == nil {
		return nil
	}
	c := s.c
	s.c = nil
	return c.Close()
}

// ReadAll 将来源整载入自有缓冲（buffered 策略）。
// sizeHint 用于一次性预留容量，避免增长复制。
func ReadAll(source string) ([]byte, error) {
	s, err := Open(source, defaultBufSize)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var buf []byte
	if s.size >= 0 {
		buf = make([]byte, 0, s.size+1)
	}
	for {
		if len(buf) == cap(buf) {
			buf = append(buf, 0)[:len(buf)]
		}
		n, rerr := s.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+n]
		if rerr == io.EOF {
			return buf, nil
		}
		if rerr != nil {
			return nil, &contract.InputError{Path: source, Err: rerr}
		}
	}
}
