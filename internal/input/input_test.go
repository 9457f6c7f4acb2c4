package input

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"wordtally/pkg/contract"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

// TestOpenFile 文件流与体积线索
func TestOpenFile(t *testing.T) {
	p := writeTemp(t, []byte("hello world"))
	s, err := Open(p, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if s.SizeHint() != 11 {
		t.Fatalf("size hint: %d", s.SizeHint())
	}
	if s.Name() != p {
		t.Fatalf("name: %s", s.Name())
	}
	buf := make([]byte, 5)
	if _, err := s.Read(buf); err != nil || string(buf) != "hello" {
		t.Fatalf("read: %v %q", err, buf)
	}
}

// TestOpenNotFound 不存在的文件保留 fs.ErrNotExist
func TestOpenNotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent"), 0)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expect ErrNotExist, got %v", err)
	}
	var ie *contract.InputError
	if !errors.As(err, &ie) {
		t.Fatalf("expect InputError, got %T", err)
	}
}

// TestReadAll 整载读取
func TestReadAll(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 4096)
	p := writeTemp(t, data)
	got, err := ReadAll(p)
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("content mismatch: %d vs %d bytes", len(got), len(data))
	}
}

// TestReadAllEmpty 空输入
func TestReadAllEmpty(t *testing.T) {
	p := writeTemp(t, nil)
	got, err := ReadAll(p)
	if err != nil || len(got) != 0 {
		t.Fatalf("empty: %v %d", err, len(got))
	}
}

// TestViewMmap 映射视图读取与释放
func TestViewMmap(t *testing.T) {
	p := writeTemp(t, []byte("mapped bytes"))
	v, err := OpenView(p)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if string(v.Bytes()) != "mapped bytes" || v.SizeHint() != 12 {
		t.Fatalf("bytes: %q", v.Bytes())
	}
	if err := v.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// 幂等
	if err := v.Close(); err != nil {
		t.Fatalf("double close: %v", err)
	}
}

// TestViewEmptyFile 空文件视图
func TestViewEmptyFile(t *testing.T) {
	p := writeTemp(t, nil)
	v, err := OpenView(p)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	defer v.Close()
	if len(v.Bytes()) != 0 || v.SizeHint() != 0 {
		t.Fatalf("expect empty view")
	}
}

// TestViewStdinRejected 对 "-" 请求映射直接报错
func TestViewStdinRejected(t *testing.T) {
	_, err := OpenView(Stdin)
	if !errors.Is(err, contract.ErrMmapUnsupported) {
		t.Fatalf("expect ErrMmapUnsupported, got %v", err)
	}
}

// TestViewNonRegularRejected 非常规文件（目录）拒绝映射
func TestViewNonRegularRejected(t *testing.T) {
	_, err := OpenView(t.TempDir())
	if !errors.Is(err, contract.ErrMmapUnsupported) {
		t.Fatalf("expect ErrMmapUnsupported, got %v", err)
	}
}
