package input

import (
	"os"

	"github.com/edsrzf/mmap-go"

	"wordtally/pkg/contract"
)

// View: 对常规文件的只读零拷贝视图（内存映射）。
// 生命周期绑定底层描述符：Close 前 Bytes 有效，Close 后不得再访问。
// 映射内存只读共享，可被多个 worker 并发读取。
type View struct {
	path string
	f    *os.File
	m    mmap.MMap
}

// OpenView 建立内存映射视图。
// 对不可寻址来源（"-"、管道、设备）返回 ErrMmapUnsupported，不回退。
func OpenView(source string) (*View, error) {
	if source == Stdin {
		return nil, &contract.InputError{Path: source, Err: contract.ErrMmapUnsupported}
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, &contract.InputError{Path: source, Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &contract.InputError{Path: source, Err: err}
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, &contract.InputError{Path: source, Err: contract.ErrMmapUnsupported}
	}
	// 空文件无法建立映射；以空视图等价表示（仍持有描述符，Close 语义一致）。
	if info.Size() == 0 {
		return &View{path: source, f: f}, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		return nil, &contract.InputError{Path: source, Err: err}
	}
	return &View{path: source, f: f, m: m}, nil
}

// Name 返回来源路径。
func (v *View) Name() string { return v.path }

// Bytes 返回借用的只读字节切片；切片随 Close 失效。
func (v *View) Bytes() []byte { return v.m }

// SizeHint 返回映射长度。
func (v *View) SizeHint() int64 { return int64(len(v.m)) }

// Close 解除映射并关闭描述符；幂等，可在错误路径安全调用。
func (v *View) Close() error {
	var first error
	if v.m != nil {
		first = v.m.Unmap()
		v.m = nil
	}
	if v.f != nil {
		if err := v.f.Close(); err != nil && first == nil {
			first = err
		}
		v.f = nil
	}
	return first
}
