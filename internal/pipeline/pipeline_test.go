package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"wordtally/internal/diag"
	"wordtally/pkg/contract"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func testLogger() *diag.Logger { return diag.NewLogger("error") }

// TestRunDefault 默认配置端到端：计数降序
func TestRunDefault(t *testing.T) {
	p := writeFile(t, "in.txt", "one two two three three three")
	opts := contract.DefaultOptions()
	res, err := Run(context.Background(), []string{p}, &opts, testLogger())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []contract.Pair{{Word: "three", Count: 3}, {Word: "two", Count: 2}, {Word: "one", Count: 1}}
	if len(res.Tally) != len(want) {
		t.Fatalf("tally: %v", res.Tally)
	}
	for i := range want {
		if res.Tally[i] != want[i] {
			t.Fatalf("pair %d: %v", i, res.Tally[i])
		}
	}
	if res.Count != 6 || res.Uniq != 3 {
		t.Fatalf("count=%d uniq=%d", res.Count, res.Uniq)
	}
}

// TestRunEmptyInput 空输入产出空结果而非错误
func TestRunEmptyInput(t *testing.T) {
	p := writeFile(t, "empty.txt", "")
	for _, io := range []contract.Io{contract.IoStreamed, contract.IoBuffered, contract.IoMmap} {
		opts := contract.DefaultOptions()
		opts.Io = io
		res, err := Run(context.Background(), []string{p}, &opts, testLogger())
		if err != nil {
			t.Fatalf("%s: %v", io, err)
		}
		if res.Count != 0 || res.Uniq != 0 || len(res.Tally) != 0 {
			t.Fatalf("%s: %+v", io, res)
		}
	}
}

// TestRunStrategiesAgree 三种 Io 策略结果一致
func TestRunStrategiesAgree(t *testing.T) {
	p := writeFile(t, "in.txt", "alpha beta beta gamma gamma gamma alpha délta délta")
	var got []*contract.WordTally
	for _, io := range []contract.Io{contract.IoStreamed, contract.IoBuffered, contract.IoMmap} {
		opts := contract.DefaultOptions()
		opts.Io = io
		opts.Processing = contract.ProcessingParallel
		res, err := Run(context.Background(), []string{p}, &opts, testLogger())
		if err != nil {
			t.Fatalf("%s: %v", io, err)
		}
		got = append(got, res)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Count != got[0].Count || got[i].Uniq != got[0].Uniq {
			t.Fatalf("totals differ: %+v vs %+v", got[i], got[0])
		}
		for j := range got[0].Tally {
			if got[i].Tally[j] != got[0].Tally[j] {
				t.Fatalf("pair %d differs: %v vs %v", j, got[i].Tally[j], got[0].Tally[j])
			}
		}
	}
}

// TestRunMultiSource 多来源按参数顺序合并
func TestRunMultiSource(t *testing.T) {
	a := writeFile(t, "a.txt", "zebra apple")
	b := writeFile(t, "b.txt", "apple mango")
	opts := contract.DefaultOptions()
	opts.Sort = contract.SortUnsorted
	res, err := Run(context.Background(), []string{a, b}, &opts, testLogger())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// 首现顺序：zebra(a) apple(a) mango(b)
	want := []contract.Pair{{Word: "zebra", Count: 1}, {Word: "apple", Count: 2}, {Word: "mango", Count: 1}}
	for i := range want {
		if res.Tally[i] != want[i] {
			t.Fatalf("pair %d: %v", i, res.Tally[i])
		}
	}
	if res.Count != 4 {
		t.Fatalf("count: %d", res.Count)
	}
}

// TestRunConfigErrorBeforeIO 模式编译错误先于输入解析暴露
func TestRunConfigErrorBeforeIO(t *testing.T) {
	opts := contract.DefaultOptions()
	opts.Filters.IncludePatterns = []string{"("}
	_, err := Run(context.Background(), []string{"/definitely/not/there"}, &opts, testLogger())
	if err == nil {
		t.Fatal("expect error")
	}
	if !errors.Is(err, contract.ErrConfigInvalid) {
		t.Fatalf("want config error, got: %v", err)
	}
	if errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("input touched before config validation: %v", err)
	}
}

// TestRunMissingFile 来源不存在保留底层 fs 错误
func TestRunMissingFile(t *testing.T) {
	opts := contract.DefaultOptions()
	_, err := Run(context.Background(), []string{"/definitely/not/there"}, &opts, testLogger())
	if err == nil {
		t.Fatal("expect error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("want fs.ErrNotExist, got: %v", err)
	}
}

// TestRunFilters 过滤贯穿端到端
func TestRunFilters(t *testing.T) {
	p := writeFile(t, "in.txt", "fe fi fi fo fo fo")
	opts := contract.DefaultOptions()
	opts.Filters.MinCount = 3
	res, err := Run(context.Background(), []string{p}, &opts, testLogger())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Uniq != 1 || res.Tally[0].Word != "fo" || res.Tally[0].Count != 3 {
		t.Fatalf("tally: %+v", res)
	}
	if res.Count != 6 {
		t.Fatalf("pre-filter count: %d", res.Count)
	}
}

// TestRunAsciiError ASCII 模式下非 ASCII 输入整次失败
func TestRunAsciiError(t *testing.T) {
	p := writeFile(t, "in.txt", "plain café")
	opts := contract.DefaultOptions()
	opts.Encoding = contract.EncodingAscii
	_, err := Run(context.Background(), []string{p}, &opts, testLogger())
	var ee *contract.EncodingError
	if !errors.As(err, &ee) {
		t.Fatalf("want encoding error, got: %v", err)
	}
	if ee.Offset != 9 {
		t.Fatalf("offset: %d", ee.Offset)
	}
}
