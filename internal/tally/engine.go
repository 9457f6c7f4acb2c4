package tally

import (
	"context"
	"errors"
	"runtime"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"wordtally/internal/chunk"
	"wordtally/internal/segment"
	"wordtally/pkg/contract"
)

// threads 解析有效 worker 数（0 → 全部可用核）。
func threads(opts *contract.Options) int {
	n := opts.Threads
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if opts.Processing != contract.ProcessingParallel {
		return 1
	}
	return n
}

// parts 解析目标区间数：并行时块体积决定份数下限不低于 worker 数，
// 顺序模式恒为单区间。
func parts(n, workers, chunkSize int) int {
	if workers <= 1 {
		return 1
	}
	p := workers
	if chunkSize > 0 {
		if bySize := (n + chunkSize - 1) / chunkSize; bySize > p {
			p = bySize
		}
	}
	return p
}

// CountBytes 对整段内存（自有缓冲或 mmap 视图）计数。
// base 为该缓冲在完整输入中的绝对起始偏移（错误偏移折算用）。
func CountBytes(ctx context.Context, buf []byte, base int64, opts *contract.Options) (*TallyMap, error) {
	if opts.Encoding == contract.EncodingUnicode {
		if off, b, ok := invalidUTF8(buf); ok {
			return nil, &contract.EncodingError{
				Offset:   base + off,
				Byte:     b,
				Encoding: contract.EncodingUnicode,
			}
		}
	}

	workers := threads(opts)
	chunks := chunk.Split(buf, parts(len(buf), workers, opts.Perf.ChunkSize))
	switch len(chunks) {
	case 0:
		return NewMap(0), nil
	case 1:
		m := NewMap(opts.Perf.Capacity(int64(len(buf))))
		if err := countChunk(buf, chunks[0], base, opts, m); err != nil {
			return nil, err
		}
		return m, nil
	}

	// fork：每 chunk 一个任务，各自持有私有 map；并发度以 workers 封顶。
	// 首错取消；未完成的任务自然跑完但结果被整体丢弃。
	results := make([]*TallyMap, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			m := NewMap(opts.Perf.Capacity(int64(c.Len())))
			if err := countChunk(buf, c, base, opts, m); err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// join：按 chunk 序折叠，顺序与调度无关。
	total := NewMap(opts.Perf.Capacity(int64(len(buf))))
	for _, m := range results {
		total.Merge(m)
	}
	return total, nil
}

// countChunk 对单个区间分词并计数；编码错误偏移折算为全输入绝对位置。
func countChunk(buf []byte, c contract.Chunk, base int64, opts *contract.Options, m *TallyMap) error {
	span := buf[c.Start:c.End]
	err := segment.Words(span, opts.Encoding, func(w []byte) bool {
		m.Add(opts.Case.Normalize(string(w)))
		return true
	})
	if err != nil {
		var ee *contract.EncodingError
		if errors.As(err, &ee) {
			return ee.Translate(base + int64(c.Start))
		}
		return err
	}
	return nil
}

// invalidUTF8 返回首个非法字节的偏移与值。
// utf8.Valid 只给出布尔结果，这里需要可上报的位置。
func invalidUTF8(buf []byte) (offset int64, b byte, found bool) {
	for i := 0; i < len(buf); {
		if buf[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && size <= 1 {
			return int64(i), buf[i], true
		}
		i += size
	}
	return 0, 0, false
}
