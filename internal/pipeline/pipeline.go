// Package pipeline 编排一次完整统计：输入 → 切分 → 计数 → 合并 → 过滤。
package pipeline

import (
	"context"
	"fmt"

	"wordtally/internal/diag"
	"wordtally/internal/filters"
	"wordtally/internal/input"
	"wordtally/internal/tally"
	"wordtally/pkg/contract"
)

// Run 执行一次统计。sources 按参数顺序合并；任一来源出错整次失败。
// 过滤器先于任何 I/O 编译：配置错误不触碰输入。
func Run(ctx context.Context, sources []string, opts *contract.Options, log *diag.Logger) (*contract.WordTally, error) {
	f, err := filters.Compile(&opts.Filters, opts.Case)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		sources = []string{input.Stdin}
	}

	total := tally.NewMap(0)
	for _, src := range sources {
		t := log.StartWith("pipeline", "tally source", src)
		m, err := countSource(ctx, src, opts)
		if err != nil {
			log.ErrorWith("pipeline", string(diag.Classify(err)), err.Error(), src)
			return nil, fmt.Errorf("%s: %w", src, err)
		}
		t.Finish("source done", int64(m.Total()))
		if total.Len() == 0 {
			total = m
		} else {
			total.Merge(m)
		}
	}

	res := filters.Finalize(total, f, opts.Sort)
	log.Start("pipeline", "finalize").Finish("run done", int64(res.Count))
	return res, nil
}

// countSource 按 Io 策略解析单个来源并计数。
// 所有路径上释放视图/读取器。
func countSource(ctx context.Context, src string, opts *contract.Options) (*tally.TallyMap, error) {
	switch opts.Io {
	case contract.IoMmap:
		v, err := input.OpenView(src)
		if err != nil {
			return nil, err
		}
		defer v.Close()
		return tally.CountBytes(ctx, v.Bytes(), 0, opts)

	case contract.IoBuffered:
		buf, err := input.ReadAll(src)
		if err != nil {
			return nil, err
		}
		return tally.CountBytes(ctx, buf, 0, opts)

	default: // streamed
		s, err := input.Open(src, opts.Perf.ChunkSize)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return tally.CountReader(ctx, s, s.SizeHint(), opts)
	}
}
