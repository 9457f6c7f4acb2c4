package tally

import (
	"context"
	"io"

	"wordtally/internal/chunk"
	"wordtally/pkg/contract"
)

// CountReader 以有界缓冲流式计数，不整载输入。
// 每批在最后一个分隔符处收口（词与码点不跨批），批内复用与整载路径
// 相同的切分/分词/归并逻辑；base 偏移随批推进，错误位置始终为绝对值。
func CountReader(ctx context.Context, r io.Reader, sizeHint int64, opts *contract.Options) (*TallyMap, error) {
	batch := opts.Perf.ChunkSize
	if batch <= 0 {
		batch = contract.DefaultChunkSize
	}
	if n := threads(opts); n > 1 {
		batch *= n
	}

	total := NewMap(opts.Perf.Capacity(sizeHint))
	buf := make([]byte, 0, batch)
	var base int64
	eof := false

	for !eof || len(buf) > 0 {
		for len(buf) < cap(buf) && !eof {
			n, err := r.Read(buf[len(buf):cap(buf)])
			buf = buf[:len(buf)+n]
			if err == io.EOF {
				eof = true
				break
			}
			if err != nil {
				return nil, err
			}
		}

		carve := len(buf)
		if !eof {
			carve = chunk.LastSeparator(buf)
			if carve == 0 {
				// 单 token 超出批容量：扩大缓冲继续补齐，避免在词中切断
				grown := make([]byte, len(buf), cap(buf)*2)
				copy(grown, buf)
				buf = grown
				continue
			}
		}
		if carve == 0 {
			break
		}

		part, err := CountBytes(ctx, buf[:carve], base, opts)
		if err != nil {
			return nil, err
		}
		total.Merge(part)
		base += int64(carve)
		buf = append(buf[:0], buf[carve:]...)
	}
	return total, nil
}
