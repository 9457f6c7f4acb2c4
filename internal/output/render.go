// Package output 将最终结果序列化到 stdout 或文件。
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"wordtally/pkg/contract"
)

// Options: 序列化形态。分隔符为已展开的最终字符串。
type Options struct {
	Format         string // text|json|csv
	FieldDelimiter string
	EntryDelimiter string
}

// Render 按格式写出结果。调用方负责目标的打开与提交。
func Render(w io.Writer, res *contract.WordTally, o *Options) error {
	switch o.Format {
	case "json":
		return renderJSON(w, res)
	case "csv":
		return renderCSV(w, res)
	default:
		return renderText(w, res, o.FieldDelimiter, o.EntryDelimiter)
	}
}

func renderText(w io.Writer, res *contract.WordTally, fieldDelim, entryDelim string) error {
	for _, p := range res.Tally {
		if _, err := fmt.Fprintf(w, "%s%s%d%s", p.Word, fieldDelim, p.Count, entryDelim); err != nil {
			return err
		}
	}
	return nil
}

// renderJSON 输出 [word, count] 二元组数组，与文本形态同序。
func renderJSON(w io.Writer, res *contract.WordTally) error {
	pairs := make([][2]any, len(res.Tally))
	for i, p := range res.Tally {
		pairs[i] = [2]any{p.Word, p.Count}
	}
	b, err := json.Marshal(pairs)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func renderCSV(w io.Writer, res *contract.WordTally) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"word", "count"}); err != nil {
		return err
	}
	for _, p := range res.Tally {
		if err := cw.Write([]string{string(p.Word), strconv.FormatUint(uint64(p.Count), 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
