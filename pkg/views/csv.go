package views

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
)

// CSV view data keys.
const (
	// CSVRowsKey holds the rows to render, as [][]string or []map[string]any.
	CSVRowsKey = "rows"

	// CSVHeaderKey optionally holds the header row, as []string.
	CSVHeaderKey = "header"
)

// ErrNoRows is returned when the response data carries nothing renderable.
var ErrNoRows = errors.New("views: no rows to render")

// CSV renders tabular response data. Rows come from the "rows" data key,
// either as pre-built [][]string or as []map[string]any, in which case
// columns are the sorted union of keys (or the explicit "header" order).
type CSV struct {
	// Comma is the field delimiter. Defaults to ','.
	Comma rune
}

// NewCSV returns a comma-delimited CSV view.
func NewCSV() *CSV { return &CSV{Comma: ','} }

func (v *CSV) ContentType() string { return "text/csv; charset=utf-8" }

func (v *CSV) Render(w io.Writer, data map[string]any, _ string) error {
	cw := csv.NewWriter(w)
	if v.Comma != 0 {
		cw.Comma = v.Comma
	}

	header, _ := data[CSVHeaderKey].([]string)

	switch rows := data[CSVRowsKey].(type) {
	case [][]string:
		if header != nil {
			if err := cw.Write(header); err != nil {
				return err
			}
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
	case []map[string]any:
		cols := header
		if cols == nil {
			cols = columnUnion(rows)
		}
		if err := cw.Write(cols); err != nil {
			return err
		}
		record := make([]string, len(cols))
		for _, row := range rows {
			for i, col := range cols {
				record[i] = cell(row[col])
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	default:
		return ErrNoRows
	}

	cw.Flush()
	return cw.Error()
}

func columnUnion(rows []map[string]any) []string {
	seen := map[string]struct{}{}
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func cell(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
