// ABOUTME: Builds a display table from backend result rows
// ABOUTME: Headers come from the first row; cells follow header key order

package render

import (
	"strings"

	"github.com/2389/molindex/internal/analysis"
)

// Header is one column header. Column is the lower-cased key used by
// styling and export code to address the column.
type Header struct {
	Key    string
	Text   string
	Column string
}

// Cell is a formatted value plus the raw value it came from.
type Cell struct {
	Column string
	Text   string
	Raw    any
}

// Table is the rendered form of a result set.
type Table struct {
	Headers []Header
	Rows    [][]Cell
}

// Empty reports whether the table has no body rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// BuildTable renders rows. It returns nil when rows is empty.
// The filename column keeps its header case and has ext stripped from its
// displayed values; every other header is upper-cased.
func BuildTable(rows []analysis.Row, ext string, f *Formatter) *Table {
	if len(rows) == 0 {
		return nil
	}

	first := rows[0]
	table := &Table{Headers: make([]Header, 0, first.Len())}
	for _, key := range first.Keys {
		text := strings.ToUpper(key)
		if analysis.IsFilenameKey(key) {
			text = key
		}
		table.Headers = append(table.Headers, Header{
			Key:    key,
			Text:   text,
			Column: strings.ToLower(key),
		})
	}

	table.Rows = make([][]Cell, 0, len(rows))
	for _, row := range rows {
		cells := make([]Cell, 0, len(table.Headers))
		for _, h := range table.Headers {
			raw, _ := row.Get(h.Key)
			display := raw
			if analysis.IsFilenameKey(h.Key) {
				if s, ok := raw.(string); ok {
					display = DisplayFilename(s, ext)
				}
			}
			cells = append(cells, Cell{
				Column: h.Column,
				Text:   f.FormatValue(display),
				Raw:    raw,
			})
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}
