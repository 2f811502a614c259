// ABOUTME: Exports a rendered result table to xlsx, html or markdown
// ABOUTME: The format is chosen from the destination file extension

package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/render"
)

var (
	// ErrUnsupportedFormat is returned for an extension other than .xlsx, .html or .md.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrEmptyTable is returned when there is nothing to export.
	ErrEmptyTable = errors.New("no results to export")
)

// SheetName is the worksheet holding exported results.
const SheetName = "Results"

// Write exports t under title to path.
func Write(path, title string, t *render.Table) error {
	if t.Empty() {
		return ErrEmptyTable
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		var buf bytes.Buffer
		if err := XLSX(&buf, title, t); err != nil {
			return err
		}
		data = buf.Bytes()
	case ".html", ".htm":
		out, err := HTML(title, t)
		if err != nil {
			return err
		}
		data = out
	case ".md", ".markdown":
		data = []byte(Markdown(title, t))
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// Markdown renders t as a GitHub-flavoured table under a heading.
func Markdown(title string, t *render.Table) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(title))
	}
	if t.Empty() {
		return b.String()
	}

	b.WriteString("|")
	for _, h := range t.Headers {
		b.WriteString(" " + escapeMarkdown(h.Text) + " |")
	}
	b.WriteString("\n|")
	for _, h := range t.Headers {
		if analysis.IsFilenameKey(h.Key) {
			b.WriteString(" --- |")
		} else {
			b.WriteString(" ---: |")
		}
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		b.WriteString("|")
		for _, c := range row {
			b.WriteString(" " + escapeMarkdown(c.Text) + " |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}

// HTML renders t as a standalone HTML document.
func HTML(title string, t *render.Table) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(title, t)), &body); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	var doc bytes.Buffer
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&doc, "<title>%s</title>\n", html.EscapeString(title))
	doc.WriteString("</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.Bytes(), nil
}

// XLSX writes t to w as a workbook. Numeric cells are stored as numbers and
// the header row is bold. The title goes into the document properties.
func XLSX(w io.Writer, title string, t *render.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if title != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Title: title}); err != nil {
			return fmt.Errorf("setting title: %w", err)
		}
	}

	for col, h := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, h.Text); err != nil {
			return fmt.Errorf("writing header %s: %w", cell, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if len(t.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
			return fmt.Errorf("styling header: %w", err)
		}
	}

	for r, row := range t.Rows {
		for col, c := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, cellValue(c)); err != nil {
				return fmt.Errorf("writing cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// cellValue keeps numbers numeric. Filenames use their display text.
func cellValue(c render.Cell) any {
	if analysis.IsFilenameKey(c.Column) {
		return c.Text
	}
	switch v := c.Raw.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
	case int, int64, float64, float32:
		return v
	}
	return c.Text
}
