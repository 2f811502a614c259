// ABOUTME: Renders a result table with lipgloss
// ABOUTME: The filename column is left-aligned, every other column right-aligned

package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/render"
)

// RenderTable draws title above t. An empty table renders only the title.
func RenderTable(title string, t *render.Table) string {
	var parts []string
	if title != "" {
		parts = append(parts, titleStyle.Render(title))
	}
	if t.Empty() {
		return strings.Join(parts, "\n")
	}

	headers := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = h.Text
	}
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		cells := make([]string, len(r))
		for j, c := range r {
			cells[j] = c.Text
		}
		rows[i] = cells
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			if col < len(t.Headers) && analysis.IsFilenameKey(t.Headers[col].Key) {
				return cellStyle
			}
			return numberCellStyle
		})

	parts = append(parts, tbl.Render())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// RenderErrorRow draws the single failure row that replaces the result body.
func RenderErrorRow(text string) string {
	return errorRowStyle.Render(text)
}
