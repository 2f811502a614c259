// ABOUTME: Controller-side result rendering into the Display model
// ABOUTME: Results, the quota message path and the single error row

package workflow

import (
	"context"

	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/render"
)

// DefaultErrorReason fills the error row when no reason is known.
const DefaultErrorReason = "Processing failed"

// render shows rows under the mode title. Empty results change nothing.
// The title is typeset after the table is visible; a typesetting failure
// leaves the raw title in place.
func (c *Controller) render(ctx context.Context, mode analysis.Mode, k int, rows []analysis.Row) {
	if len(rows) == 0 {
		return
	}

	title := render.Title(mode, k)
	table := render.BuildTable(rows, c.ext, c.formatter)

	c.mu.Lock()
	c.renderSeq++
	seq := c.renderSeq
	c.state.Results = rows
	c.display.Title = title
	c.display.Table = table
	c.display.ErrorRow = ""
	c.display.ResultsVisible = true
	c.display.MessageVisible = false
	c.repaintLocked()
	c.mu.Unlock()

	if c.typesetter == nil {
		return
	}
	typeset, err := c.typesetter.Typeset(ctx, title)
	if err != nil {
		c.logger.Warn("title typeset failed", "title", title, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.renderSeq != seq {
		return
	}
	c.display.Title = typeset
	c.repaintLocked()
}

// renderQuotaMessageLocked clears the rows, hides the results and shows msg
// with the contact address linked.
func (c *Controller) renderQuotaMessageLocked(msg string) {
	c.renderSeq++
	c.state.Results = nil
	c.display.Table = nil
	c.display.ResultsVisible = false
	c.display.ErrorRow = ""
	c.display.Message = render.QuotaMessage(msg, c.contact)
	c.display.MessageVisible = true
	c.repaintLocked()
}

// renderErrorLocked replaces the result body with one error row.
func (c *Controller) renderErrorLocked(reason string) {
	if reason == "" {
		reason = DefaultErrorReason
	}
	c.renderSeq++
	c.state.Results = nil
	c.display.Table = nil
	c.display.ErrorRow = "Error: " + reason
	c.display.ResultsVisible = true
	c.display.MessageVisible = false
	c.repaintLocked()
}

// LastResult returns the title and table currently on display, or nil when
// no results are shown.
func (c *Controller) LastResult() (string, *render.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.display.ResultsVisible || c.display.Table.Empty() {
		return "", nil
	}
	return c.display.Title, c.display.Table
}
