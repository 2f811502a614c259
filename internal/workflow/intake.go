// ABOUTME: File intake: extension filter, single-file cap and the submit enable rule
// ABOUTME: Each call replaces the selection; ResetIntake restores the empty state

package workflow

import (
	"strings"
	"time"

	"github.com/2389/molindex/internal/analysis"
)

// UpdateFiles replaces the selection with the candidates whose name carries
// the intake extension. Non-admin sessions keep only the first match and
// get a transient error indicator when more than one file was offered.
func (c *Controller) UpdateFiles(candidates []analysis.File) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearOutputLocked()

	var retained []analysis.File
	for _, f := range candidates {
		if analysis.HasExtension(f.Name, c.ext) {
			retained = append(retained, f)
		}
	}

	admin := c.isAdminLocked()
	if !admin && len(retained) > 1 {
		retained = retained[:1]
	}
	if !admin && len(candidates) > 1 {
		c.flashIntakeErrorLocked()
	}

	c.state.Files = retained
	c.state.generation++

	c.display.FileSummary = summarize(retained, admin)
	c.display.SubmitEnabled = c.state.submittable()
	c.repaintLocked()

	c.logger.Debug("files updated", "offered", len(candidates), "retained", len(retained))
}

// ResetIntake clears the selection and rebuilds the drop target.
func (c *Controller) ResetIntake() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetIntakeLocked()
	c.repaintLocked()
}

func (c *Controller) resetIntakeLocked() {
	c.state.Files = nil
	c.state.generation++
	c.display.SubmitEnabled = false
	c.display.FileSummary = ""
	c.display.IntakeEpoch++
}

// clearOutputLocked hides results, the error row and the quota message.
func (c *Controller) clearOutputLocked() {
	c.display.ResultsVisible = false
	c.display.ErrorRow = ""
	c.display.MessageVisible = false
}

func (c *Controller) flashIntakeErrorLocked() {
	c.display.IntakeError = true
	c.flashSeq++
	seq := c.flashSeq
	if c.flashTimer != nil {
		c.flashTimer.Stop()
	}
	c.flashTimer = time.AfterFunc(c.errorFlash, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.flashSeq != seq {
			return
		}
		c.display.IntakeError = false
		c.repaintLocked()
	})
}

func summarize(files []analysis.File, admin bool) string {
	if len(files) == 0 {
		return ""
	}
	if !admin {
		return files[0].Name
	}
	return strings.Join(analysis.Names(files), ", ")
}
