// ABOUTME: Session, application state and the Display render model
// ABOUTME: Display snapshots are copies and safe to hand to a View

package workflow

import (
	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/render"
)

// Session is the resolved identity.
type Session struct {
	Email   string
	IsAdmin bool
}

// State is everything the controller tracks between operations.
type State struct {
	Session   *Session
	Mode      analysis.Mode
	K         int
	Files   []analysis.File
	Usage   analysis.UsageStatus
	Results []analysis.Row

	// generation changes with every new selection or reset. submittedGen is
	// the generation last handed to RunAnalysis, zero before any submission.
	generation   uint64
	submittedGen uint64
	inFlight     bool
}

// processed reports whether the current selection has been submitted.
func (s *State) processed() bool {
	return s.submittedGen != 0 && s.submittedGen == s.generation
}

// submittable is the submit enable rule. It is never true mid-flight.
func (s *State) submittable() bool {
	return len(s.Files) > 0 && !s.processed() && !s.inFlight
}

// Display is the render model a View paints.
type Display struct {
	CookieNotice bool

	DisabledModes []analysis.Mode
	SelectedMode  analysis.Mode
	SubmitEnabled bool
	FileSummary   string
	IntakeError   bool   // too many files offered; clears itself
	IntakeEpoch   uint64 // bumped whenever the drop target is rebuilt

	ResultsVisible bool
	Title          string
	Table          *render.Table
	ErrorRow       string

	MessageVisible bool
	Message        render.Message
}

// ModeDisabled reports whether m is disabled in this display.
func (d Display) ModeDisabled(m analysis.Mode) bool {
	for _, disabled := range d.DisabledModes {
		if disabled == m {
			return true
		}
	}
	return false
}

func (d Display) clone() Display {
	out := d
	if d.DisabledModes != nil {
		out.DisabledModes = append([]analysis.Mode(nil), d.DisabledModes...)
	}
	if d.Message.Links != nil {
		out.Message.Links = append([]render.Link(nil), d.Message.Links...)
	}
	return out
}
