// ABOUTME: Terminal View that prints what changed between display snapshots
// ABOUTME: Alerts and login redirects are printed inline with fatih/color

package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/workflow"
)

// CookieNoticeText is shown when the backend's cookies do not round-trip.
const CookieNoticeText = "Cookies are required for this application to function properly.\n" +
	"Please enable cookies for the backend, then type `dismiss`."

// View implements workflow.View on a terminal.
type View struct {
	mu      sync.Mutex
	out     io.Writer
	ext     string
	prev    workflow.Display
	painted bool
}

// NewView creates a View writing to out. ext names the accepted file type in
// intake messages.
func NewView(out io.Writer, ext string) *View {
	if ext == "" {
		ext = analysis.DefaultExtension
	}
	return &View{out: out, ext: ext}
}

// Update prints the sections of d that differ from the last snapshot.
func (v *View) Update(d workflow.Display) {
	v.mu.Lock()
	defer v.mu.Unlock()

	prev := v.prev
	first := !v.painted
	v.prev = d
	v.painted = true

	var b strings.Builder

	if d.CookieNotice && (first || !prev.CookieNotice) {
		b.WriteString(noticePanel.Render(CookieNoticeText))
		b.WriteString("\n")
	}

	if d.IntakeError && !prev.IntakeError {
		b.WriteString(color.RedString("✗ only one %s file can be analysed at a time; kept the first", v.ext))
		b.WriteString("\n")
	}

	if !first && d.IntakeEpoch != prev.IntakeEpoch && d.FileSummary == "" && prev.FileSummary != "" {
		b.WriteString(mutedStyle.Render("selection cleared; open files to start again"))
		b.WriteString("\n")
	}
	if d.FileSummary != prev.FileSummary && d.FileSummary != "" {
		fmt.Fprintf(&b, "%s %s\n", color.HiBlackString("files:"), d.FileSummary)
	}

	if !sameModes(d.DisabledModes, prev.DisabledModes) {
		if len(d.DisabledModes) == 0 {
			b.WriteString(mutedStyle.Render("all modes available"))
		} else {
			names := make([]string, len(d.DisabledModes))
			for i, m := range d.DisabledModes {
				names[i] = m.String()
			}
			b.WriteString(color.YellowString("exhausted modes: %s", strings.Join(names, ", ")))
		}
		b.WriteString("\n")
	}

	if d.SelectedMode != prev.SelectedMode && d.SelectedMode != "" {
		fmt.Fprintf(&b, "%s %s\n", color.HiBlackString("mode:"), d.SelectedMode)
	}

	if d.SubmitEnabled && !prev.SubmitEnabled {
		b.WriteString(color.GreenString("ready: type `run` to analyse"))
		b.WriteString("\n")
	}

	if d.ResultsVisible {
		switch {
		case d.ErrorRow != "" && (d.ErrorRow != prev.ErrorRow || !prev.ResultsVisible):
			b.WriteString(RenderErrorRow(d.ErrorRow))
			b.WriteString("\n")
		case d.Table != nil && (d.Table != prev.Table || !prev.ResultsVisible):
			b.WriteString(RenderTable(d.Title, d.Table))
			b.WriteString("\n")
		case d.Table != nil && d.Title != prev.Title:
			b.WriteString(titleStyle.Render(d.Title))
			b.WriteString("\n")
		}
	}

	if d.MessageVisible && (!prev.MessageVisible || d.Message.Text != prev.Message.Text) {
		text := d.Message.Text
		for _, link := range d.Message.Links {
			text += "\n" + color.CyanString("→ %s", link.Href)
		}
		b.WriteString(messagePanel.Render(text))
		b.WriteString("\n")
	}

	if b.Len() > 0 {
		_, _ = io.WriteString(v.out, b.String())
	}
}

// Alert prints a notice the user must read.
func (v *View) Alert(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, _ = color.New(color.FgYellow, color.Bold).Fprintf(v.out, "! %s\n", msg)
}

// Redirect tells the user where to sign in. A terminal cannot follow the
// redirect itself, so the session has to be brought back with `cookie` or,
// against a development backend, `login`.
func (v *View) Redirect(url string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "%s %s\n", color.New(color.Bold).Sprint("Sign in at:"), url)
	fmt.Fprintln(v.out, mutedStyle.Render("then paste the session cookie with `cookie <value>`, or use `login <email>` on a dev server"))
}

// Printf writes free-form output under the view lock.
func (v *View) Printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

func sameModes(a, b []analysis.Mode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
