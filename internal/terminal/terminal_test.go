// ABOUTME: Tests for the terminal view, prompter, table and typesetter
// ABOUTME: Output is captured in buffers and checked for the visible text

package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/render"
	"github.com/2389/molindex/internal/workflow"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestMathTypesetter(t *testing.T) {
	ts := MathTypesetter{}
	ctx := context.Background()

	out, err := ts.Typeset(ctx, `Reverse Degree Descriptors - \(k = 3\)`)
	require.NoError(t, err)
	assert.Equal(t, "Reverse Degree Descriptors - 𝑘 = 3", out)

	out, err = ts.Typeset(ctx, `\(h\) and \(AB\)`)
	require.NoError(t, err)
	assert.Equal(t, "ℎ and 𝐴𝐵", out)

	out, err = ts.Typeset(ctx, "Degree Descriptors")
	require.NoError(t, err)
	assert.Equal(t, "Degree Descriptors", out)

	_, err = ts.Typeset(ctx, `\(k = 3`)
	assert.ErrorIs(t, err, ErrUnbalancedMath)
	_, err = ts.Typeset(ctx, `k = 3\)`)
	assert.ErrorIs(t, err, ErrUnbalancedMath)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ts.Typeset(cancelled, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInputAndPrompter(t *testing.T) {
	in := NewInput(strings.NewReader("open a.mol\n 3 \n"))
	var out bytes.Buffer
	p := NewPrompter(in, &out)
	ctx := context.Background()

	line, err := in.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "open a.mol", line)

	answer, err := p.PromptInt(ctx, "Enter k value")
	require.NoError(t, err)
	assert.Equal(t, " 3 ", answer)
	assert.Equal(t, "Enter k value [1]: ", out.String())

	_, err = in.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestInput_ContextCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	in := NewInput(r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := in.ReadLine(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func sampleTable(t *testing.T) *render.Table {
	t.Helper()
	var rows []analysis.Row
	require.NoError(t, json.Unmarshal([]byte(`[{"filename":"benzene.mol","m1":24,"randic":2.9999}]`), &rows))
	return render.BuildTable(rows, ".mol", render.NewFormatter("en-US"))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable("Degree Descriptors", sampleTable(t))
	assert.Contains(t, out, "Degree Descriptors")
	assert.Contains(t, out, "filename")
	assert.Contains(t, out, "RANDIC")
	assert.Contains(t, out, "benzene")
	assert.Contains(t, out, "2.9999")
	assert.NotContains(t, out, "benzene.mol")

	assert.Equal(t, "", RenderTable("", nil))
}

func TestView_PrintsChanges(t *testing.T) {
	var out bytes.Buffer
	v := NewView(&out, ".mol")

	v.Update(workflow.Display{CookieNotice: true})
	assert.Contains(t, out.String(), "Cookies are required")

	out.Reset()
	v.Update(workflow.Display{CookieNotice: true})
	assert.Empty(t, out.String(), "unchanged display prints nothing")

	out.Reset()
	v.Update(workflow.Display{
		FileSummary:   "a.mol",
		SubmitEnabled: true,
		IntakeError:   true,
		DisabledModes: []analysis.Mode{analysis.ModeDegree},
	})
	s := out.String()
	assert.Contains(t, s, "files: a.mol")
	assert.Contains(t, s, "ready")
	assert.Contains(t, s, "only one .mol file")
	assert.Contains(t, s, "exhausted modes: degree")

	out.Reset()
	table := sampleTable(t)
	v.Update(workflow.Display{
		FileSummary:    "a.mol",
		DisabledModes:  []analysis.Mode{analysis.ModeDegree},
		ResultsVisible: true,
		Title:          "Degree Descriptors",
		Table:          table,
	})
	assert.Contains(t, out.String(), "benzene")

	out.Reset()
	v.Update(workflow.Display{
		DisabledModes:  []analysis.Mode{analysis.ModeDegree},
		MessageVisible: true,
		Message:        render.QuotaMessage("Mail to help@example.com", "help@example.com"),
	})
	assert.Contains(t, out.String(), "Mail to help@example.com")
	assert.Contains(t, out.String(), "mailto:help@example.com")

	out.Reset()
	v.Update(workflow.Display{
		DisabledModes:  []analysis.Mode{analysis.ModeDegree},
		ResultsVisible: true,
		ErrorRow:       "Error: server_error",
		IntakeEpoch:    1,
	})
	assert.Contains(t, out.String(), "Error: server_error")
}

func TestView_AlertAndRedirect(t *testing.T) {
	var out bytes.Buffer
	v := NewView(&out, "")

	v.Alert("Usage reset successfully")
	v.Redirect("http://localhost:5000/auth/google")

	assert.Contains(t, out.String(), "! Usage reset successfully")
	assert.Contains(t, out.String(), "http://localhost:5000/auth/google")
}
