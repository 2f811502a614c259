// ABOUTME: Test doubles for the workflow collaborators
// ABOUTME: fakeBackend records calls; recordingView keeps every display snapshot

package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/client"
	"github.com/2389/molindex/internal/store"
)

const testLoginURL = "http://backend.test/auth/google"

type fakeBackend struct {
	mu sync.Mutex

	cookiesEnabled bool
	cookieErr       error
	identity       *client.Identity
	authErr        error
	usage          analysis.UsageStatus
	usageErr       error
	resetErr       error
	uploadFn       func(ctx context.Context, req client.UploadRequest) ([]analysis.Row, error)

	calls   []string
	uploads []client.UploadRequest
	resets  []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		cookiesEnabled: true,
		identity:       &client.Identity{Email: "user@example.com"},
		usage:          analysis.NewUsageStatus(),
	}
}

func (f *fakeBackend) called(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) count(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeBackend) ClearCookie(context.Context) error {
	f.called("clear-cookie")
	return f.cookieErr
}

func (f *fakeBackend) CheckCookies(context.Context) (bool, error) {
	f.called("check-cookies")
	if f.cookieErr != nil {
		return false, f.cookieErr
	}
	return f.cookiesEnabled, nil
}

func (f *fakeBackend) AuthCheck(context.Context) (*client.Identity, error) {
	f.called("auth-check")
	if f.authErr != nil {
		return nil, f.authErr
	}
	ident := *f.identity
	return &ident, nil
}

func (f *fakeBackend) LoginURL() string { return testLoginURL }

func (f *fakeBackend) UsageStatus(context.Context) (analysis.UsageStatus, error) {
	f.called("usage-status")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.usageErr != nil {
		return nil, f.usageErr
	}
	out := analysis.UsageStatus{}
	for k, v := range f.usage {
		out[k] = v
	}
	return out, nil
}

func (f *fakeBackend) setUsage(u analysis.UsageStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usage = u
}

func (f *fakeBackend) ResetUsage(_ context.Context, email string) error {
	f.called("reset-usage")
	f.mu.Lock()
	f.resets = append(f.resets, email)
	f.mu.Unlock()
	return f.resetErr
}

func (f *fakeBackend) Upload(ctx context.Context, req client.UploadRequest) ([]analysis.Row, error) {
	f.called("upload")
	f.mu.Lock()
	f.uploads = append(f.uploads, req)
	fn := f.uploadFn
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("no upload handler")
	}
	return fn(ctx, req)
}

func (f *fakeBackend) lastUpload(t *testing.T) client.UploadRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.uploads)
	return f.uploads[len(f.uploads)-1]
}

type recordingView struct {
	mu        sync.Mutex
	displays  []Display
	alerts    []string
	redirects []string
}

func (v *recordingView) Update(d Display) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.displays = append(v.displays, d)
}

func (v *recordingView) Alert(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, msg)
}

func (v *recordingView) Redirect(url string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.redirects = append(v.redirects, url)
}

func (v *recordingView) Alerts() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.alerts...)
}

func (v *recordingView) Redirects() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.redirects...)
}

type stubPrompter struct {
	answer string
	err    error
	asked  []string
}

func (p *stubPrompter) PromptInt(_ context.Context, label string) (string, error) {
	p.asked = append(p.asked, label)
	return p.answer, p.err
}

type stubTypesetter struct {
	err error
}

func (s stubTypesetter) Typeset(_ context.Context, title string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return strings.NewReplacer(`\(`, "", `\)`, "").Replace(title), nil
}

type harness struct {
	backend  *fakeBackend
	view     *recordingView
	prompter *stubPrompter
	store    *store.SQLiteStore
	ctrl     *Controller
}

func newHarness(t *testing.T, admin bool) *harness {
	t.Helper()

	s, err := store.NewSQLiteStore(store.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	h := &harness{
		backend:  newFakeBackend(),
		view:     &recordingView{},
		prompter: &stubPrompter{answer: "1"},
		store:    s,
	}
	h.backend.identity.IsAdmin = admin
	if admin {
		h.backend.identity.Email = "admin@example.com"
	}
	h.ctrl = New(Options{
		Backend:      h.backend,
		View:         h.view,
		Prompter:     h.prompter,
		Typesetter:   stubTypesetter{},
		Sessions:     s,
		History:      s,
		ContactEmail: "help@example.com",
		ErrorFlash:   20 * time.Millisecond,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return h
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	require.NoError(t, h.ctrl.Start(context.Background()))
}

func molFiles(names ...string) []analysis.File {
	files := make([]analysis.File, len(names))
	for i, n := range names {
		files[i] = analysis.File{Name: n, Path: "/tmp/" + n, Size: 10}
	}
	return files
}

func row(pairs ...any) analysis.Row {
	r := analysis.NewRow()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1])
	}
	return r
}
