// ABOUTME: Controller owning the client state and the collaborators it drives
// ABOUTME: Backend, View, Prompter and Typesetter are injected so tests can fake them

package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/client"
	"github.com/2389/molindex/internal/render"
	"github.com/2389/molindex/internal/store"
)

// DefaultErrorFlash is how long the too-many-files indicator stays up.
const DefaultErrorFlash = time.Second

// Backend is the HTTP contract the workflow consumes. *client.Client implements it.
type Backend interface {
	ClearCookie(ctx context.Context) error
	CheckCookies(ctx context.Context) (bool, error)
	AuthCheck(ctx context.Context) (*client.Identity, error)
	LoginURL() string
	UsageStatus(ctx context.Context) (analysis.UsageStatus, error)
	ResetUsage(ctx context.Context, email string) error
	Upload(ctx context.Context, req client.UploadRequest) ([]analysis.Row, error)
}

// View paints display snapshots and shows notices. Update is called with the
// controller lock held and must not call back into the controller.
type View interface {
	Update(d Display)
	Alert(msg string)
	Redirect(url string)
}

// Prompter asks the user for the k parameter and returns the raw answer.
type Prompter interface {
	PromptInt(ctx context.Context, label string) (string, error)
}

// Typesetter turns inline math notation in a title into its display form.
type Typesetter interface {
	Typeset(ctx context.Context, title string) (string, error)
}

// Options configures a Controller. Backend and View are required.
type Options struct {
	Backend    Backend
	View       View
	Prompter   Prompter
	Typesetter Typesetter
	Sessions   store.SessionStore
	History    store.HistoryStore
	Formatter  *render.Formatter

	Extension    string
	ContactEmail string
	ErrorFlash   time.Duration
	Logger       *slog.Logger
}

// Controller is the single writer of the client state.
type Controller struct {
	backend    Backend
	view       View
	prompter   Prompter
	typesetter Typesetter
	sessions   store.SessionStore
	history    store.HistoryStore
	formatter  *render.Formatter

	ext        string
	contact    string
	errorFlash time.Duration
	logger     *slog.Logger

	mu         sync.Mutex
	state      State
	display    Display
	flashSeq   uint64
	flashTimer *time.Timer
	renderSeq  uint64
}

// New creates a Controller with nothing resolved yet.
func New(opts Options) *Controller {
	ext := opts.Extension
	if ext == "" {
		ext = analysis.DefaultExtension
	}
	flash := opts.ErrorFlash
	if flash <= 0 {
		flash = DefaultErrorFlash
	}
	formatter := opts.Formatter
	if formatter == nil {
		formatter = render.NewFormatter("")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		backend:    opts.Backend,
		view:       opts.View,
		prompter:   opts.Prompter,
		typesetter: opts.Typesetter,
		sessions:   opts.Sessions,
		history:    opts.History,
		formatter:  formatter,
		ext:        ext,
		contact:    opts.ContactEmail,
		errorFlash: flash,
		logger:     logger.With("component", "workflow"),
		state:      State{K: analysis.DefaultK},
	}
}

// Start runs the cookie check and then resolves the session.
func (c *Controller) Start(ctx context.Context) error {
	if !c.VerifyCookies(ctx) {
		return ErrCapabilityUnavailable
	}
	if _, err := c.ResolveSession(ctx); err != nil {
		return err
	}
	return nil
}

// Display returns a snapshot of the render model.
func (c *Controller) Display() Display {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display.clone()
}

// Session returns the resolved session, or nil.
func (c *Controller) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Session == nil {
		return nil
	}
	s := *c.state.Session
	return &s
}

// Files returns the retained selection.
func (c *Controller) Files() []analysis.File {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]analysis.File(nil), c.state.Files...)
}

// Processed reports whether the current selection has been submitted.
func (c *Controller) Processed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.processed()
}

// Mode returns the selected mode, or "" when none is selected.
func (c *Controller) Mode() analysis.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Mode
}

// Results returns the raw rows of the last successful render.
func (c *Controller) Results() []analysis.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]analysis.Row(nil), c.state.Results...)
}

// DismissCookieNotice hides the cookie notice. It does not check again.
func (c *Controller) DismissCookieNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.display.CookieNotice = false
	c.repaintLocked()
}

// History lists recorded submissions, newest first.
func (c *Controller) History(ctx context.Context, limit int) ([]*store.HistoryEntry, error) {
	if c.history == nil {
		return nil, nil
	}
	return c.history.ListSubmissions(ctx, limit)
}

func (c *Controller) repaintLocked() {
	if c.view != nil {
		c.view.Update(c.display.clone())
	}
}

func (c *Controller) alert(msg string) {
	if c.view != nil {
		c.view.Alert(msg)
	}
}

func (c *Controller) isAdminLocked() bool {
	return c.state.Session != nil && c.state.Session.IsAdmin
}
