// ABOUTME: HTTP client for the analysis backend with a process-wide cookie jar
// ABOUTME: Covers cookie check, identity, usage, admin reset, and multipart upload

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/net/publicsuffix"

	"github.com/2389/molindex/internal/analysis"
)

// DefaultTimeout bounds every request when Options.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// SessionCookieName is the cookie carrying the backend session.
const SessionCookieName = "session"

// Identity is the response of GET /auth/check.
type Identity struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// UploadRequest is a multipart analysis submission.
type UploadRequest struct {
	Mode  analysis.Mode
	K     int // sent only when Mode.TakesK()
	Files []analysis.File
}

type apiErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type cookieCheckResponse struct {
	CookieEnabled bool `json:"cookie_enabled"`
}

type resetUsageRequest struct {
	Email string `json:"email"`
}

// Options configures a Client.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	SessionCookie string // defaults to SessionCookieName
	Logger        *slog.Logger
}

// Client is a credentialed HTTP client bound to one backend origin.
type Client struct {
	baseURL       *url.URL
	sessionCookie string
	jar           http.CookieJar
	httpClient    *http.Client
	noRedirect    *http.Client
	logger        *slog.Logger
}

// New creates a Client for opts.BaseURL with a fresh cookie jar.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", opts.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cookieName := opts.SessionCookie
	if cookieName == "" {
		cookieName = SessionCookieName
	}

	return &Client{
		baseURL:       base,
		sessionCookie: cookieName,
		jar:           jar,
		httpClient:    &http.Client{Jar: jar, Timeout: timeout},
		noRedirect: &http.Client{
			Jar:     jar,
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger.With("component", "client"),
	}, nil
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// LoginURL is the external login entry point users are sent to.
func (c *Client) LoginURL() string {
	return c.endpoint("/auth/google")
}

// ImportSessionCookie places a session cookie obtained elsewhere (for example
// copied from a browser) into the jar.
func (c *Client) ImportSessionCookie(value string) {
	c.jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  c.sessionCookie,
		Value: strings.TrimSpace(value),
		Path:  "/",
	}})
}

// HasSessionCookie reports whether the jar holds a session cookie for the backend.
func (c *Client) HasSessionCookie() bool {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		if ck.Name == c.sessionCookie && ck.Value != "" {
			return true
		}
	}
	return false
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and decodes a JSON body into out on success. Non-2xx
// responses are returned as *APIError.
func (c *Client) do(httpClient *http.Client, req *http.Request, out any) error {
	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		blob, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{
			Method:     req.Method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
		}
		var payload apiErrorPayload
		if json.Unmarshal(blob, &payload) == nil {
			apiErr.Code = strings.TrimSpace(payload.Error)
			apiErr.Message = strings.TrimSpace(payload.Message)
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) getNoStore(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Cache-Control", "no-store")
	return c.do(c.httpClient, req, out)
}

// ClearCookie asks the backend to expire the test cookie.
func (c *Client) ClearCookie(ctx context.Context) error {
	return c.getNoStore(ctx, "/clear-cookie", nil)
}

// CheckCookies hits the cookie check endpoint. The first call sets the test cookie;
// a later call reports whether it came back.
func (c *Client) CheckCookies(ctx context.Context) (bool, error) {
	var resp cookieCheckResponse
	if err := c.getNoStore(ctx, "/check-cookies", &resp); err != nil {
		return false, err
	}
	return resp.CookieEnabled, nil
}

// AuthCheck resolves the identity behind the current session cookie.
func (c *Client) AuthCheck(ctx context.Context) (*Identity, error) {
	var ident Identity
	if err := c.getNoStore(ctx, "/auth/check", &ident); err != nil {
		return nil, err
	}
	if ident.Email == "" {
		return nil, fmt.Errorf("auth check returned no email")
	}
	return &ident, nil
}

// DevLogin uses the development backend's login shortcut to obtain a session
// for email. Production backends redirect to an OAuth provider instead and
// this call fails.
func (c *Client) DevLogin(ctx context.Context, email string) error {
	q := url.Values{}
	q.Set("email", email)
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/google?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.noRedirect.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return &APIError{Method: req.Method, Path: req.URL.Path, StatusCode: resp.StatusCode}
	}
	if !c.HasSessionCookie() {
		return fmt.Errorf("login did not set a session cookie")
	}
	return nil
}

// UsageStatus fetches per-mode exhaustion for the current user.
func (c *Client) UsageStatus(ctx context.Context) (analysis.UsageStatus, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/usage-status", nil)
	if err != nil {
		return nil, err
	}
	usage := analysis.UsageStatus{}
	if err := c.do(c.httpClient, req, &usage); err != nil {
		return nil, err
	}
	return usage, nil
}

// ResetUsage clears the usage record of email. Requires an admin session.
func (c *Client) ResetUsage(ctx context.Context, email string) error {
	blob, err := json.Marshal(resetUsageRequest{Email: email})
	if err != nil {
		return fmt.Errorf("marshal request payload: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/admin/reset-usage", bytes.NewReader(blob))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(c.httpClient, req, nil)
}

// Upload submits files for analysis and returns the result rows.
func (c *Client) Upload(ctx context.Context, up UploadRequest) ([]analysis.Row, error) {
	body, contentType, err := buildUploadBody(up)
	if err != nil {
		return nil, err
	}
	c.logger.Info("uploading files",
		"mode", up.Mode,
		"files", len(up.Files),
		"size", humanize.Bytes(uint64(body.Len())),
	)

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var rows []analysis.Row
	if err := c.do(c.httpClient, req, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// buildUploadBody writes mode, optional k, and every file under "files".
func buildUploadBody(up UploadRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("mode", string(up.Mode)); err != nil {
		return nil, "", fmt.Errorf("writing mode field: %w", err)
	}
	if up.Mode.TakesK() {
		if err := w.WriteField("k", strconv.Itoa(up.K)); err != nil {
			return nil, "", fmt.Errorf("writing k field: %w", err)
		}
	}
	for _, f := range up.Files {
		if err := appendFile(w, f); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func appendFile(w *multipart.Writer, f analysis.File) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer src.Close()

	part, err := w.CreateFormFile("files", f.Name)
	if err != nil {
		return fmt.Errorf("creating form part for %s: %w", f.Name, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copying %s: %w", f.Name, err)
	}
	return nil
}

// Health checks the backend's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	return c.do(c.httpClient, req, nil)
}
