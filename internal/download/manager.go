// SPDX-License-Identifier: MPL-2.0

package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/annoload/annoload/internal/appstate"
	"github.com/annoload/annoload/internal/host"
	"github.com/annoload/annoload/internal/platform"
)

const (
	// DefaultTimeout bounds a single download, including the response body.
	DefaultTimeout = 10 * time.Minute

	defaultUserAgent = "annoload/dev"
)

// ErrInvalidRequest is returned by StartDownload for requests that cannot be enqueued.
var ErrInvalidRequest = errors.New("invalid download request")

type (
	// Recorder persists finished downloads. *appstate.Store satisfies it.
	Recorder interface {
		RecordDownload(rec appstate.DownloadRecord) error
	}

	// Result is the outcome of one download.
	Result struct {
		ID      host.DownloadID
		URL     string
		GameID  string
		Path    string
		Skipped bool // destination existed and the policy kept it
		Err     error
	}

	// CompletionFunc is invoked on the download goroutine after every
	// download, successful or not.
	CompletionFunc func(ctx context.Context, res Result)

	// Manager implements host.Downloader on top of net/http.
	Manager struct {
		dir        string
		client     *http.Client
		userAgent  string
		recorder   Recorder
		onComplete CompletionFunc
		logger     *slog.Logger

		wg      sync.WaitGroup
		mu      sync.Mutex
		results map[host.DownloadID]Result
		order   []Result
	}

	// Option configures a Manager.
	Option func(*Manager)
)

// WithHTTPClient sets the HTTP client used for downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) {
		m.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(m *Manager) {
		m.userAgent = ua
	}
}

// WithRecorder persists successful downloads.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		m.recorder = r
	}
}

// WithCompletionHandler registers fn to run after each download.
func WithCompletionHandler(fn CompletionFunc) Option {
	return func(m *Manager) {
		m.onComplete = fn
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a Manager that stores files in dir.
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{
		dir:       dir,
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: defaultUserAgent,
		logger:    slog.Default(),
		results:   make(map[host.DownloadID]Result),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the download directory.
func (m *Manager) Dir() string { return m.dir }

// StartDownload validates the request, assigns an id, and fetches rawURL in
// the background. The returned error covers only enqueueing. The download
// outlives ctx's cancellation but keeps its values.
func (m *Manager) StartDownload(ctx context.Context, rawURL string, opts host.DownloadOptions) (host.DownloadID, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: unsupported url %q", ErrInvalidRequest, rawURL)
	}

	policy := opts.Replace
	if policy == "" {
		policy = host.ReplaceAlways
	}
	if ok, errs := policy.IsValid(); !ok {
		return "", fmt.Errorf("%w: %w", ErrInvalidRequest, errors.Join(errs...))
	}

	name := fileName(opts.NameHint, u)
	if name == "" {
		return "", fmt.Errorf("%w: cannot derive a file name from %q", ErrInvalidRequest, rawURL)
	}

	id := host.DownloadID(uuid.NewString())
	req := request{
		id:     id,
		url:    rawURL,
		gameID: opts.GameID,
		dest:   filepath.Join(m.dir, name),
		policy: policy,
	}

	m.logger.Info("download enqueued", "id", id, "url", redact(u), "dest", req.dest, "replace", policy)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run(context.WithoutCancel(ctx), req)
	}()
	return id, nil
}

// Wait blocks until every enqueued download and its completion handler
// finished, or ctx is done.
func (m *Manager) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Result returns the outcome of a finished download.
func (m *Manager) Result(id host.DownloadID) (Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.results[id]
	return res, ok
}

// Results returns the outcomes of all finished downloads in completion order.
func (m *Manager) Results() []Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.order)
}

type request struct {
	id     host.DownloadID
	url    string
	gameID string
	dest   string
	policy host.ReplacePolicy
}

func (m *Manager) run(ctx context.Context, req request) {
	res := Result{ID: req.id, URL: req.url, GameID: req.gameID, Path: req.dest}

	if req.policy != host.ReplaceAlways && exists(req.dest) {
		// Hosts without UI resolve "ask" the same way as "never".
		res.Skipped = true
		m.logger.Info("download skipped, file exists", "id", req.id, "dest", req.dest, "replace", req.policy)
	} else {
		res.Err = m.fetch(ctx, req)
	}

	if res.Err != nil {
		m.logger.Error("download failed", "id", req.id, "error", res.Err)
	} else {
		m.logger.Info("download complete", "id", req.id, "dest", req.dest)
		if m.recorder != nil {
			rec := appstate.DownloadRecord{
				ID:      string(req.id),
				URL:     req.url,
				GameID:  req.gameID,
				Path:    req.dest,
				Skipped: res.Skipped,
			}
			if err := m.recorder.RecordDownload(rec); err != nil {
				m.logger.Warn("recording download failed", "id", req.id, "error", err)
			}
		}
	}

	m.mu.Lock()
	m.results[req.id] = res
	m.order = append(m.order, res)
	m.mu.Unlock()

	if m.onComplete != nil {
		m.onComplete(ctx, res)
	}
}

func (m *Manager) fetch(ctx context.Context, req request) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("User-Agent", m.userAgent)

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", req.url, err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only body

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetching %s: unexpected status %d", req.url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(m.dir, filepath.Base(req.dest)+".*.part")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }() // no-op after a successful rename

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", req.dest, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, req.dest); err != nil {
		return fmt.Errorf("moving download into place: %w", err)
	}
	return nil
}

// fileName picks the destination name: the hint's base name, else the last
// URL path segment.
func fileName(hint string, u *url.URL) string {
	name := strings.TrimSpace(hint)
	if name == "" {
		name = path.Base(u.Path)
	}
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return ""
	}
	if platform.IsWindowsReservedName(name) {
		return ""
	}
	return name
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// redact strips credentials and query parameters before logging.
func redact(u *url.URL) string {
	c := *u
	c.User = nil
	c.RawQuery = ""
	return c.String()
}
