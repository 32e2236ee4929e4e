// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// PackageAssetIndex is the positional slot of the loader package within a release.
	PackageAssetIndex = 1

	// DefaultAssetPattern is empty: the package asset is chosen by
	// PackageAssetIndex unless a pattern is configured.
	DefaultAssetPattern = ""

	// maxJSONResponseBytes is the upper bound on catalog response size (10 MB).
	maxJSONResponseBytes = 10 << 20
)

type (
	// Release is one published release of the catalog, newest first.
	Release struct {
		TagName    string
		Name       string
		Prerelease bool
		Draft      bool
		Assets     []Asset
		HTMLURL    string
		CreatedAt  string
	}

	// Asset is one downloadable file attached to a release.
	Asset struct {
		Name               string
		BrowserDownloadURL string
		Size               int64
		ContentType        string
	}

	// ReleaseAsset is the resolved download for one provisioning attempt. It is
	// never cached; the host's download manager owns caching.
	ReleaseAsset struct {
		DownloadURL string
		Name        string
		ReleaseTag  string
		// MatchedBy is "pattern" or "position" depending on how the asset was chosen.
		MatchedBy string
	}

	githubRelease struct {
		TagName    string        `json:"tag_name"`
		Name       string        `json:"name"`
		Prerelease bool          `json:"prerelease"`
		Draft      bool          `json:"draft"`
		HTMLURL    string        `json:"html_url"`
		CreatedAt  string        `json:"created_at"`
		Assets     []githubAsset `json:"assets"`
	}

	githubAsset struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
		Size               int64  `json:"size"`
		ContentType        string `json:"content_type"`
	}

	// Client queries a release catalog.
	Client struct {
		httpClient   *http.Client
		baseURL      string
		token        string
		userAgent    string
		assetPattern string
		logger       *slog.Logger
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL sets the catalog base URL; "/releases" is appended per request.
func WithBaseURL(base string) ClientOption {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(base, "/")
	}
}

// WithToken sets a bearer token for authenticated catalog requests.
func WithToken(token string) ClientOption {
	return func(cl *Client) {
		cl.token = token
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithAssetPattern sets the glob used to pick the package asset by name.
// An empty pattern selects purely by position.
func WithAssetPattern(pattern string) ClientOption {
	return func(cl *Client) {
		cl.assetPattern = pattern
	}
}

// WithTimeout sets the request timeout on a client-owned HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		cl.httpClient = &http.Client{Timeout: d}
	}
}

// WithLogger sets the logger used for selection diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = l
	}
}

// NewClient creates a Client. Defaults: the xforce loader repository,
// positional asset selection, a 30s timeout, and slog.Default().
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      "https://api.github.com/repos/xforce/anno1800-mod-loader",
		userAgent:    "annoload/dev",
		assetPattern: DefaultAssetPattern,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// BaseURL returns the configured catalog base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// ListReleases fetches the catalog's release list in catalog order (newest first).
// Only the first page is read.
func (c *Client) ListReleases(ctx context.Context) ([]Release, error) {
	reqURL := c.baseURL + "/releases"

	resp, err := c.doRequest(ctx, http.MethodGet, reqURL)
	if err != nil {
		return nil, &NetworkError{URL: redactURL(reqURL), Err: err}
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if rl := checkRateLimit(resp); rl != nil {
		return nil, &NetworkError{URL: redactURL(reqURL), StatusCode: resp.StatusCode, RateLimit: rl}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{URL: redactURL(reqURL), StatusCode: resp.StatusCode}
	}

	releases, err := parseReleases(io.LimitReader(resp.Body, maxJSONResponseBytes))
	if err != nil {
		return nil, &NetworkError{URL: redactURL(reqURL), StatusCode: resp.StatusCode, Err: err}
	}
	return releases, nil
}

// ResolveLatestAsset returns the package asset of the newest release.
//
// It fails with a *NotFoundError when the catalog has no releases or the
// package slot is absent, and with a *NetworkError when the request fails or
// the catalog answers with a non-success status.
func (c *Client) ResolveLatestAsset(ctx context.Context) (ReleaseAsset, error) {
	releases, err := c.ListReleases(ctx)
	if err != nil {
		return ReleaseAsset{}, err
	}
	if len(releases) == 0 {
		return ReleaseAsset{}, &NotFoundError{Reason: "catalog has no releases"}
	}

	latest := releases[0]
	asset, matchedBy, ok := c.selectAsset(latest.Assets)
	if !ok {
		return ReleaseAsset{}, &NotFoundError{
			Release: latest.TagName,
			Reason:  fmt.Sprintf("release has %d asset(s), package slot %d is absent", len(latest.Assets), PackageAssetIndex),
		}
	}
	if strings.TrimSpace(asset.BrowserDownloadURL) == "" {
		return ReleaseAsset{}, &NotFoundError{Release: latest.TagName, Reason: fmt.Sprintf("asset %q has no download url", asset.Name)}
	}

	c.logger.Debug("resolved loader package",
		"release", latest.TagName, "asset", asset.Name, "matchedBy", matchedBy)

	return ReleaseAsset{
		DownloadURL: asset.BrowserDownloadURL,
		Name:        asset.Name,
		ReleaseTag:  latest.TagName,
		MatchedBy:   matchedBy,
	}, nil
}

// selectAsset picks the package asset. A configured pattern is tried first;
// when nothing matches, selection falls back to PackageAssetIndex.
func (c *Client) selectAsset(assets []Asset) (Asset, string, bool) {
	if c.assetPattern != "" {
		if doublestar.ValidatePattern(c.assetPattern) {
			for _, a := range assets {
				if matchAssetName(c.assetPattern, a.Name) {
					return a, "pattern", true
				}
			}
		} else {
			c.logger.Warn("ignoring invalid asset pattern", "pattern", c.assetPattern)
		}
	}

	if len(assets) <= PackageAssetIndex {
		return Asset{}, "", false
	}
	return assets[PackageAssetIndex], "position", true
}

// matchAssetName matches the pattern against the published asset name and
// then against its lower-case form. The pattern itself is used verbatim so
// character classes keep their meaning.
func matchAssetName(pattern, name string) bool {
	for _, candidate := range []string{name, strings.ToLower(name)} {
		if ok, _ := doublestar.Match(pattern, candidate); ok { //nolint:errcheck // pattern validated by caller
			return true
		}
	}
	return false
}

// doRequest creates and executes an HTTP request with common GitHub API headers.
func (c *Client) doRequest(ctx context.Context, method, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	return resp, nil
}

// checkRateLimit inspects the X-RateLimit-* headers and returns details when
// the remaining quota is zero.
func checkRateLimit(resp *http.Response) *RateLimit {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}
	rem, err := strconv.Atoi(remaining)
	if err != nil || rem > 0 {
		return nil
	}

	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))                 //nolint:errcheck // Best-effort header parsing.
	resetUnix, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64) //nolint:errcheck // Best-effort header parsing.
	return &RateLimit{Limit: limit, ResetAt: time.Unix(resetUnix, 0)}
}

// parseReleases decodes a JSON array of releases.
func parseReleases(body io.Reader) ([]Release, error) {
	var raw []githubRelease
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding releases: %w", err)
	}

	releases := make([]Release, 0, len(raw))
	for _, gr := range raw {
		releases = append(releases, toRelease(gr))
	}
	return releases, nil
}

func toRelease(gr githubRelease) Release {
	assets := make([]Asset, 0, len(gr.Assets))
	for _, ga := range gr.Assets {
		assets = append(assets, Asset(ga))
	}
	return Release{
		TagName:    gr.TagName,
		Name:       gr.Name,
		Prerelease: gr.Prerelease,
		Draft:      gr.Draft,
		Assets:     assets,
		HTMLURL:    gr.HTMLURL,
		CreatedAt:  gr.CreatedAt,
	}
}

// redactURL strips query parameters and fragments for safe inclusion in errors.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// IsNotFound reports whether err is a catalog NotFoundError.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsNetwork reports whether err is a catalog NetworkError.
func IsNetwork(err error) bool { return errors.Is(err, ErrNetwork) }
