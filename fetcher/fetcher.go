package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsai/config"
	"newsai/types"
)

// ContentFetcher retrieves the raw document behind a URL
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (types.RawDocument, error)
}

// FetchError reports a failed retrieval. StatusCode is zero for transport failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a FetchError for a missing resource
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound
}

// HTTPConfig configures an HTTPFetcher. Zero values fall back to package defaults.
type HTTPConfig struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	// Client replaces the default http.Client (tests)
	Client *http.Client
}

// HTTPFetcher issues a single GET per call. Redirects follow the net/http default policy.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewHTTPFetcher creates a fetcher from config
func NewHTTPFetcher(cfg HTTPConfig) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.FetchTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = config.UserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.MaxBodyBytes
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &HTTPFetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
	}
}

// Fetch downloads url. Any non-2xx status or transport failure is a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (types.RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.RawDocument{}, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return types.RawDocument{}, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return types.RawDocument{}, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return types.RawDocument{}, &FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}

	return types.RawDocument{
		URL:         resp.Request.URL.String(),
		Body:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		FetchedAt:   time.Now(),
	}, nil
}

// ErrUnsupportedScheme is returned for URLs no registered fetcher can serve
var ErrUnsupportedScheme = errors.New("unsupported url scheme")

// Router dispatches to a fetcher by URL scheme. http and https go to the fallback,
// other schemes must be registered with Handle.
type Router struct {
	routes   map[string]ContentFetcher
	fallback ContentFetcher
}

// NewRouter creates a router whose fallback handles http and https
func NewRouter(fallback ContentFetcher) *Router {
	return &Router{routes: make(map[string]ContentFetcher), fallback: fallback}
}

// Handle registers a fetcher for a scheme such as "s3"
func (r *Router) Handle(scheme string, f ContentFetcher) {
	r.routes[strings.ToLower(scheme)] = f
}

func (r *Router) Fetch(ctx context.Context, url string) (types.RawDocument, error) {
	if i := strings.Index(url, "://"); i > 0 {
		scheme := strings.ToLower(url[:i])
		if f, ok := r.routes[scheme]; ok {
			return f.Fetch(ctx, url)
		}
		if scheme != "http" && scheme != "https" {
			return types.RawDocument{}, &FetchError{URL: url, Err: fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)}
		}
	}
	return r.fallback.Fetch(ctx, url)
}
