package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Default HTTPFetcher settings.
const (
	// DefaultUserAgent is sent by HTTPFetcher when none is configured.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	// DefaultMaxBodySize caps the markup read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// HTTPFetcher loads pages with plain HTTP requests.
//
// It returns the server-rendered markup without running scripts. The site
// renders its state blob on the server, so session listings and most
// mission pages read the same as in a browser; goals that only appear after
// hydration are missed.
type HTTPFetcher struct {
	client      *http.Client
	jar         http.CookieJar
	userAgent   string
	maxBodySize int64
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher) error

// WithHTTPClient sets the client. A client without a jar gets the fetcher's
// own jar; the caller's client is not modified.
func WithHTTPClient(client *http.Client) HTTPFetcherOption {
	return func(f *HTTPFetcher) error {
		c := *client
		if c.Jar == nil {
			c.Jar = f.jar
		}
		f.client = &c
		return nil
	}
}

// WithHTTPUserAgent sets the User-Agent header.
func WithHTTPUserAgent(ua string) HTTPFetcherOption {
	return func(f *HTTPFetcher) error {
		if ua != "" {
			f.userAgent = ua
		}
		return nil
	}
}

// WithMaxBodySize caps the bytes read per response.
func WithMaxBodySize(n int64) HTTPFetcherOption {
	return func(f *HTTPFetcher) error {
		if n > 0 {
			f.maxBodySize = n
		}
		return nil
	}
}

// WithCookies seeds the cookie jar for siteURL, typically the login session.
func WithCookies(siteURL string, cookies []*http.Cookie) HTTPFetcherOption {
	return func(f *HTTPFetcher) error {
		u, err := url.Parse(siteURL)
		if err != nil {
			return fmt.Errorf("invalid cookie URL: %w", err)
		}
		f.client.Jar.SetCookies(u, cookies)
		return nil
	}
}

// NewHTTPFetcher creates an HTTPFetcher with a fresh cookie jar.
// WithHTTPClient must come before WithCookies for the cookies to reach
// a client that brings its own jar.
func NewHTTPFetcher(timeout time.Duration, opts ...HTTPFetcherOption) (*HTTPFetcher, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	f := &HTTPFetcher{
		client:      &http.Client{Jar: jar, Timeout: timeout},
		jar:         jar,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Fetch implements Fetcher. settle is ignored: nothing hydrates without a
// browser.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string, _ time.Duration) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s for %s", ErrUnexpectedStatus, resp.Status, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", pageURL, err)
	}

	return &Page{
		URL:      pageURL,
		FinalURL: resp.Request.URL.String(),
		HTML:     string(body),
	}, nil
}

// Close drops idle keep-alive connections.
func (f *HTTPFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
