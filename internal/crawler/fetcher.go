package crawler

import (
	"context"
	"net/url"
	"time"
)

// Page is a rendered page as seen by the browser.
type Page struct {
	// URL is the address that was requested.
	URL string

	// FinalURL is the address after redirects. It equals URL when the
	// fetcher cannot tell.
	FinalURL string

	// HTML is the serialized document after rendering.
	HTML string
}

// RedirectedToRoot reports whether a request for a deeper page landed on the
// site root, which is how the site answers requests from an expired login.
func (p *Page) RedirectedToRoot() bool {
	if p.FinalURL == "" || p.FinalURL == p.URL {
		return false
	}
	final, err := url.Parse(p.FinalURL)
	if err != nil {
		return false
	}
	requested, err := url.Parse(p.URL)
	if err != nil {
		return false
	}
	return (final.Path == "/" || final.Path == "") && requested.Path != "/" && requested.Path != ""
}

// Fetcher loads a page and returns its rendered markup.
//
// settle is an extra wait after the document is ready, giving client-side
// hydration time to finish. Zero means return as soon as the markup loads.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string, settle time.Duration) (*Page, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, pageURL string, settle time.Duration) (*Page, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, pageURL string, settle time.Duration) (*Page, error) {
	return f(ctx, pageURL, settle)
}
