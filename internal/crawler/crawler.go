package crawler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/missionscan/internal/model"
)

// Default crawler settings.
const (
	// DefaultBaseURL is the site every path is resolved against.
	DefaultBaseURL = "https://www.naruto-arena.site"

	// DefaultSettleDelay gives mission pages time to hydrate on the client.
	DefaultSettleDelay = 300 * time.Millisecond

	// DefaultImagesDir is the directory image files are named under.
	DefaultImagesDir = "missions_out/images"
)

// Crawler reads session and mission pages through a Fetcher.
type Crawler struct {
	// fetcher loads rendered pages.
	fetcher Fetcher

	// baseURL has no trailing slash.
	baseURL string

	// imagesDir prefixes the file of every ImageRef.
	imagesDir string

	// settle is the hydration wait for mission pages. Session pages are
	// read as soon as the markup loads.
	settle time.Duration

	// concurrency caps mission detail pages in flight per session.
	concurrency int

	logger   *slog.Logger
	progress Progress
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithBaseURL sets the site root.
func WithBaseURL(baseURL string) Option {
	return func(c *Crawler) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithImagesDir sets the directory image files are assigned to.
func WithImagesDir(dir string) Option {
	return func(c *Crawler) {
		c.imagesDir = dir
	}
}

// WithSettleDelay sets the wait after a mission page loads.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Crawler) {
		c.settle = d
	}
}

// WithConcurrency sets how many mission pages may load at once.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithProgress sets the receiver of crawl milestones.
func WithProgress(p Progress) Option {
	return func(c *Crawler) {
		c.progress = p
	}
}

// New creates a Crawler that loads pages through fetcher.
func New(fetcher Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:     fetcher,
		baseURL:     DefaultBaseURL,
		imagesDir:   DefaultImagesDir,
		settle:      DefaultSettleDelay,
		concurrency: 1,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.progress == nil {
		c.progress = noopProgress{}
	}

	return c
}

// SessionURL returns the canonical listing page of a session.
func (c *Crawler) SessionURL(id string) string {
	return c.baseURL + "/missions/" + id
}

// MissionURL returns the canonical detail page of a mission.
func (c *Crawler) MissionURL(slug string) string {
	return c.baseURL + "/mission/" + slug
}

// CrawlAll crawls ids in order and hands each finished session to emit.
// It stops at the first fatal error; sessions emitted before it are kept
// by the caller.
func (c *Crawler) CrawlAll(ctx context.Context, ids []string, emit func(model.MissionSession)) error {
	for i, id := range ids {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		c.progress.SessionStarted(id, i+1, len(ids))
		session, err := c.CrawlSession(ctx, id)
		if err != nil {
			return err
		}
		emit(session)

		c.logger.Info("session crawled",
			"id", id,
			"missions", len(session.Missions),
		)
	}
	return nil
}

// checkRedirect warns when a page bounced to the site root. The persisted
// login is never validated up front, so this is the only sign it expired.
func (c *Crawler) checkRedirect(page *Page) {
	if page.RedirectedToRoot() {
		c.logger.Warn("redirected to site root; persisted login may have expired",
			"requested", page.URL,
			"final", page.FinalURL,
		)
	}
}
