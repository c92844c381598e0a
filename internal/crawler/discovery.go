package crawler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/missionscan/internal/model"
	"github.com/nao1215/missionscan/internal/pagestate"
)

// Discovery defaults.
const (
	// DefaultIndexPath is the page listing every mission session.
	DefaultIndexPath = "/ninja-missions"

	// DefaultCacheDir holds previously saved session pages.
	DefaultCacheDir = "missions_html/sessions_html"

	// sessionPathPrefix marks links to a session listing.
	sessionPathPrefix = "/missions/"
)

var (
	queryIDPath     = pagestate.Path{"query", "id"}
	indexSessionMap = pagestate.Path{"props", "pageProps", "animeMissions"}
)

// Discoverer determines which sessions a run crawls.
type Discoverer struct {
	fetcher   Fetcher
	baseURL   string
	indexPath string
	cacheDir  string
	logger    *slog.Logger
}

// DiscovererOption configures a Discoverer.
type DiscovererOption func(*Discoverer)

// WithDiscoveryBaseURL sets the site root the index is loaded from.
func WithDiscoveryBaseURL(baseURL string) DiscovererOption {
	return func(d *Discoverer) {
		d.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithIndexPath sets the path of the session index page.
func WithIndexPath(p string) DiscovererOption {
	return func(d *Discoverer) {
		d.indexPath = p
	}
}

// WithCacheDir sets the directory of saved session pages.
// An empty directory name disables the cache.
func WithCacheDir(dir string) DiscovererOption {
	return func(d *Discoverer) {
		d.cacheDir = dir
	}
}

// WithDiscoveryLogger sets the logger.
func WithDiscoveryLogger(logger *slog.Logger) DiscovererOption {
	return func(d *Discoverer) {
		d.logger = logger
	}
}

// NewDiscoverer creates a Discoverer. fetcher is only used when the cache
// yields nothing and may be nil for cache-only discovery.
func NewDiscoverer(fetcher Fetcher, opts ...DiscovererOption) *Discoverer {
	d := &Discoverer{
		fetcher:   fetcher,
		baseURL:   DefaultBaseURL,
		indexPath: DefaultIndexPath,
		cacheDir:  DefaultCacheDir,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}

// IndexURL returns the address of the session index page.
func (d *Discoverer) IndexURL() string {
	return d.baseURL + d.indexPath
}

// Discover returns session ids from the local cache, or from the live index
// when the cache is missing or empty.
func (d *Discoverer) Discover(ctx context.Context) ([]string, error) {
	ids, err := d.FromCache()
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		d.logger.Info("sessions discovered from cache", "dir", d.cacheDir, "count", len(ids))
		return ids, nil
	}

	ids, err = d.FromIndex(ctx)
	if err != nil {
		return nil, err
	}
	d.logger.Info("sessions discovered from index", "url", d.IndexURL(), "count", len(ids))
	return ids, nil
}

// FromCache reads the query id of every saved *.html page in the cache
// directory. The result is sorted and free of duplicates. A missing
// directory yields no ids and no error.
func (d *Discoverer) FromCache() ([]string, error) {
	if d.cacheDir == "" {
		return nil, nil
	}

	info, err := os.Stat(d.cacheDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.logger.Debug("session cache not found", "dir", d.cacheDir)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session cache: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("session cache is not a directory: %s", d.cacheDir)
	}

	fsys := os.DirFS(d.cacheDir)
	names, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list session cache: %w", err)
	}

	seen := make(map[string]bool)
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read cached page %s: %w", filepath.Join(d.cacheDir, name), err)
		}

		id := pagestate.Text(pagestate.Resolve(pagestate.Extract(string(data)), []pagestate.Path{queryIDPath}, ""))
		if id == "" {
			d.logger.Debug("cached page has no query id", "file", name)
			continue
		}
		seen[id] = true
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// FromIndex loads the session index and collects every session link in
// order of first appearance. When the page has no such links, the session
// map embedded in its state blob is used instead.
func (d *Discoverer) FromIndex(ctx context.Context) ([]string, error) {
	if d.fetcher == nil {
		return nil, ErrNoFetcher
	}

	page, err := d.fetcher.Fetch(ctx, d.IndexURL(), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load session index: %w", err)
	}

	ids, err := d.linksFromIndex(page.HTML)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		return ids, nil
	}

	d.logger.Debug("session index has no links; reading state blob", "url", d.IndexURL())
	return sessionsFromIndexState(page.HTML), nil
}

// linksFromIndex returns the session ids linked from markup.
func (d *Discoverer) linksFromIndex(markup string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse session index: %w", err)
	}

	base, err := url.Parse(d.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	ids := make([]string, 0)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		if u.IsAbs() && u.Host != base.Host {
			return
		}
		if !strings.HasPrefix(u.Path, sessionPathPrefix) {
			return
		}

		id := model.NormalizeSessionID(u.Path)
		if id == "" || slices.Contains(ids, id) {
			return
		}
		ids = append(ids, id)
	})
	return ids, nil
}

// sessionsFromIndexState reads the title-to-session map the index page
// embeds, ordered by title.
func sessionsFromIndexState(markup string) []string {
	sessions := pagestate.Map(pagestate.Extract(markup), indexSessionMap)

	titles := make([]string, 0, len(sessions))
	for title := range sessions {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		link := pagestate.Text(pagestate.Resolve(sessions[title], []pagestate.Path{{"linkTo"}}, ""))
		id := model.NormalizeSessionID(link)
		if id == "" || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
