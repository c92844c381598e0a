package browser

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"github.com/nao1215/missionscan/internal/auth"
)

// Launcher opens visible browser windows for interactive login.
type Launcher struct {
	opts []Option
}

// NewLauncher creates a Launcher. Headless mode is always turned off.
func NewLauncher(opts ...Option) *Launcher {
	return &Launcher{opts: append(slices.Clone(opts), WithHeadless(false))}
}

// Launch starts a visible browser and navigates its first tab to url.
func (l *Launcher) Launch(ctx context.Context, url string) (auth.Window, error) {
	b, err := New(ctx, l.opts...)
	if err != nil {
		return nil, err
	}

	if err := chromedp.Run(b.ctx, chromedp.Navigate(url)); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to open %s: %w", url, err)
	}
	return &Window{browser: b}, nil
}

// Window is the browser an operator logs in with.
type Window struct {
	browser *Browser
}

// localStorageDump lists the local storage entries of the current page.
const localStorageDump = `Object.keys(window.localStorage).map(k => ({name: k, value: window.localStorage.getItem(k)}))`

// Snapshot captures every cookie of the browser and the local storage of
// the page the operator ended on.
func (w *Window) Snapshot(ctx context.Context) (*auth.StorageState, error) {
	var (
		cookies []*network.Cookie
		origin  string
		records []auth.StorageRecord
	)

	err := chromedp.Run(w.browser.ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = storage.GetCookies().Do(ctx)
			return err
		}),
		chromedp.Evaluate(`window.location.origin`, &origin),
		chromedp.Evaluate(localStorageDump, &records),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read browser state: %w", err)
	}

	state := &auth.StorageState{
		Cookies: make([]auth.Cookie, 0, len(cookies)),
		Origins: make([]auth.OriginState, 0, 1),
	}
	for _, c := range cookies {
		state.Cookies = append(state.Cookies, cookieFromCDP(c))
	}
	if strings.HasPrefix(origin, "http") && len(records) > 0 {
		state.Origins = append(state.Origins, auth.OriginState{Origin: origin, LocalStorage: records})
	}

	w.browser.logger.Debug("browser state captured", "origin", origin, "entries", len(records))
	return state, nil
}

// Close shuts the login browser down.
func (w *Window) Close() error {
	return w.browser.Close()
}

// cookieFromCDP converts a CDP cookie into the persisted layout.
func cookieFromCDP(c *network.Cookie) auth.Cookie {
	expires := c.Expires
	if c.Session {
		expires = -1
	}
	return auth.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  expires,
		HTTPOnly: c.HTTPOnly,
		Secure:   c.Secure,
		SameSite: string(c.SameSite),
	}
}
