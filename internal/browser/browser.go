package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/nao1215/missionscan/internal/auth"
	"github.com/nao1215/missionscan/internal/crawler"
)

// Browser is a running Chrome process that loads pages in fresh tabs.
type Browser struct {
	// ctx is the context of the first tab; new tabs are derived from it.
	ctx context.Context

	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc

	timeout time.Duration

	// initScript replays local storage into every new document.
	initScript string

	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// New starts Chrome and restores any configured storage state.
// The browser lives until Close, independent of ctx cancellation after
// start-up.
func New(ctx context.Context, opts ...Option) (*Browser, error) {
	o := newOptions(opts)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), o.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			o.logger.Debug("chromedp", "message", fmt.Sprintf(format, args...))
		}),
	)

	b := &Browser{
		ctx:           browserCtx,
		allocCancel:   allocCancel,
		browserCancel: browserCancel,
		timeout:       o.timeout,
		logger:        o.logger,
	}

	actions := []chromedp.Action{network.Enable()}
	if o.state != nil {
		actions = append(actions, restoreCookies(o.state.Cookies))
		script, err := localStorageScript(o.state.Origins)
		if err != nil {
			b.cancel()
			return nil, err
		}
		b.initScript = script
	}

	// The first Run launches the browser. It must not carry a deadline, or
	// the browser would be torn down when the deadline passes.
	if err := chromedp.Run(browserCtx, actions...); err != nil {
		b.cancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if o.state != nil {
		b.logger.Debug("browser state restored", "origins", len(o.state.Origins))
	}
	return b, nil
}

// Fetch loads pageURL in a new tab and returns the rendered markup.
// It waits for the body to be ready and then for settle.
func (b *Browser) Fetch(ctx context.Context, pageURL string, settle time.Duration) (*crawler.Page, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	tabCtx, cancelTab := chromedp.NewContext(b.ctx)
	defer cancelTab()

	runCtx, cancelRun := context.WithTimeout(tabCtx, b.timeout)
	defer cancelRun()

	stop := context.AfterFunc(ctx, cancelRun)
	defer stop()

	var markup, finalURL string
	actions := []chromedp.Action{
		b.prepareTab(),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if settle > 0 {
		actions = append(actions, chromedp.Sleep(settle))
	}
	actions = append(actions,
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	)

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to load %s: %w", pageURL, err)
	}

	b.logger.Debug("page loaded", "url", pageURL, "final", finalURL, "bytes", len(markup))
	return &crawler.Page{URL: pageURL, FinalURL: finalURL, HTML: markup}, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	err := chromedp.Cancel(b.ctx)
	b.cancel()
	return err
}

func (b *Browser) cancel() {
	b.browserCancel()
	b.allocCancel()
}

// prepareTab installs the local storage init script on a fresh tab.
func (b *Browser) prepareTab() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if b.initScript == "" {
			return nil
		}
		_, err := page.AddScriptToEvaluateOnNewDocument(b.initScript).Do(ctx)
		return err
	})
}

// restoreCookies sets every persisted cookie in the browser.
func restoreCookies(cookies []auth.Cookie) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			params := network.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithSecure(c.Secure).
				WithHTTPOnly(c.HTTPOnly)
			if c.SameSite != "" {
				params = params.WithSameSite(network.CookieSameSite(c.SameSite))
			}
			if expires := cookieExpiry(c.Expires); expires != nil {
				params = params.WithExpires(expires)
			}
			if err := params.Do(ctx); err != nil {
				return fmt.Errorf("failed to restore cookie %s: %w", c.Name, err)
			}
		}
		return nil
	})
}

// cookieExpiry converts epoch seconds into a CDP timestamp.
// Session cookies (zero or negative) have no expiry.
func cookieExpiry(seconds float64) *cdp.TimeSinceEpoch {
	if seconds <= 0 {
		return nil
	}
	sec, frac := math.Modf(seconds)
	t := cdp.TimeSinceEpoch(time.Unix(int64(sec), int64(frac*float64(time.Second))))
	return &t
}

// localStorageScript builds a script that restores the local storage of
// the current origin, or "" when there is nothing to restore.
func localStorageScript(origins []auth.OriginState) (string, error) {
	byOrigin := make(map[string][][2]string)
	for _, o := range origins {
		for _, r := range o.LocalStorage {
			byOrigin[o.Origin] = append(byOrigin[o.Origin], [2]string{r.Name, r.Value})
		}
	}
	if len(byOrigin) == 0 {
		return "", nil
	}

	data, err := json.Marshal(byOrigin)
	if err != nil {
		return "", fmt.Errorf("failed to encode local storage: %w", err)
	}
	return fmt.Sprintf(localStorageTemplate, data), nil
}

const localStorageTemplate = `(() => {
  const entries = (%s)[window.location.origin];
  if (!entries) return;
  for (const [name, value] of entries) {
    try { window.localStorage.setItem(name, value); } catch (e) {}
  }
})();`
