package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/missionscan/internal/auth"
	"github.com/nao1215/missionscan/internal/browser"
	"github.com/nao1215/missionscan/internal/config"
	"github.com/nao1215/missionscan/internal/crawler"
	"github.com/nao1215/missionscan/internal/log"
)

// setupLogger creates the sanitizing logger for cfg and installs it as the default.
func setupLogger(cfg *config.Config) *slog.Logger {
	logger := log.New(os.Stderr, log.Options{
		Verbose: cfg.Verbose,
		Format:  cfg.LogFormat,
	})
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// browserOptions maps cfg onto browser settings.
func browserOptions(cfg *config.Config, logger *slog.Logger) []browser.Option {
	return []browser.Option{
		browser.WithHeadless(cfg.Headless),
		browser.WithNoSandbox(cfg.NoSandbox),
		browser.WithUserAgent(cfg.UserAgent),
		browser.WithExecPath(cfg.ExecPath),
		browser.WithTimeout(cfg.Timeout),
		browser.WithLogger(logger),
	}
}

// siteRoot is the page the login window opens.
func siteRoot(cfg *config.Config) string {
	return strings.TrimRight(cfg.BaseURL, "/") + "/"
}

// newAuthManager wires the login flow to a visible browser and the terminal.
// Prompts go to stderr so stdout stays clean for command output.
func newAuthManager(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) *auth.Manager {
	return auth.NewManager(cfg.StatePath, siteRoot(cfg),
		auth.WithLauncher(browser.NewLauncher(browserOptions(cfg, logger)...)),
		auth.WithConfirmer(auth.NewTerminalConfirmer(cmd.InOrStdin())),
		auth.WithOutput(cmd.ErrOrStderr()),
		auth.WithLogger(logger),
	)
}

// lazyBrowser starts Chrome on the first Fetch.
// Discovery from cached pages then never launches a browser.
type lazyBrowser struct {
	opts []browser.Option

	mu      sync.Mutex
	browser *browser.Browser
}

func newLazyBrowser(opts ...browser.Option) *lazyBrowser {
	return &lazyBrowser{opts: opts}
}

// Fetch implements crawler.Fetcher.
func (l *lazyBrowser) Fetch(ctx context.Context, pageURL string, settle time.Duration) (*crawler.Page, error) {
	b, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return b.Fetch(ctx, pageURL, settle)
}

func (l *lazyBrowser) get(ctx context.Context) (*browser.Browser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.browser == nil {
		b, err := browser.New(ctx, l.opts...)
		if err != nil {
			return nil, err
		}
		l.browser = b
	}
	return l.browser, nil
}

// Close stops Chrome if it was started.
func (l *lazyBrowser) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.browser == nil {
		return nil
	}
	return l.browser.Close()
}

// pageFetcher is a crawler.Fetcher holding resources until Close.
type pageFetcher interface {
	crawler.Fetcher
	Close() error
}

// newFetcher builds the fetcher cfg selects. state may be nil.
func newFetcher(cfg *config.Config, state *auth.StorageState, logger *slog.Logger) (pageFetcher, error) {
	if cfg.Fetcher == config.FetcherHTTP {
		f, err := crawler.NewHTTPFetcher(cfg.Timeout,
			crawler.WithHTTPUserAgent(cfg.UserAgent),
			crawler.WithCookies(siteRoot(cfg), state.HTTPCookies()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP fetcher: %w", err)
		}
		return f, nil
	}

	opts := browserOptions(cfg, logger)
	if state != nil {
		opts = append(opts, browser.WithStorageState(state))
	}
	return newLazyBrowser(opts...), nil
}

// loadStateIfPresent returns the saved storage state, or nil when there is none.
func loadStateIfPresent(manager *auth.Manager) (*auth.StorageState, error) {
	status, err := manager.Status()
	if err != nil || status != auth.Authenticated {
		return nil, err
	}
	return auth.LoadState(manager.StatePath())
}

// newDiscoverer builds the session discoverer for cfg.
func newDiscoverer(fetcher crawler.Fetcher, cfg *config.Config, logger *slog.Logger) *crawler.Discoverer {
	return crawler.NewDiscoverer(fetcher,
		crawler.WithDiscoveryBaseURL(cfg.BaseURL),
		crawler.WithIndexPath(cfg.IndexPath),
		crawler.WithCacheDir(cfg.CacheDir),
		crawler.WithDiscoveryLogger(logger),
	)
}
