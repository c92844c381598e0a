package browser

import (
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/nao1215/missionscan/internal/auth"
)

// DefaultTimeout bounds a single page load.
const DefaultTimeout = 60 * time.Second

// options holds settings shared by Browser and Launcher.
type options struct {
	headless  bool
	noSandbox bool
	userAgent string
	execPath  string
	timeout   time.Duration
	state     *auth.StorageState
	logger    *slog.Logger
}

// Option configures a Browser or Launcher.
type Option func(*options)

// WithHeadless toggles headless mode.
func WithHeadless(headless bool) Option {
	return func(o *options) {
		o.headless = headless
	}
}

// WithNoSandbox disables the Chrome sandbox, which some containers need.
func WithNoSandbox(noSandbox bool) Option {
	return func(o *options) {
		o.noSandbox = noSandbox
	}
}

// WithUserAgent overrides the browser User-Agent.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithExecPath sets the Chrome binary. Empty means search the PATH.
func WithExecPath(path string) Option {
	return func(o *options) {
		o.execPath = path
	}
}

// WithTimeout bounds each page load.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithStorageState restores cookies and local storage from a snapshot.
func WithStorageState(state *auth.StorageState) Option {
	return func(o *options) {
		o.state = state
	}
}

// WithLogger sets the logger. chromedp errors are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		headless: true,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// allocatorOptions translates o into chromedp exec allocator flags.
func (o *options) allocatorOptions() []chromedp.ExecAllocatorOption {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.Flag("headless", o.headless),
	)
	if o.noSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}
	if o.userAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(o.userAgent))
	}
	if o.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(o.execPath))
	}
	return allocOpts
}
