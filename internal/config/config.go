package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "missionscan"

	// DefaultBaseURL is the site every page is fetched from.
	DefaultBaseURL = "https://www.naruto-arena.site"

	// DefaultIndexPath is the listing page of all mission sessions.
	// It is also recorded as the source root of every document.
	DefaultIndexPath = "/ninja-missions"

	// DefaultStatePath is the storage state file holding the login session.
	DefaultStatePath = "storageState.json"

	// DefaultCacheDir holds saved session listing pages used to discover ids.
	DefaultCacheDir = "missions_html/sessions_html"

	// DefaultOutputFile is where the mission document is written.
	DefaultOutputFile = "missions_out/missions_out.json"

	// DefaultImagesDir is the directory image file names are relative to.
	// The manifest is written inside it.
	DefaultImagesDir = "missions_out/images"

	// DefaultHistoryFile is the SQLite database scans are recorded in.
	DefaultHistoryFile = "missions_out/history.db"

	// DefaultSettleDelay is how long a mission page is given to hydrate
	// after the body is ready.
	DefaultSettleDelay = 300 * time.Millisecond

	// DefaultTimeout bounds a single page navigation.
	DefaultTimeout = 60 * time.Second

	// DefaultConcurrency fetches mission pages one at a time.
	DefaultConcurrency = 1

	// LogFormatText selects the colored terminal log handler.
	LogFormatText = "text"

	// LogFormatJSON selects the JSON log handler.
	LogFormatJSON = "json"

	// FetcherChrome renders pages in headless Chrome.
	FetcherChrome = "chrome"

	// FetcherHTTP reads server-rendered markup with plain HTTP requests.
	FetcherHTTP = "http"
)

// Config holds all configuration options for missionscan.
// It is populated from defaults, the optional config file and CLI flags,
// in that order, and passed down explicitly.
type Config struct {
	// BaseURL is the scheme and host of the site, without a trailing slash.
	BaseURL string

	// IndexPath is the path of the session listing page.
	IndexPath string

	// StatePath is the storage state file written by login and loaded before a crawl.
	StatePath string

	// CacheDir holds saved session listing pages. When it contains no
	// *.html files the live index page is used instead.
	CacheDir string

	// OutputFile is the path of the mission document.
	OutputFile string

	// ImagesDir prefixes every image file name and holds manifest.json.
	ImagesDir string

	// SummaryFile is an optional Markdown summary path. Empty disables it.
	SummaryFile string

	// HistoryFile is the scan history database.
	HistoryFile string

	// History records every scan in HistoryFile.
	History bool

	// SettleDelay is waited after a mission page body is ready.
	SettleDelay time.Duration

	// Timeout bounds each navigation.
	Timeout time.Duration

	// Concurrency is the number of mission pages fetched at once per session.
	// Output order does not depend on it.
	Concurrency int

	// Fetcher is FetcherChrome or FetcherHTTP. Login always uses Chrome.
	Fetcher string

	// Headless runs the crawl browser without a window.
	// Login always uses a visible window.
	Headless bool

	// NoSandbox disables the Chrome sandbox, which is needed in some containers.
	NoSandbox bool

	// UserAgent overrides the browser user agent when set.
	UserAgent string

	// ExecPath points at a specific Chrome binary when set.
	ExecPath string

	// Verbose enables debug logging.
	Verbose bool

	// LogFormat is LogFormatText or LogFormatJSON.
	LogFormat string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the default search locations are used.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		IndexPath:   DefaultIndexPath,
		StatePath:   DefaultStatePath,
		CacheDir:    DefaultCacheDir,
		OutputFile:  DefaultOutputFile,
		ImagesDir:   DefaultImagesDir,
		HistoryFile: DefaultHistoryFile,
		History:     true,
		SettleDelay: DefaultSettleDelay,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		Fetcher:     FetcherChrome,
		Headless:    true,
		LogFormat:   LogFormatText,
	}
}

// SourceRoot returns the URL recorded as sourceRoot in the document.
func (c *Config) SourceRoot() string {
	return c.BaseURL + c.IndexPath
}

// ManifestFile returns the path of the image manifest.
func (c *Config) ManifestFile() string {
	return filepath.Join(c.ImagesDir, "manifest.json")
}

// OutputDir returns the directory holding the mission document.
func (c *Config) OutputDir() string {
	return filepath.Dir(c.OutputFile)
}

// XDGConfigDir returns the XDG config directory for missionscan.
// On Linux: ~/.config/missionscan
// On macOS: ~/Library/Application Support/missionscan
// On Windows: %APPDATA%\missionscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for missionscan.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.SettleDelay < 0 {
		return ErrInvalidSettleDelay
	}

	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}

	if c.OutputFile == "" {
		return ErrEmptyOutputFile
	}

	if c.StatePath == "" {
		return ErrEmptyStatePath
	}

	if c.History && c.HistoryFile == "" {
		return ErrEmptyHistoryFile
	}

	if c.Fetcher != FetcherChrome && c.Fetcher != FetcherHTTP {
		return ErrInvalidFetcher
	}

	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return ErrInvalidLogFormat
	}

	return nil
}
