package config

import (
	"strings"
	"time"
)

// File represents the structure of the .missionscan configuration file.
// Every field is optional; unset fields leave the current value alone.
type File struct {
	// BaseURL overrides the site host.
	BaseURL string `yaml:"baseUrl,omitempty"`

	// IndexPath overrides the session listing path.
	IndexPath string `yaml:"indexPath,omitempty"`

	// State overrides the storage state path.
	State string `yaml:"state,omitempty"`

	// CacheDir overrides the saved listing directory.
	CacheDir string `yaml:"cacheDir,omitempty"`

	// Output holds output locations.
	Output OutputSection `yaml:"output,omitempty"`

	// History holds scan history settings.
	History HistorySection `yaml:"history,omitempty"`

	// Browser holds browser settings.
	Browser BrowserSection `yaml:"browser,omitempty"`

	// Crawl holds pacing settings.
	Crawl CrawlSection `yaml:"crawl,omitempty"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"logFormat,omitempty"`
}

// OutputSection is the output section of the configuration file.
type OutputSection struct {
	File    string `yaml:"file,omitempty"`
	Images  string `yaml:"images,omitempty"`
	Summary string `yaml:"summary,omitempty"`
}

// HistorySection is the history section of the configuration file.
type HistorySection struct {
	File string `yaml:"file,omitempty"`

	// Enabled is a pointer so an explicit false can be told apart from unset.
	Enabled *bool `yaml:"enabled,omitempty"`
}

// BrowserSection is the browser section of the configuration file.
type BrowserSection struct {
	// Headless is a pointer so an explicit false can be told apart from unset.
	Headless  *bool  `yaml:"headless,omitempty"`
	NoSandbox bool   `yaml:"noSandbox,omitempty"`
	UserAgent string `yaml:"userAgent,omitempty"`
	ExecPath  string `yaml:"execPath,omitempty"`
}

// CrawlSection is the crawl section of the configuration file.
type CrawlSection struct {
	Settle      time.Duration `yaml:"settle,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	Concurrency int           `yaml:"concurrency,omitempty"`
	Fetcher     string        `yaml:"fetcher,omitempty"`
}

// Apply copies every set field of the file onto cfg.
func (f *File) Apply(cfg *Config) {
	setString(&cfg.BaseURL, strings.TrimRight(f.BaseURL, "/"))
	setString(&cfg.IndexPath, f.IndexPath)
	setString(&cfg.StatePath, f.State)
	setString(&cfg.CacheDir, f.CacheDir)
	setString(&cfg.OutputFile, f.Output.File)
	setString(&cfg.ImagesDir, f.Output.Images)
	setString(&cfg.SummaryFile, f.Output.Summary)
	setString(&cfg.HistoryFile, f.History.File)
	setString(&cfg.UserAgent, f.Browser.UserAgent)
	setString(&cfg.ExecPath, f.Browser.ExecPath)
	setString(&cfg.LogFormat, f.LogFormat)
	setString(&cfg.Fetcher, f.Crawl.Fetcher)

	if f.History.Enabled != nil {
		cfg.History = *f.History.Enabled
	}
	if f.Browser.Headless != nil {
		cfg.Headless = *f.Browser.Headless
	}
	if f.Browser.NoSandbox {
		cfg.NoSandbox = true
	}
	if f.Crawl.Settle != 0 {
		cfg.SettleDelay = f.Crawl.Settle
	}
	if f.Crawl.Timeout != 0 {
		cfg.Timeout = f.Crawl.Timeout
	}
	if f.Crawl.Concurrency != 0 {
		cfg.Concurrency = f.Crawl.Concurrency
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
