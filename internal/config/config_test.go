package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults change the on-disk layout other tools rely on, so they are pinned here.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	want := &Config{
		BaseURL:     "https://www.naruto-arena.site",
		IndexPath:   "/ninja-missions",
		StatePath:   "storageState.json",
		CacheDir:    "missions_html/sessions_html",
		OutputFile:  "missions_out/missions_out.json",
		ImagesDir:   "missions_out/images",
		HistoryFile: "missions_out/history.db",
		History:     true,
		SettleDelay: 300 * time.Millisecond,
		Timeout:     60 * time.Second,
		Concurrency: 1,
		Fetcher:     "chrome",
		Headless:    true,
		LogFormat:   "text",
	}
	if diff := cmp.Diff(want, NewConfig()); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigDerivedPaths(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if got := cfg.SourceRoot(); got != "https://www.naruto-arena.site/ninja-missions" {
		t.Errorf("unexpected source root %q", got)
	}
	if got := cfg.ManifestFile(); got != filepath.Join("missions_out", "images", "manifest.json") {
		t.Errorf("unexpected manifest path %q", got)
	}
	if got := cfg.OutputDir(); got != "missions_out" {
		t.Errorf("unexpected output dir %q", got)
	}
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "zero settle delay is valid", modify: func(c *Config) { c.SettleDelay = 0 }},
		{name: "json log format is valid", modify: func(c *Config) { c.LogFormat = LogFormatJSON }},
		{name: "http base URL is valid", modify: func(c *Config) { c.BaseURL = "http://127.0.0.1:3000" }},
		{name: "relative base URL", modify: func(c *Config) { c.BaseURL = "naruto-arena.site" }, want: ErrInvalidBaseURL},
		{name: "ftp base URL", modify: func(c *Config) { c.BaseURL = "ftp://naruto-arena.site" }, want: ErrInvalidBaseURL},
		{name: "empty base URL", modify: func(c *Config) { c.BaseURL = "" }, want: ErrInvalidBaseURL},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, want: ErrInvalidTimeout},
		{name: "negative settle delay", modify: func(c *Config) { c.SettleDelay = -time.Millisecond }, want: ErrInvalidSettleDelay},
		{name: "zero concurrency", modify: func(c *Config) { c.Concurrency = 0 }, want: ErrInvalidConcurrency},
		{name: "empty output file", modify: func(c *Config) { c.OutputFile = "" }, want: ErrEmptyOutputFile},
		{name: "empty state path", modify: func(c *Config) { c.StatePath = "" }, want: ErrEmptyStatePath},
		{name: "empty history file", modify: func(c *Config) { c.HistoryFile = "" }, want: ErrEmptyHistoryFile},
		{name: "empty history file with history off", modify: func(c *Config) { c.HistoryFile = ""; c.History = false }},
		{name: "http fetcher is valid", modify: func(c *Config) { c.Fetcher = FetcherHTTP }},
		{name: "unknown fetcher", modify: func(c *Config) { c.Fetcher = "curl" }, want: ErrInvalidFetcher},
		{name: "unknown log format", modify: func(c *Config) { c.LogFormat = "xml" }, want: ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("empty file changes nothing", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		(&File{}).Apply(cfg)
		if diff := cmp.Diff(NewConfig(), cfg); diff != "" {
			t.Errorf("unexpected change (-want +got):\n%s", diff)
		}
	})

	t.Run("set fields override defaults", func(t *testing.T) {
		t.Parallel()

		headless := false
		history := false
		f := &File{
			BaseURL: "https://mirror.test/",
			State:   "auth/state.json",
			Output:  OutputSection{File: "out/doc.json", Summary: "out/summary.md"},
			History: HistorySection{File: "out/h.db", Enabled: &history},
			Browser: BrowserSection{Headless: &headless, NoSandbox: true},
			Crawl:   CrawlSection{Settle: time.Second, Concurrency: 4, Fetcher: FetcherHTTP},
		}

		cfg := NewConfig()
		f.Apply(cfg)

		if cfg.BaseURL != "https://mirror.test" {
			t.Errorf("expected trailing slash trimmed, got %q", cfg.BaseURL)
		}
		if cfg.StatePath != "auth/state.json" || cfg.OutputFile != "out/doc.json" || cfg.SummaryFile != "out/summary.md" {
			t.Errorf("paths not applied: %+v", cfg)
		}
		if cfg.History || cfg.HistoryFile != "out/h.db" {
			t.Error("history section not applied")
		}
		if cfg.Headless || !cfg.NoSandbox {
			t.Error("browser section not applied")
		}
		if cfg.SettleDelay != time.Second || cfg.Concurrency != 4 || cfg.Fetcher != FetcherHTTP {
			t.Error("crawl section not applied")
		}
		if cfg.ImagesDir != DefaultImagesDir || cfg.Timeout != DefaultTimeout {
			t.Error("unset fields must keep defaults")
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.missionscan")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".missionscan")
		content := `baseUrl: https://www.naruto-arena.site
state: storageState.json
output:
  file: missions_out/missions_out.json
  images: missions_out/images
browser:
  headless: false
  userAgent: "Mozilla/5.0 test"
crawl:
  settle: 500ms
  timeout: 90s
  concurrency: 2
  fetcher: http
logFormat: json
`
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.Browser.Headless == nil || *cf.Browser.Headless {
			t.Error("expected explicit headless false")
		}
		if cf.Crawl.Settle != 500*time.Millisecond || cf.Crawl.Timeout != 90*time.Second {
			t.Errorf("unexpected durations: %v %v", cf.Crawl.Settle, cf.Crawl.Timeout)
		}
		if cf.Crawl.Concurrency != 2 || cf.Crawl.Fetcher != "http" || cf.LogFormat != "json" || cf.Browser.UserAgent != "Mozilla/5.0 test" {
			t.Errorf("unexpected file: %+v", cf)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".missionscan")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if err == nil || !strings.Contains(err.Error(), configPath) {
			t.Errorf("expected parse error naming the file, got %v", err)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("state: s.json\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("prefers the current directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		configPath := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("state: s.json\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		got := FindConfigFile("")
		if filepath.Base(got) != DefaultConfigFile || filepath.Dir(got) == "" {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"config": XDGConfigDir(),
		"cache":  XDGCacheDir(),
	} {
		if filepath.Base(dir) != AppName {
			t.Errorf("%s dir %q does not end with %q", name, dir, AppName)
		}
	}
}
