package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/missionscan/internal/config"
)

// addSiteFlags registers the flags shared by every command that opens the site.
func addSiteFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .missionscan in current, XDG config or home directory)")
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Site scheme and host")
	cmd.Flags().StringP("state", "s", config.DefaultStatePath,
		"Storage state file holding the login session")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page load")
	cmd.Flags().String("fetcher", config.FetcherChrome,
		"Page fetcher: chrome renders pages, http reads server markup without a browser")
	cmd.Flags().Bool("headless", true,
		"Run the crawl browser without a window (login always shows one)")
	cmd.Flags().Bool("no-sandbox", false,
		"Disable the Chrome sandbox (needed as root in some containers)")
	cmd.Flags().String("user-agent", "",
		"Override the browser user agent")
	cmd.Flags().String("exec-path", "",
		"Path to the Chrome binary")
	cmd.Flags().String("log-format", config.LogFormatText,
		"Log format: text or json")
}

// addDiscoveryFlags registers the flags that pick the sessions to crawl.
func addDiscoveryFlags(cmd *cobra.Command) {
	cmd.Flags().String("cache-dir", config.DefaultCacheDir,
		"Directory of saved session pages (*.html) naming the sessions to crawl")
	cmd.Flags().String("index-path", config.DefaultIndexPath,
		"Session listing path used when the cache directory is empty")
}

// addHistoryFlags registers the scan history database flag.
func addHistoryFlags(cmd *cobra.Command) {
	cmd.Flags().String("history", config.DefaultHistoryFile,
		"SQLite database scans are recorded in")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file and
// the flags the user set, in increasing precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if flags.Lookup("config") != nil {
		cfg.ConfigFilePath, err = flags.GetString("config")
		if err != nil {
			return nil, err
		}
	}

	// An explicit path must exist; the default locations are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	fs := flagSet{flags: flags}
	fs.stringVar("base-url", &cfg.BaseURL)
	fs.stringVar("index-path", &cfg.IndexPath)
	fs.stringVar("state", &cfg.StatePath)
	fs.stringVar("cache-dir", &cfg.CacheDir)
	fs.stringVar("out", &cfg.OutputFile)
	fs.stringVar("images-dir", &cfg.ImagesDir)
	fs.stringVar("summary", &cfg.SummaryFile)
	fs.stringVar("user-agent", &cfg.UserAgent)
	fs.stringVar("exec-path", &cfg.ExecPath)
	fs.stringVar("log-format", &cfg.LogFormat)
	fs.stringVar("fetcher", &cfg.Fetcher)
	fs.durationVar("settle", &cfg.SettleDelay)
	fs.durationVar("timeout", &cfg.Timeout)
	fs.intVar("concurrency", &cfg.Concurrency)
	fs.boolVar("headless", &cfg.Headless)
	fs.boolVar("no-sandbox", &cfg.NoSandbox)
	fs.stringVar("history", &cfg.HistoryFile)
	var noHistory bool
	fs.boolVar("no-history", &noHistory)
	if noHistory {
		cfg.History = false
	}
	if fs.err != nil {
		return nil, fs.err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// flagSet copies flags the user changed onto config fields.
// Flags a command does not define are skipped.
type flagSet struct {
	flags *pflag.FlagSet
	err   error
}

func (f *flagSet) changed(name string) bool {
	return f.err == nil && f.flags.Lookup(name) != nil && f.flags.Changed(name)
}

func (f *flagSet) stringVar(name string, dst *string) {
	if f.changed(name) {
		*dst, f.err = f.flags.GetString(name)
	}
}

func (f *flagSet) durationVar(name string, dst *time.Duration) {
	if f.changed(name) {
		*dst, f.err = f.flags.GetDuration(name)
	}
}

func (f *flagSet) intVar(name string, dst *int) {
	if f.changed(name) {
		*dst, f.err = f.flags.GetInt(name)
	}
}

func (f *flagSet) boolVar(name string, dst *bool) {
	if f.changed(name) {
		*dst, f.err = f.flags.GetBool(name)
	}
}
