package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use errors.Is().
var (
	// ErrInvalidBaseURL is returned when the base URL is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http or https URL")

	// ErrInvalidTimeout is returned when the navigation timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidSettleDelay is returned when the settle delay is negative.
	// Use 0 to read the page as soon as the body is ready.
	ErrInvalidSettleDelay = errors.New("invalid settle delay: must be non-negative")

	// ErrInvalidConcurrency is returned when fewer than one mission page
	// would be fetched at a time.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be at least 1")

	// ErrEmptyOutputFile is returned when no output document path is set.
	ErrEmptyOutputFile = errors.New("output file must not be empty")

	// ErrEmptyStatePath is returned when no storage state path is set.
	ErrEmptyStatePath = errors.New("storage state path must not be empty")

	// ErrEmptyHistoryFile is returned when history is enabled without a database path.
	ErrEmptyHistoryFile = errors.New("history file must not be empty when history is enabled")

	// ErrInvalidFetcher is returned for a fetcher other than chrome or http.
	ErrInvalidFetcher = errors.New("invalid fetcher: must be chrome or http")

	// ErrInvalidLogFormat is returned for a log format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
