package crawler

import "errors"

var (
	// ErrNoPageState is returned when a session page carries no state blob.
	// Session pages are always server rendered, so this means the site
	// layout changed and the run should stop.
	ErrNoPageState = errors.New("page has no embedded state")

	// ErrNoFetcher is returned when a crawler is used without a Fetcher.
	ErrNoFetcher = errors.New("no page fetcher configured")

	// ErrUnexpectedStatus is returned by HTTPFetcher for a non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)
