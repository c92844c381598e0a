// Package browser drives Chrome through chromedp.
//
// A Browser implements crawler.Fetcher. Every Fetch opens a fresh tab in one
// shared browser process, so several mission pages can load at once while
// sharing cookies. Persisted cookies are restored once at start; local
// storage is replayed into every tab by an init script before the page's
// own scripts run.
//
// A Launcher implements auth.Launcher. It opens a visible window the
// operator logs in with and snapshots cookies and local storage afterwards.
package browser
