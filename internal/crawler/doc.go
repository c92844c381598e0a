// Package crawler walks the mission site one page at a time and turns each
// page into model records.
//
// # Architecture
//
// The Crawler never talks to a browser directly. Pages come from a Fetcher,
// which the browser package implements with chromedp, HTTPFetcher implements
// with plain requests, and tests implement with an in-memory map. A Crawler only decides which URLs to visit and how
// to read them:
//
//   - FetchSession reads a session listing. A listing without a state blob
//     stops the run with ErrNoPageState.
//   - FetchMission reads a mission detail page. It never fails: structured
//     fields come first, then DOM heuristics, then a scan of the page text.
//   - CrawlSession combines both and returns one model.MissionSession.
//
// The Discoverer decides which sessions to crawl, preferring a local cache of
// saved session pages over the live index.
//
// # Ordering
//
// Missions are fetched one at a time by default. WithConcurrency allows
// several detail pages in flight; results are stored by card index so the
// output order never depends on completion order.
//
// # Usage
//
//	c := crawler.New(fetcher, crawler.WithBaseURL(cfg.BaseURL))
//	session, err := c.CrawlSession(ctx, "a-rank-missions")
package crawler
