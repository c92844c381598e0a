package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/missionscan/internal/model"
)

// SessionSource lists the session ids to crawl.
// *crawler.Discoverer implements it.
type SessionSource interface {
	Discover(ctx context.Context) ([]string, error)
}

// SessionCrawler crawls sessions in order, emitting each one as it completes.
// *crawler.Crawler implements it.
type SessionCrawler interface {
	CrawlAll(ctx context.Context, ids []string, emit func(model.MissionSession)) error
}

// DiscoverStep fills Run.SessionIDs.
type DiscoverStep struct {
	source SessionSource
	logger *slog.Logger
}

// NewDiscoverStep creates a step that reads session ids from source.
func NewDiscoverStep(source SessionSource, logger *slog.Logger) *DiscoverStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoverStep{source: source, logger: logger}
}

// Name returns the step name.
func (s *DiscoverStep) Name() string {
	return "discover"
}

// Do executes the discovery step. An empty list is not an error; the
// document is then written with no sessions.
func (s *DiscoverStep) Do(ctx context.Context, run *Run) error {
	ids, err := s.source.Discover(ctx)
	if err != nil {
		return fmt.Errorf("failed to discover sessions: %w", err)
	}
	if len(ids) == 0 {
		s.logger.Warn("no sessions discovered")
	}
	run.SessionIDs = ids
	return nil
}

// CrawlStep appends one MissionSession per id to Run.Document.
type CrawlStep struct {
	crawler SessionCrawler
}

// NewCrawlStep creates a step that crawls with c.
func NewCrawlStep(c SessionCrawler) *CrawlStep {
	return &CrawlStep{crawler: c}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step. Sessions completed before a failure stay
// in the document.
func (s *CrawlStep) Do(ctx context.Context, run *Run) error {
	return s.crawler.CrawlAll(ctx, run.SessionIDs, run.Document.AddSession)
}
