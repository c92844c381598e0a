package pipeline

import (
	"time"

	"github.com/nao1215/missionscan/internal/model"
)

// Run is the state shared by the steps of one scan.
// It is owned by the goroutine calling Execute.
type Run struct {
	// Document is the output being assembled.
	Document *model.Document

	// SessionIDs are the sessions to crawl, in crawl order.
	SessionIDs []string

	// PerformedSteps lists the names of steps that ran, including a failed one.
	PerformedSteps []string

	// Err is the error that stopped the run, if any.
	Err error
}

// NewRun creates a Run with an empty document rooted at sourceRoot.
func NewRun(sourceRoot string, now time.Time) *Run {
	return &Run{
		Document:       model.NewDocument(sourceRoot, now),
		PerformedSteps: make([]string, 0),
	}
}
