package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// spinnerProgress shows the current session and mission on a spinner line.
// It implements crawler.Progress. A disabled spinnerProgress does nothing.
type spinnerProgress struct {
	spinner *spinner.Spinner
	session string
}

// newSpinnerProgress returns a progress display on w. It is disabled when
// w is not a terminal or when verbose logs would interleave with it.
func newSpinnerProgress(w io.Writer, verbose bool) *spinnerProgress {
	if verbose || !isTerminal(w) {
		return &spinnerProgress{}
	}
	return &spinnerProgress{
		spinner: spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w)),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// SessionStarted implements crawler.Progress.
func (p *spinnerProgress) SessionStarted(sessionID string, index, total int) {
	if p.spinner == nil {
		return
	}
	p.spinner.Lock()
	p.session = fmt.Sprintf("session %d/%d %s", index, total, sessionID)
	p.spinner.Suffix = " " + p.session
	p.spinner.Unlock()
	p.spinner.Start()
}

// MissionStarted implements crawler.Progress.
func (p *spinnerProgress) MissionStarted(_, missionID string, index, total int) {
	if p.spinner == nil {
		return
	}
	p.spinner.Lock()
	p.spinner.Suffix = fmt.Sprintf(" %s: mission %d/%d %s", p.session, index, total, missionID)
	p.spinner.Unlock()
}

// Stop clears the spinner line.
func (p *spinnerProgress) Stop() {
	if p.spinner != nil {
		p.spinner.Stop()
	}
}
