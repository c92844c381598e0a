package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/missionscan/internal/model"
)

// SimpleWriter outputs a short plain-text summary for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose lists every mission under its session.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose lists every mission in the summary.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary.
func (w *SimpleWriter) Write(doc *model.Document) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generated %s from %s\n", doc.GeneratedAt, doc.SourceRoot)
	fmt.Fprintf(&sb, "%d sessions, %d missions\n", len(doc.Sessions), doc.MissionCount())

	for _, s := range doc.Sessions {
		empty := 0
		for _, m := range s.Missions {
			if len(m.Goals) == 0 && m.Requirements == "" {
				empty++
			}
		}

		fmt.Fprintf(&sb, "  %-32s %3d missions", s.ID, len(s.Missions))
		if empty > 0 {
			fmt.Fprintf(&sb, " (%d without details)", empty)
		}
		sb.WriteString("\n")

		if !w.verbose {
			continue
		}
		for _, m := range s.Missions {
			fmt.Fprintf(&sb, "    - %s [%s] %s\n", m.Title, goalProgress(m.Goals), m.Reward)
		}
	}

	return io.WriteString(w.output, sb.String())
}
