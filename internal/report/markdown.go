package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/missionscan/internal/model"
)

// MarkdownWriter outputs a browsable summary of the document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(doc *model.Document) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, doc)
	w.writeSessions(md, doc)
	for _, s := range doc.Sessions {
		w.writeMissions(md, s)
	}

	return len(md.String()), md.Build()
}

// writeHeader writes the title and run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, doc *model.Document) {
	md.H1("Mission Corpus")
	md.PlainText("")

	done, total := goalCounts(doc)
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", doc.SourceRoot},
			{"Generated", doc.GeneratedAt},
			{"Sessions", strconv.Itoa(len(doc.Sessions))},
			{"Missions", strconv.Itoa(doc.MissionCount())},
			{"Goals completed", strconv.Itoa(done) + "/" + strconv.Itoa(total)},
		},
	})
	md.PlainText("")

	if total > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Goal Progress"),
			piechart.WithShowData(true),
		)
		chart.LabelAndIntValue("Completed", uint64(done))
		chart.LabelAndIntValue("Open", uint64(total-done))

		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	if len(doc.Sessions) == 0 {
		md.Warningf("No sessions were crawled.")
		md.PlainText("")
	}
}

// writeSessions writes one row per session.
func (w *MarkdownWriter) writeSessions(md *markdown.Markdown, doc *model.Document) {
	if len(doc.Sessions) == 0 {
		return
	}

	md.H2("Sessions")
	md.PlainText("")

	rows := make([][]string, len(doc.Sessions))
	for i, s := range doc.Sessions {
		goals := 0
		for _, m := range s.Missions {
			goals += len(m.Goals)
		}
		rows[i] = []string{
			"`" + s.ID + "`",
			s.Title,
			strconv.Itoa(len(s.Missions)),
			strconv.Itoa(goals),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "Title", "Missions", "Goals"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeMissions writes the mission table of one session.
func (w *MarkdownWriter) writeMissions(md *markdown.Markdown, s model.MissionSession) {
	md.H3(s.Title)
	md.PlainText("")

	if len(s.Missions) == 0 {
		md.PlainText("No missions listed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(s.Missions))
	for i, m := range s.Missions {
		rows[i] = []string{
			m.Title,
			orDash(m.Requirements),
			orDash(m.Reward),
			goalProgress(m.Goals),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Mission", "Requirements", "Reward", "Goals"},
		Rows:   rows,
	})
	md.PlainText("")
}

// goalCounts returns completed and total goals across the document.
func goalCounts(doc *model.Document) (done, total int) {
	for _, s := range doc.Sessions {
		for _, m := range s.Missions {
			for _, g := range m.Goals {
				total++
				if g.IsCompleted {
					done++
				}
			}
		}
	}
	return done, total
}

// goalProgress renders "done/total" for a goal list.
func goalProgress(goals []model.Goal) string {
	if len(goals) == 0 {
		return "-"
	}
	done := 0
	for _, g := range goals {
		if g.IsCompleted {
			done++
		}
	}
	return strconv.Itoa(done) + "/" + strconv.Itoa(len(goals))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
