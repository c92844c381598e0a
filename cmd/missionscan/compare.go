package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/missionscan/internal/config"
	"github.com/nao1215/missionscan/internal/database"
	"github.com/nao1215/missionscan/internal/model"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the latest scan with an earlier one",
		Long: `Compare shows what changed between two recorded scans of the same site.

Every scan is recorded in the history database unless --no-history was given.
By default the latest scan is compared with the one before it:
- sessions and missions that appeared or disappeared
- missions whose title, requirements, reward, goals or status changed

Examples:
  # Compare the latest two scans
  missionscan compare

  # List recorded scans
  missionscan compare --list

  # Compare the latest scan with scan 3
  missionscan compare --with-scan-id 3

  # Output the comparison as JSON or Markdown
  missionscan compare --json
  missionscan compare --markdown`,
		Args: cobra.NoArgs,
		RunE: runCompareCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .missionscan in current, XDG config or home directory)")
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Site scheme and host the scans were taken from")
	cmd.Flags().String("index-path", config.DefaultIndexPath,
		"Session listing path the scans were taken from")
	addHistoryFlags(cmd)

	cmd.Flags().BoolP("list", "l", false,
		"List recorded scans")
	cmd.Flags().Int64P("with-scan-id", "i", 0,
		"Compare the latest scan with this scan (use --list to see ids)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the comparison in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the comparison in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	list, err := flags.GetBool("list")
	if err != nil {
		return err
	}
	withScanID, err := flags.GetInt64("with-scan-id")
	if err != nil {
		return err
	}
	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return errors.New("--json and --markdown cannot be used together")
	}

	db, err := database.Open(cfg.HistoryFile, database.Options{EnableWAL: true})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w (run 'missionscan scan' first)", err)
		}
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if list {
		return listScans(ctx, out, db, cfg.SourceRoot())
	}

	result, err := runComparison(ctx, db, cfg.SourceRoot(), withScanID)
	if err != nil {
		return err
	}

	switch {
	case jsonOutput:
		return outputComparisonJSON(out, result)
	case markdownOutput:
		return outputComparisonMarkdown(out, result)
	default:
		outputComparisonText(out, result)
		return nil
	}
}

// listScans prints the recorded scans of sourceRoot, newest first.
func listScans(ctx context.Context, w io.Writer, db *database.HistoryDB, sourceRoot string) error {
	scans, err := db.ListScans(ctx, sourceRoot)
	if err != nil {
		return err
	}

	if len(scans) == 0 {
		fmt.Fprintf(w, "No scans recorded for %s\n", sourceRoot)
		return nil
	}

	fmt.Fprintf(w, "Scans of %s (%d):\n\n", sourceRoot, len(scans))
	fmt.Fprintf(w, "  %-6s  %-20s  %-8s  %-8s  %s\n", "ID", "Generated", "Sessions", "Missions", "Status")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 60))
	for _, s := range scans {
		status := "complete"
		if !s.Complete {
			status = "partial"
		}
		fmt.Fprintf(w, "  %-6d  %-20s  %-8d  %-8d  %s\n", s.ID, s.GeneratedAt, s.Sessions, s.Missions, status)
	}
	return nil
}

// runComparison loads the latest scan and the one to compare it with.
// withScanID 0 picks the scan before the latest.
func runComparison(ctx context.Context, db *database.HistoryDB, sourceRoot string, withScanID int64) (*comparisonResult, error) {
	scans, err := db.ListScans(ctx, sourceRoot)
	if err != nil {
		return nil, err
	}
	if len(scans) == 0 {
		return nil, fmt.Errorf("no scans recorded for %s", sourceRoot)
	}

	currentID := scans[0].ID
	var previousID int64
	switch {
	case withScanID != 0:
		idx := slices.IndexFunc(scans, func(s database.ScanMetadata) bool { return s.ID == withScanID })
		if idx < 0 {
			return nil, fmt.Errorf("scan %d not found for %s", withScanID, sourceRoot)
		}
		if withScanID == currentID {
			return nil, fmt.Errorf("scan %d is the latest scan; pick an earlier one", withScanID)
		}
		previousID = withScanID
	case len(scans) < 2:
		return nil, fmt.Errorf("at least 2 scans are required for comparison (found %d)", len(scans))
	default:
		previousID = scans[1].ID
	}

	previous, err := db.GetScan(ctx, previousID)
	if err != nil {
		return nil, err
	}
	current, err := db.GetScan(ctx, currentID)
	if err != nil {
		return nil, err
	}
	if previous == nil || current == nil {
		return nil, fmt.Errorf("scan %d or %d disappeared from %s", previousID, currentID, db.Path())
	}

	result := compareDocuments(previous, current)
	result.Previous.ID = previousID
	result.Current.ID = currentID
	return result, nil
}

// comparisonResult holds the differences between two documents.
type comparisonResult struct {
	SourceRoot string   `json:"sourceRoot"`
	Previous   scanInfo `json:"previous"`
	Current    scanInfo `json:"current"`

	AddedSessions   []string        `json:"addedSessions,omitempty"`
	RemovedSessions []string        `json:"removedSessions,omitempty"`
	AddedMissions   []missionRef    `json:"addedMissions,omitempty"`
	RemovedMissions []missionRef    `json:"removedMissions,omitempty"`
	ChangedMissions []missionChange `json:"changedMissions,omitempty"`

	// UnchangedCount counts missions present and equal in both scans.
	UnchangedCount int `json:"unchangedCount"`
}

// scanInfo summarizes one side of a comparison.
type scanInfo struct {
	ID             int64  `json:"id"`
	GeneratedAt    string `json:"generatedAt"`
	Sessions       int    `json:"sessions"`
	Missions       int    `json:"missions"`
	Goals          int    `json:"goals"`
	GoalsCompleted int    `json:"goalsCompleted"`
}

// missionRef names a mission within its session.
type missionRef struct {
	Session string `json:"session"`
	ID      string `json:"id"`
	Title   string `json:"title"`
}

// missionChange lists the fields that differ for one mission.
type missionChange struct {
	missionRef
	Fields []string `json:"fields"`
}

func newScanInfo(doc *model.Document) scanInfo {
	info := scanInfo{
		GeneratedAt: doc.GeneratedAt,
		Sessions:    len(doc.Sessions),
		Missions:    doc.MissionCount(),
	}
	for _, s := range doc.Sessions {
		for _, m := range s.Missions {
			for _, g := range m.Goals {
				info.Goals++
				if g.IsCompleted {
					info.GoalsCompleted++
				}
			}
		}
	}
	return info
}

// compareDocuments matches sessions by id, and missions by id within a session.
func compareDocuments(previous, current *model.Document) *comparisonResult {
	result := &comparisonResult{
		SourceRoot: current.SourceRoot,
		Previous:   newScanInfo(previous),
		Current:    newScanInfo(current),
	}

	prevSessions := make(map[string]model.MissionSession, len(previous.Sessions))
	for _, s := range previous.Sessions {
		prevSessions[s.ID] = s
	}

	seen := make(map[string]bool, len(current.Sessions))
	for _, cur := range current.Sessions {
		seen[cur.ID] = true

		prev, ok := prevSessions[cur.ID]
		if !ok {
			result.AddedSessions = append(result.AddedSessions, cur.ID)
		}
		compareMissions(result, cur.ID, prev.Missions, cur.Missions)
	}

	for _, prev := range previous.Sessions {
		if seen[prev.ID] {
			continue
		}
		result.RemovedSessions = append(result.RemovedSessions, prev.ID)
		for _, m := range prev.Missions {
			result.RemovedMissions = append(result.RemovedMissions, missionRef{prev.ID, m.ID, m.Title})
		}
	}

	return result
}

func compareMissions(result *comparisonResult, session string, previous, current []model.Mission) {
	prevMissions := make(map[string]model.Mission, len(previous))
	for _, m := range previous {
		prevMissions[m.ID] = m
	}

	seen := make(map[string]bool, len(current))
	for _, cur := range current {
		seen[cur.ID] = true
		ref := missionRef{session, cur.ID, cur.Title}

		prev, ok := prevMissions[cur.ID]
		if !ok {
			result.AddedMissions = append(result.AddedMissions, ref)
			continue
		}
		if fields := changedFields(prev, cur); len(fields) > 0 {
			result.ChangedMissions = append(result.ChangedMissions, missionChange{ref, fields})
			continue
		}
		result.UnchangedCount++
	}

	for _, prev := range previous {
		if !seen[prev.ID] {
			result.RemovedMissions = append(result.RemovedMissions, missionRef{session, prev.ID, prev.Title})
		}
	}
}

// changedFields names the user-visible fields that differ.
func changedFields(previous, current model.Mission) []string {
	var fields []string
	if previous.Title != current.Title {
		fields = append(fields, "title")
	}
	if previous.Requirements != current.Requirements {
		fields = append(fields, "requirements")
	}
	if previous.Reward != current.Reward {
		fields = append(fields, "reward")
	}
	if !slices.Equal(previous.Goals, current.Goals) {
		fields = append(fields, "goals")
	}
	if previous.Card.IsAvailable != current.Card.IsAvailable || previous.Card.IsCompleted != current.Card.IsCompleted {
		fields = append(fields, "status")
	}
	return fields
}

func outputComparisonJSON(w io.Writer, result *comparisonResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}

func outputComparisonMarkdown(w io.Writer, result *comparisonResult) error {
	md := markdown.NewMarkdown(w)

	md.H1("Scan Comparison")
	md.PlainText("")
	md.PlainTextf("Source: %s", result.SourceRoot)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Scan", "#" + strconv.FormatInt(result.Previous.ID, 10), "#" + strconv.FormatInt(result.Current.ID, 10), "-"},
			{"Generated", result.Previous.GeneratedAt, result.Current.GeneratedAt, "-"},
			countRow("Sessions", result.Previous.Sessions, result.Current.Sessions),
			countRow("Missions", result.Previous.Missions, result.Current.Missions),
			countRow("Goals completed", result.Previous.GoalsCompleted, result.Current.GoalsCompleted),
		},
	})
	md.PlainText("")

	if !result.hasChanges() {
		md.Note("No missions changed.")
		md.PlainText("")
		return md.Build()
	}

	writeRefs := func(title string, refs []missionRef) {
		if len(refs) == 0 {
			return
		}
		md.H2(fmt.Sprintf("%s (%d)", title, len(refs)))
		md.PlainText("")
		items := make([]string, len(refs))
		for i, r := range refs {
			items[i] = fmt.Sprintf("`%s/%s` %s", r.Session, r.ID, r.Title)
		}
		md.BulletList(items...)
		md.PlainText("")
	}
	writeRefs("Added Missions", result.AddedMissions)
	writeRefs("Removed Missions", result.RemovedMissions)

	if len(result.ChangedMissions) > 0 {
		md.H2(fmt.Sprintf("Changed Missions (%d)", len(result.ChangedMissions)))
		md.PlainText("")
		rows := make([][]string, len(result.ChangedMissions))
		for i, c := range result.ChangedMissions {
			rows[i] = []string{"`" + c.Session + "/" + c.ID + "`", c.Title, strings.Join(c.Fields, ", ")}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Mission", "Title", "Changed"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	return md.Build()
}

func outputComparisonText(w io.Writer, result *comparisonResult) {
	fmt.Fprintf(w, "Scan Comparison: %s\n", result.SourceRoot)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "\nPrevious scan: #%d %s\n", result.Previous.ID, result.Previous.GeneratedAt)
	fmt.Fprintf(w, "Current scan:  #%d %s\n\n", result.Current.ID, result.Current.GeneratedAt)

	fmt.Fprintf(w, "  %-16s  %-10s  %-10s  %s\n", "Metric", "Previous", "Current", "Change")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 50))
	for _, row := range [][]string{
		countRow("Sessions", result.Previous.Sessions, result.Current.Sessions),
		countRow("Missions", result.Previous.Missions, result.Current.Missions),
		countRow("Goals completed", result.Previous.GoalsCompleted, result.Current.GoalsCompleted),
	} {
		fmt.Fprintf(w, "  %-16s  %-10s  %-10s  %s\n", row[0], row[1], row[2], row[3])
	}

	for _, id := range result.AddedSessions {
		fmt.Fprintf(w, "\n[+] session %s", id)
	}
	for _, id := range result.RemovedSessions {
		fmt.Fprintf(w, "\n[-] session %s", id)
	}
	if len(result.AddedSessions)+len(result.RemovedSessions) > 0 {
		fmt.Fprintln(w)
	}

	if len(result.AddedMissions) > 0 {
		fmt.Fprintf(w, "\nAdded Missions (%d):\n", len(result.AddedMissions))
		for _, r := range result.AddedMissions {
			fmt.Fprintf(w, "  [+] %s/%s %s\n", r.Session, r.ID, r.Title)
		}
	}
	if len(result.RemovedMissions) > 0 {
		fmt.Fprintf(w, "\nRemoved Missions (%d):\n", len(result.RemovedMissions))
		for _, r := range result.RemovedMissions {
			fmt.Fprintf(w, "  [-] %s/%s %s\n", r.Session, r.ID, r.Title)
		}
	}
	if len(result.ChangedMissions) > 0 {
		fmt.Fprintf(w, "\nChanged Missions (%d):\n", len(result.ChangedMissions))
		for _, c := range result.ChangedMissions {
			fmt.Fprintf(w, "  [~] %s/%s %s (%s)\n", c.Session, c.ID, c.Title, strings.Join(c.Fields, ", "))
		}
	}

	fmt.Fprintf(w, "\nUnchanged: %d missions\n", result.UnchangedCount)
}

func (r *comparisonResult) hasChanges() bool {
	return len(r.AddedMissions)+len(r.RemovedMissions)+len(r.ChangedMissions)+
		len(r.AddedSessions)+len(r.RemovedSessions) > 0
}

func countRow(name string, previous, current int) []string {
	return []string{name, strconv.Itoa(previous), strconv.Itoa(current), formatDelta(current - previous)}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
