package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/missionscan/internal/model"
)

// createTestDocument creates a document with one session and two missions.
func createTestDocument() *model.Document {
	doc := model.NewDocument("https://www.naruto-arena.site/ninja-missions", time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local))
	doc.AddSession(model.MissionSession{
		ID:    "d-rank",
		Title: "D-Rank Missions",
		URL:   "https://www.naruto-arena.site/missions/d-rank",
		Image: &model.ImageRef{URL: "https://cdn.test/h.png", File: "missions_out/images/session__d-rank__h.png"},
		Missions: []model.Mission{
			{
				ID:           "cat-capture",
				Title:        "Cat Capture",
				Section:      "D-Rank Missions",
				Card:         model.MissionCard{CompletedRequirements: []any{}},
				Requirements: "Rank: At least Genin",
				Reward:       "Tora",
				Goals: []model.Goal{
					{Text: "Win 3 duels (3/3)", IsCompleted: true},
					{Text: "Use <Rasengan> & win (0/1)", IsCompleted: false},
				},
				Images: model.MissionImages{
					Reward: &model.ImageRef{URL: "https://cdn.test/tora.png", File: "missions_out/images/d-rank__cat-capture__reward__tora.png"},
				},
			},
			{
				ID:    "lost",
				Title: "Lost",
				Card:  model.MissionCard{CompletedRequirements: []any{}},
				Goals: []model.Goal{},
			},
		},
	})
	return doc
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes indented document with trailing newline", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestDocument())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		out := buf.String()
		if !strings.HasSuffix(out, "}\n") {
			t.Error("expected trailing newline")
		}
		if !strings.Contains(out, "\n  \"sourceRoot\"") {
			t.Error("expected two-space indentation")
		}
		if !strings.Contains(out, "Use <Rasengan> & win") {
			t.Error("expected HTML characters to be left unescaped")
		}

		var decoded model.Document
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.GeneratedAt != "2026-01-02 03:04:05" {
			t.Errorf("unexpected generatedAt: %q", decoded.GeneratedAt)
		}
	})

	t.Run("nil sessions encode as empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(&model.Document{SourceRoot: "root"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"sessions":[]`) {
			t.Errorf("expected empty sessions array, got %s", buf.String())
		}
	})

	t.Run("writes manifest", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteManifest(createTestDocument()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var refs []model.ImageRef
		if err := json.Unmarshal(buf.Bytes(), &refs); err != nil {
			t.Fatalf("manifest is not valid JSON: %v", err)
		}
		want := []model.ImageRef{
			{URL: "https://cdn.test/h.png", File: "missions_out/images/session__d-rank__h.png"},
			{URL: "https://cdn.test/tora.png", File: "missions_out/images/d-rank__cat-capture__reward__tora.png"},
		}
		if diff := cmp.Diff(want, refs); diff != "" {
			t.Errorf("manifest mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes session and mission tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestDocument()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{"# Mission Corpus", "## Sessions", "`d-rank`", "### D-Rank Missions", "Cat Capture", "1/2", "mermaid"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		doc := model.NewDocument("root", time.Now())
		if _, err := NewMarkdownWriter(&buf).Write(doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No sessions were crawled.") {
			t.Error("expected empty-run warning")
		}
		if strings.Contains(buf.String(), "## Sessions") {
			t.Error("expected no session table")
		}
	})
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("summarizes sessions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestDocument()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "1 sessions, 2 missions") {
			t.Errorf("expected totals, got %q", out)
		}
		if !strings.Contains(out, "(1 without details)") {
			t.Errorf("expected empty mission count, got %q", out)
		}
		if strings.Contains(out, "Cat Capture") {
			t.Error("expected missions to be listed only in verbose mode")
		}
	})

	t.Run("verbose lists missions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestDocument()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "- Cat Capture [1/2] Tora") {
			t.Errorf("expected mission line, got %q", buf.String())
		}
	})
}

// failingWriter always fails.
type failingWriter struct{}

func (failingWriter) Write(*model.Document) (int, error) {
	return 0, errors.New("disk full")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	n, err := NewMultiWriter(NewJSONWriter(&a), NewSimpleWriter(&b)).Write(createTestDocument())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != a.Len()+b.Len() {
		t.Errorf("expected %d bytes, got %d", a.Len()+b.Len(), n)
	}

	var c bytes.Buffer
	_, err = NewMultiWriter(failingWriter{}, NewJSONWriter(&c)).Write(createTestDocument())
	if err == nil {
		t.Error("expected error from failing writer")
	}
	if c.Len() != 0 {
		t.Error("expected writers after a failure to be skipped")
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("creates parents and truncates", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missions_out", "missions_out.json")
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte("old content that is longer"), 0o600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		err := WriteFile(path, func(f *os.File) error {
			_, err := NewJSONWriter(f).Write(&model.Document{SourceRoot: "r"})
			return err
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		want := `{"sourceRoot":"r","generatedAt":"","sessions":[]}` + "\n"
		if string(data) != want {
			t.Errorf("unexpected content: %q", data)
		}
	})

	t.Run("propagates write errors", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")
		path := filepath.Join(t.TempDir(), "out.json")
		if err := WriteFile(path, func(*os.File) error { return errBoom }); !errors.Is(err, errBoom) {
			t.Errorf("expected errBoom, got %v", err)
		}
	})

	t.Run("fails when parent is a file", func(t *testing.T) {
		t.Parallel()

		parent := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(parent, []byte("x"), 0o600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}
		if err := WriteFile(filepath.Join(parent, "out.json"), func(*os.File) error { return nil }); err == nil {
			t.Error("expected error")
		}
	})
}

func TestEnsureDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	out := filepath.Join(root, "missions_out")
	images := filepath.Join(out, "images")

	if err := EnsureDirs(out, "", images); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, dir := range []string{out, images} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s", dir)
		}
	}
}
