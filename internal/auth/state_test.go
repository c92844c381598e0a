package auth

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadState(t *testing.T) {
	t.Parallel()

	t.Run("reads a storage state written by other tooling", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "storageState.json")
		content := `{
  "cookies": [
    {"name": "session", "value": "v", "domain": "www.arena.test", "path": "/",
     "expires": 1767225600.5, "httpOnly": true, "secure": true, "sameSite": "Strict"}
  ],
  "origins": [
    {"origin": "https://www.arena.test", "localStorage": [{"name": "k", "value": "v"}]}
  ]
}`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write state: %v", err)
		}

		got, err := LoadState(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := &StorageState{
			Cookies: []Cookie{{
				Name: "session", Value: "v", Domain: "www.arena.test", Path: "/",
				Expires: 1767225600.5, HTTPOnly: true, Secure: true, SameSite: "Strict",
			}},
			Origins: []OriginState{{
				Origin:       "https://www.arena.test",
				LocalStorage: []StorageRecord{{Name: "k", Value: "v"}},
			}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("LoadState() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadState(filepath.Join(t.TempDir(), "absent.json"))
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected fs.ErrNotExist, got %v", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
			t.Fatalf("failed to write state: %v", err)
		}
		if _, err := LoadState(path); err == nil {
			t.Error("expected error for malformed state")
		}
	})
}

func TestSaveStateEncodesEmptyArrays(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "s.json")
	if err := SaveState(path, &StorageState{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read state: %v", err)
	}
	if !strings.Contains(string(data), `"cookies": []`) || !strings.Contains(string(data), `"origins": []`) {
		t.Errorf("expected empty arrays, got %s", data)
	}
}

func TestStorageStateIsEmpty(t *testing.T) {
	t.Parallel()

	var nilState *StorageState
	if !nilState.IsEmpty() {
		t.Error("expected nil state to be empty")
	}
	if !(&StorageState{Origins: []OriginState{{Origin: "https://x.test"}}}).IsEmpty() {
		t.Error("expected origin without storage to be empty")
	}
	if sampleSnapshot().IsEmpty() {
		t.Error("expected sample snapshot to be non-empty")
	}
}
