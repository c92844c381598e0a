package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// StorageState is a snapshot of browser cookies and local storage.
type StorageState struct {
	Cookies []Cookie      `json:"cookies"`
	Origins []OriginState `json:"origins"`
}

// Cookie is one browser cookie.
type Cookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
	Path   string `json:"path"`

	// Expires is seconds since the Unix epoch, or -1 for a session cookie.
	Expires float64 `json:"expires"`

	HTTPOnly bool   `json:"httpOnly"`
	Secure   bool   `json:"secure"`
	SameSite string `json:"sameSite,omitempty"`
}

// OriginState is the local storage of one origin.
type OriginState struct {
	Origin       string          `json:"origin"`
	LocalStorage []StorageRecord `json:"localStorage"`
}

// StorageRecord is one local storage entry.
type StorageRecord struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// IsEmpty reports whether the snapshot carries nothing worth saving.
func (s *StorageState) IsEmpty() bool {
	if s == nil {
		return true
	}
	if len(s.Cookies) > 0 {
		return false
	}
	for _, o := range s.Origins {
		if len(o.LocalStorage) > 0 {
			return false
		}
	}
	return true
}

// LoadState reads a state file. A missing file is returned as an error
// matching fs.ErrNotExist.
func LoadState(path string) (*StorageState, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, err
	}

	var state StorageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("invalid browser state file %s: %w", path, err)
	}
	return &state, nil
}

// SaveState writes state to path with owner-only permissions, creating
// parent directories as needed.
func SaveState(path string, state *StorageState) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	if state.Cookies == nil {
		state.Cookies = []Cookie{}
	}
	if state.Origins == nil {
		state.Origins = []OriginState{}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode browser state: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write browser state: %w", err)
	}
	return nil
}

// stateExists reports whether a state file is present at path.
func stateExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
