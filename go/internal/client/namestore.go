package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const nameFileName = "player_name"

// NameStore persists the local player's display name between sessions. All
// failures here are non-fatal: a missing or unreadable file falls back to an
// empty name.
type NameStore struct {
	path string
}

// NewNameStore creates a store at path, or at the default location under the
// user config dir when path is empty.
func NewNameStore(path string) *NameStore {
	if path == "" {
		path = defaultNamePath()
	}
	return &NameStore{path: path}
}

func defaultNamePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rangebomb", nameFileName)
}

// Load returns the saved name, or "" when none is saved.
func (n *NameStore) Load() (string, error) {
	if n.path == "" {
		return "", nil
	}
	data, err := os.ReadFile(n.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read player name: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the name, creating the directory if needed.
func (n *NameStore) Save(name string) error {
	if n.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(n.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(n.path, []byte(name+"\n"), 0o644); err != nil {
		return fmt.Errorf("write player name: %w", err)
	}
	return nil
}
