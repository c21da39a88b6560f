package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Storage persists the token pair as a small JSON file, by default
// ~/.taskdeck/session.json with 0600 permissions.
type Storage struct {
	path string
}

type storedTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// NewStorage returns storage rooted in the user's home directory.
func NewStorage() (*Storage, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}
	return &Storage{path: filepath.Join(home, ".taskdeck", "session.json")}, nil
}

// NewStorageAt returns storage backed by an explicit file path.
func NewStorageAt(path string) *Storage {
	return &Storage{path: path}
}

// Load reads the stored token pair. A missing file is not an error; it just
// means no session was saved.
func (st *Storage) Load() (access, refresh string, err error) {
	data, err := os.ReadFile(st.path)
	if os.IsNotExist(err) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("read session file: %w", err)
	}
	var tokens storedTokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return "", "", fmt.Errorf("parse session file: %w", err)
	}
	return tokens.AccessToken, tokens.RefreshToken, nil
}

// Save writes the token pair, creating the parent directory when needed.
func (st *Storage) Save(access, refresh string) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(storedTokens{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(st.path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear removes the session file. Removing an already-absent file succeeds.
func (st *Storage) Clear() error {
	if err := os.Remove(st.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Path returns the backing file path.
func (st *Storage) Path() string {
	return st.path
}
