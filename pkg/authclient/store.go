package authclient

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// session is what survives between runs: the bearer token and a denormalized
// copy of the public user fields, kept so callers can show the identity
// without a round trip.
type session struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// Store persists the session as a JSON file. It plays the role localStorage
// plays for the browser client.
type Store struct {
	path string
}

func NewStore(path string) *Store { return &Store{path: path} }

// DefaultStorePath places the session file under the user config directory.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "empleadosauth", "session.json"), nil
}

// load returns the stored session; a missing or unreadable file is simply an
// empty session.
func (s *Store) load() *session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return &session{}
	}
	sess := &session{}
	if err := json.Unmarshal(data, sess); err != nil {
		return &session{}
	}
	return sess
}

func (s *Store) save(sess *session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	// 0600: the token is a credential
	return os.WriteFile(s.path, data, 0o600)
}

func (s *Store) clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
