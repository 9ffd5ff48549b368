// session.go - Signed-in user, mirrored to a session file

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go-training-backend/models"

	"github.com/spf13/afero"
)

// SessionStorage persists the signed-in state between runs.
type SessionStorage interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Clear() error
}

// FileSessionStorage keeps the session in a single file on fs.
type FileSessionStorage struct {
	fs   afero.Fs
	path string
}

func NewFileSessionStorage(fs afero.Fs, path string) *FileSessionStorage {
	return &FileSessionStorage{fs: fs, path: path}
}

// Load returns nil data when no session has been saved.
func (s *FileSessionStorage) Load() ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) { // Never signed in
		return nil, nil
	}
	return data, err
}

func (s *FileSessionStorage) Save(data []byte) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return afero.WriteFile(s.fs, s.path, data, 0o600)
}

func (s *FileSessionStorage) Clear() error {
	err := s.fs.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

type sessionData struct {
	User  models.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

// Session holds the signed-in user and mirrors it to storage.
type Session struct {
	storage SessionStorage

	mu    sync.RWMutex
	user  *models.User
	token string
}

func NewSession(storage SessionStorage) *Session {
	return &Session{storage: storage}
}

// Restore loads the mirrored session. Unreadable data is cleared and the
// session starts signed out.
func (s *Session) Restore() error {
	data, err := s.storage.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.token = nil, ""
	if len(data) == 0 {
		return nil
	}

	var stored sessionData
	if err := json.Unmarshal(data, &stored); err != nil || stored.User.ID == "" {
		return s.storage.Clear() // Corrupt mirror: start signed out
	}
	stored.User.IsTrainer = models.IsTrainerRole(stored.User.Role)
	s.user, s.token = &stored.User, stored.Token
	return nil
}

// Login records user as signed in. The password is never mirrored.
func (s *Session) Login(user models.User, token string) error {
	user.Password = "" // Never written to disk
	user.IsTrainer = models.IsTrainerRole(user.Role)
	data, err := json.Marshal(sessionData{User: user, Token: token})
	if err != nil {
		return err
	}
	if err := s.storage.Save(data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.token = &user, token
	return nil
}

func (s *Session) Logout() error {
	s.mu.Lock()
	s.user, s.token = nil, ""
	s.mu.Unlock()
	return s.storage.Clear()
}

// User returns the signed-in user, if any.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsAuthenticated() bool {
	_, ok := s.User()
	return ok
}

func (s *Session) IsTrainer() bool {
	u, ok := s.User()
	return ok && u.IsTrainer
}
