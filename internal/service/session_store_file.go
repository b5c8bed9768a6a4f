package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const sessionAppDir = "docflow"

var errCorruptSessionFile = errors.New("session file corrupt")

// DefaultSessionFile devuelve ~/.config/docflow/session.json.
func DefaultSessionFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", sessionAppDir, "session.json"), nil
}

// fileSessionStore persiste la sesion en un JSON local. El archivo no tiene
// atributos de expiracion, asi que el ttl se ignora.
type fileSessionStore struct {
	mu   sync.Mutex
	path string
}

func NewFileSessionStore(path string) SessionStore {
	return &fileSessionStore{path: path}
}

func (s *fileSessionStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	val, ok := values[key]
	return val, ok, nil
}

func (s *fileSessionStore) Set(values map[string]string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.load()
	if errors.Is(err, errCorruptSessionFile) {
		current = make(map[string]string)
	} else if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}
	return s.save(current)
}

func (s *fileSessionStore) Clear(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.load()
	if errors.Is(err, errCorruptSessionFile) {
		return s.remove()
	}
	if err != nil {
		return err
	}
	changed := false
	for _, k := range keys {
		if _, ok := current[k]; ok {
			delete(current, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if len(current) == 0 {
		return s.remove()
	}
	return s.save(current)
}

func (s *fileSessionStore) remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *fileSessionStore) load() (map[string]string, error) {
	values := make(map[string]string)
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&values); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errCorruptSessionFile, s.path, err)
	}
	return values, nil
}

// save escribe en un temporal y renombra para que un lector nunca vea el
// token nuevo con la expiracion vieja.
func (s *fileSessionStore) save(values map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(values); err != nil {
		tmp.Close()
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
