package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileSessionStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileSessionStore(path)

	if _, ok, err := store.Get(SessionTokenKey); err != nil || ok {
		t.Fatalf("expected empty store, got %v,%v", ok, err)
	}

	if err := store.Set(map[string]string{SessionTokenKey: "abc", SessionExpiryKey: "42"}, time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat session file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	reopened := NewFileSessionStore(path)
	val, ok, err := reopened.Get(SessionExpiryKey)
	if err != nil || !ok || val != "42" {
		t.Fatalf("expected expiry 42 after reopen, got %q,%v,%v", val, ok, err)
	}
}

func TestFileSessionStore_ClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileSessionStore(path)
	if err := store.Set(map[string]string{SessionTokenKey: "abc", SessionExpiryKey: "42"}, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := store.Clear(SessionTokenKey, SessionExpiryKey); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected session file removed, got %v", err)
	}
	if err := store.Clear(SessionTokenKey, SessionExpiryKey); err != nil {
		t.Fatalf("second clear should be no-op, got %v", err)
	}
}

func TestFileSessionStore_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewFileSessionStore(path)
	if _, _, err := store.Get(SessionTokenKey); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFileSessionStore_CorruptFileIsReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewFileSessionStore(path)

	if err := store.Clear(SessionTokenKey, SessionExpiryKey); err != nil {
		t.Fatalf("clear over corrupt file: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected corrupt file removed, got %v", err)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Set(map[string]string{SessionTokenKey: "tok"}, 0); err != nil {
		t.Fatalf("set over corrupt file: %v", err)
	}
	val, ok, err := store.Get(SessionTokenKey)
	if err != nil || !ok || val != "tok" {
		t.Fatalf("expected tok after overwrite, got %q,%v,%v", val, ok, err)
	}
}

func TestFileSessionStore_LogoutThenRenewOverCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	m := NewSessionManager(nil, NewFileSessionStore(path), nil, "/", time.Hour)

	if m.IsAuthenticated() {
		t.Fatalf("expected corrupt file to mean no session")
	}
	m.Logout()
	if err := m.Renew("tok", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("renew after logout: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatalf("expected renewed session to be valid")
	}
}
