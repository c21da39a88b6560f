package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskdeck/internal/session"
)

func testStore(t *testing.T) *session.Store {
	t.Helper()
	t.Setenv("TASKDECK_TOKEN", "")
	store := session.NewStore(session.NewStorageAt(filepath.Join(t.TempDir(), "session.json")))
	store.Restore()
	return store
}

func TestRunLogout_NotSignedIn(t *testing.T) {
	store := testStore(t)
	if err := runLogout(store); err != nil {
		t.Fatalf("runLogout() error: %v", err)
	}
}

func TestRunLogout_ClearsSession(t *testing.T) {
	store := testStore(t)

	claims := jwt.MapClaims{"id": "u-1", "email": "dev@example.com", "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SetTokens(tok, "refresh"); err != nil {
		t.Fatal(err)
	}
	if !store.Authenticated() {
		t.Fatal("precondition: store should be authenticated")
	}

	if err := runLogout(store); err != nil {
		t.Fatalf("runLogout() error: %v", err)
	}
	if store.Authenticated() {
		t.Error("session should be cleared after logout")
	}
	// Running it again is harmless.
	if err := runLogout(store); err != nil {
		t.Fatalf("second runLogout() error: %v", err)
	}
}
