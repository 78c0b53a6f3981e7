package storage

import (
	"errors"
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/keyring"
	"github.com/julianstephens/mantenix/internal/storage/postgres"
	"github.com/julianstephens/mantenix/internal/storage/sqlite"
)

func TestNewSelectsBackend(t *testing.T) {
	if _, ok := New(filepath.Join(t.TempDir(), "m.db")).(*sqlite.Store); !ok {
		t.Error("file path should select sqlite")
	}
	if _, ok := New("postgresql://mantenix@localhost/mantenix").(*postgres.Store); !ok {
		t.Error("postgresql:// should select postgres")
	}
}

func TestResolve(t *testing.T) {
	gokeyring.MockInit()
	t.Setenv(constants.DBConnectionEnvVar, "")

	path := filepath.Join(t.TempDir(), "m.db")
	if got, err := Resolve(path); err != nil || got != path {
		t.Errorf("Resolve(path) = %q, %v", got, err)
	}

	if _, err := Resolve("postgres://user:hunter2@db/mantenix"); !errors.Is(err, ErrEmbeddedCredentials) {
		t.Errorf("Resolve(with password) error = %v, want %v", err, ErrEmbeddedCredentials)
	}
	if _, err := Resolve("postgres://user@db/mantenix"); err != nil {
		t.Errorf("Resolve(without password) error = %v", err)
	}

	if _, err := Resolve(KeyringDSN); err == nil {
		t.Error("Resolve(keyring) with empty keyring should fail")
	}
	stored := "postgres://user:secret@db/mantenix"
	if err := keyring.SetConnectionString(stored); err != nil {
		t.Fatal(err)
	}
	if got, err := Resolve(KeyringDSN); err != nil || got != stored {
		t.Errorf("Resolve(keyring) = %q, %v", got, err)
	}

	t.Setenv(constants.DBConnectionEnvVar, "postgres://env:pw@db/mantenix")
	if got, _ := Resolve(path); got != "postgres://env:pw@db/mantenix" {
		t.Errorf("environment should override the flag, got %q", got)
	}
}
