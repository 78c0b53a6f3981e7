package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/mantenix/internal/logger"
	"github.com/julianstephens/mantenix/internal/migration"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.Apply(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	prefs, err := s.GetPreferences()
	if err != nil {
		return err
	}
	return s.SavePreferences(prefs)
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'mantenix init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.Validate()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, sub, migration.SQLite), nil
}

func (s *Store) SchemaVersion() (int, int, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	current, err := runner.CurrentVersion()
	if err != nil {
		return 0, 0, err
	}
	latest, err := runner.LatestVersion()
	return current, latest, err
}

func (s *Store) GetConfigPath() string {
	return s.path
}

func (s *Store) GetPreferences() (models.Preferences, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Preferences{}, err
	}
	defer rows.Close()

	data := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Preferences{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Preferences{}, err
	}

	prefs := models.MapToPreferences(data)
	if prefs.PinnedPeople, err = s.GetPinned(); err != nil {
		return models.Preferences{}, err
	}
	models.ApplyDefaultPreferences(&prefs)
	return prefs, nil
}

// SavePreferences writes every setting and replaces the pinned list.
func (s *Store) SavePreferences(prefs models.Preferences) error {
	if err := models.ValidatePreferences(prefs); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for key, value := range models.PreferencesToMap(prefs) {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM pinned_people"); err != nil {
		return err
	}
	for i, name := range prefs.PinnedPeople {
		if _, err := tx.Exec("INSERT OR IGNORE INTO pinned_people (name, position) VALUES (?, ?)", name, i); err != nil {
			return fmt.Errorf("pin %s: %w", name, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetPinned() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM pinned_people ORDER BY position, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AddPinned appends name to the pinned list. Pinning twice is a no-op.
func (s *Store) AddPinned(name string) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO pinned_people (name, position)
		VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM pinned_people))
	`, name)
	return err
}

func (s *Store) RemovePinned(name string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM pinned_people WHERE name = ?", name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
