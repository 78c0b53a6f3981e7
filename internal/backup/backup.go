// Package backup snapshots the local SQLite preferences database.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/mantenix/internal/logger"
)

const (
	// DefaultKeep is how many snapshots survive a prune.
	DefaultKeep = 14
	DirName     = "backups"

	filePrefix = "mantenix-"
	fileSuffix = ".db"
	stampFmt   = "20060102-150405"
)

var ErrNoDatabase = errors.New("local database does not exist")

type Snapshot struct {
	Path      string
	Taken     time.Time
	SizeBytes int64
}

// Manager keeps snapshots in a backups directory next to the database.
type Manager struct {
	dbPath string
	dir    string
	keep   int
	now    func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), DirName),
		keep:   DefaultKeep,
		now:    time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a consistent copy of the database and prunes old snapshots.
func (m *Manager) Create() (Snapshot, error) {
	snap, err := m.create()
	if err != nil {
		return Snapshot{}, err
	}
	if err := m.Prune(m.keep); err != nil {
		logger.Warn("Failed to prune old backups", "dir", m.dir, "error", err)
	}
	return snap, nil
}

func (m *Manager) create() (Snapshot, error) {
	if _, err := os.Stat(m.dbPath); errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return Snapshot{}, fmt.Errorf("create backup directory: %w", err)
	}

	taken := m.now()
	name := filePrefix + taken.Format(stampFmt) + fileSuffix
	dest := filepath.Join(m.dir, name)
	if _, err := os.Stat(dest); err == nil {
		// Same-second snapshot: disambiguate without changing the sortable stamp.
		name = filePrefix + taken.Format(stampFmt) + "-" + uuid.NewString()[:8] + fileSuffix
		dest = filepath.Join(m.dir, name)
	}

	if err := vacuumInto(m.dbPath, dest); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot database: %w", err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		return Snapshot{}, err
	}
	logger.Info("Created backup", "path", dest)
	return Snapshot{Path: dest, Taken: taken, SizeBytes: info.Size()}, nil
}

func vacuumInto(src, dest string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	if err := verify(db); err != nil {
		return fmt.Errorf("source database is unreadable: %w", err)
	}
	_, err = db.Exec("VACUUM INTO ?", dest)
	return err
}

func verify(db *sql.DB) error {
	var n int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

// parseName extracts the timestamp from a snapshot file name.
func parseName(name string) (time.Time, bool) {
	stamp, ok := strings.CutPrefix(name, filePrefix)
	if !ok {
		return time.Time{}, false
	}
	stamp, ok = strings.CutSuffix(stamp, fileSuffix)
	if !ok || len(stamp) < len(stampFmt) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(stampFmt, stamp[:len(stampFmt)], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// List returns snapshots newest first.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	snaps := []Snapshot{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		taken, ok := parseName(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		snaps = append(snaps, Snapshot{
			Path:      filepath.Join(m.dir, e.Name()),
			Taken:     taken,
			SizeBytes: info.Size(),
		})
	}
	sort.SliceStable(snaps, func(i, j int) bool {
		if snaps[i].Taken.Equal(snaps[j].Taken) {
			return snaps[i].Path > snaps[j].Path
		}
		return snaps[i].Taken.After(snaps[j].Taken)
	})
	return snaps, nil
}

// Prune removes all but the newest keep snapshots.
func (m *Manager) Prune(keep int) error {
	snaps, err := m.List()
	if err != nil {
		return err
	}
	if keep < 0 || len(snaps) <= keep {
		return nil
	}
	for _, s := range snaps[keep:] {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("remove old backup %s: %w", s.Path, err)
		}
	}
	return nil
}

// Restore replaces the database with path. The current database is
// snapshotted first, and the copy lands through a rename.
func (m *Manager) Restore(path string) (Snapshot, error) {
	if err := verifyFile(path); err != nil {
		return Snapshot{}, fmt.Errorf("backup %s is invalid: %w", path, err)
	}

	var previous Snapshot
	if _, err := os.Stat(m.dbPath); err == nil {
		snap, err := m.create()
		if err != nil {
			return Snapshot{}, fmt.Errorf("snapshot current database before restore: %w", err)
		}
		previous = snap
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return previous, fmt.Errorf("copy backup: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tmp, "error", rmErr)
		}
		return previous, fmt.Errorf("replace database: %w", err)
	}
	logger.Info("Restored backup", "from", path, "previous", previous.Path)
	return previous, nil
}

func verifyFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(db)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
