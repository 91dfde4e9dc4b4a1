// Package backup snapshots the local SQLite delivery history.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/slackfeedback/internal/logger"
)

const (
	// MaxBackups is the number of snapshots kept after rotation
	MaxBackups = 14
	// DirName is the snapshot directory, next to the database
	DirName = "backups"

	filePrefix = "history-"
	fileSuffix = ".db"
	timeLayout = "20060102-150405"
)

// ErrNoDatabase is returned when the history file does not exist yet.
var ErrNoDatabase = errors.New("history database does not exist")

// Info describes one snapshot.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles snapshots of one database file.
type Manager struct {
	dbPath    string
	backupDir string
	now       func() time.Time
}

// NewManager creates a manager that keeps snapshots in a backups directory
// beside dbPath.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), DirName),
		now:       time.Now,
	}
}

// Dir returns the snapshot directory.
func (m *Manager) Dir() string { return m.backupDir }

// CreateBackup writes a consistent copy of the database and rotates old
// snapshots.
func (m *Manager) CreateBackup(ctx context.Context) (string, error) {
	path, err := m.create(ctx)
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) create(ctx context.Context) (string, error) {
	if _, err := os.Stat(m.dbPath); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}

	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return "", fmt.Errorf("failed to open history: %w", err)
	}
	defer func() { _ = src.Close() }()

	if err := verify(ctx, src); err != nil {
		return "", fmt.Errorf("history database appears to be corrupted: %w", err)
	}
	if _, err := src.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		// Older SQLite builds lack VACUUM INTO.
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		if err := copyFile(m.dbPath, path); err != nil {
			return "", fmt.Errorf("failed to back up history: %w", err)
		}
	}
	logger.Info("Created history backup", "path", path)
	return path, nil
}

// nextPath picks an unused snapshot name for the current second.
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timeLayout)
	path := filepath.Join(m.backupDir, filePrefix+stamp+fileSuffix)
	for n := 1; n <= 100; n++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", filePrefix, stamp, n, fileSuffix))
	}
	return "", errors.New("failed to generate unique backup filename")
}

// ListBackups returns snapshots newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		// Drop a collision counter.
		if len(stamp) > len(timeLayout) {
			stamp = stamp[:len(timeLayout)]
		}
		ts, err := time.ParseInLocation(timeLayout, stamp, time.Local)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func (m *Manager) rotate() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces the database with a snapshot. The current database
// is snapshotted first, without rotation, so the restore can be undone.
func (m *Manager) RestoreBackup(ctx context.Context, backupPath string) error {
	db, err := sql.Open("sqlite", backupPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	err = verify(ctx, db)
	_ = db.Close()
	if err != nil {
		return fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(m.dbPath); err == nil {
		current, err := m.create(ctx)
		if err != nil {
			return fmt.Errorf("failed to back up current history before restore: %w", err)
		}
		logger.Info("Saved current history before restore", "path", current)
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return fmt.Errorf("failed to copy backup: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to restore history: %w", err)
	}
	return nil
}

func verify(ctx context.Context, db *sql.DB) error {
	var n int
	return db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := out.ReadFrom(in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
