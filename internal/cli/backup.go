package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/slackfeedback/internal/backup"
	"github.com/julianstephens/slackfeedback/internal/history"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the delivery history." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List history snapshots."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the delivery history with a snapshot."`
}

// backupManager returns a manager for the SQLite history file.
func backupManager(ctx *Context) (*backup.Manager, error) {
	dsn := ctx.Config.HistoryDSN()
	if history.IsPostgres(dsn) {
		return nil, errors.New("backups are only available for SQLite history; use pg_dump for PostgreSQL")
	}
	return backup.NewManager(kong.ExpandPath(dsn)), nil
}

type BackupCreateCmd struct{}

func (cmd *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	path, err := mgr.CreateBackup(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "✓ Backup created: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (cmd *BackupListCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintf(ctx.out(), "No backups in %s\n", mgr.Dir())
		return nil
	}
	for _, b := range backups {
		fmt.Fprintf(ctx.out(), "%s  %8.1f KB  %s\n",
			b.Timestamp.Format("2006-01-02 15:04:05"), float64(b.Size)/1024, filepath.Base(b.Path))
	}
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Snapshot file name or path."`
}

func (cmd *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	path := cmd.File
	if !filepath.IsAbs(path) && filepath.Dir(path) == "." {
		path = filepath.Join(mgr.Dir(), path)
	}
	if err := mgr.RestoreBackup(context.Background(), path); err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "✓ History restored from %s\n", filepath.Base(path))
	return nil
}
