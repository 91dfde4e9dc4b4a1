// Package history keeps an audit log of feedback deliveries in SQLite or
// PostgreSQL.
package history

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/slackfeedback/internal/logger"
	"github.com/julianstephens/slackfeedback/internal/migration"
	"github.com/julianstephens/slackfeedback/internal/widget"
)

//go:embed migrations
var migrationsFS embed.FS

// sqliteTimeLayout is fixed width so text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotInitialized is returned by operations on a closed or unopened store.
var ErrNotInitialized = errors.New("history store is not initialized")

// Status is the outcome of a delivery.
type Status string

const (
	StatusSent  Status = "sent"
	StatusError Status = "error"
)

// Entry is one delivery attempt.
type Entry struct {
	ID        string
	CreatedAt time.Time
	Channel   string
	Category  string
	Author    string
	Email     string
	Status    Status
	Error     string
	ImageURL  string
	Payload   string
}

// FromOutcome converts a finished submission into an entry.
func FromOutcome(o widget.Outcome) (Entry, error) {
	body, err := json.Marshal(o.Payload)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to encode payload: %w", err)
	}

	e := Entry{
		ID:        o.SubmissionID,
		CreatedAt: o.At.UTC(),
		Channel:   o.Payload.Channel,
		Author:    o.Fields.Name,
		Email:     o.Fields.Email,
		Status:    StatusSent,
		Payload:   string(body),
	}
	if len(o.Payload.Attachments) > 0 {
		a := o.Payload.Attachments[0]
		e.Category = a.Title
		e.ImageURL = a.ImageURL
	}
	if o.Err != nil {
		e.Status = StatusError
		e.Error = o.Message
		if e.Error == "" {
			e.Error = o.Err.Error()
		}
	}
	return e, nil
}

// Store is a delivery log backed by database/sql.
type Store struct {
	db     *sql.DB
	driver migration.Driver
}

// IsPostgres reports whether dsn names a PostgreSQL database.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to dsn and applies the schema. A postgres:// or
// postgresql:// URL selects PostgreSQL; anything else is a SQLite file path.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if IsPostgres(dsn) {
		return openPostgres(ctx, dsn)
	}
	return openSQLite(ctx, dsn)
}

func openSQLite(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection avoids SQLITE_BUSY between the TUI and its commands.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, driver: migration.DriverSQLite}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sub, err := fs.Sub(migrationsFS, "migrations/"+string(s.driver))
	if err != nil {
		return fmt.Errorf("failed to access %s migrations: %w", s.driver, err)
	}
	runner, err := migration.NewRunner(s.db, sub, s.driver)
	if err != nil {
		return err
	}
	if _, err := runner.ApplyMigrations(func(msg string) { logger.Debug(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// rebind rewrites ? placeholders as $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != migration.DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record appends an entry.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if s == nil || s.db == nil {
		return ErrNotInitialized
	}
	if e.ID == "" {
		return errors.New("history entry has no id")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	var createdAt any = e.CreatedAt.UTC()
	if s.driver == migration.DriverSQLite {
		createdAt = e.CreatedAt.UTC().Format(sqliteTimeLayout)
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO deliveries (id, created_at, channel, category, author, email, status, error, image_url, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), e.ID, createdAt, e.Channel, e.Category, e.Author, e.Email, string(e.Status), e.Error, e.ImageURL, e.Payload)
	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotInitialized
	}

	query := `
		SELECT id, created_at, channel, category, author, email, status, error, image_url, payload
		FROM deliveries
		ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			created timestamp
			status  string
		)
		if err := rows.Scan(&e.ID, &created, &e.Channel, &e.Category, &e.Author, &e.Email, &status, &e.Error, &e.ImageURL, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		e.CreatedAt = time.Time(created)
		e.Status = Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// timestamp scans created_at from either dialect: PostgreSQL returns a
// time.Time, SQLite the stored RFC 3339 text.
type timestamp time.Time

func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = timestamp(v.UTC())
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *timestamp) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	*t = timestamp(parsed.UTC())
	return nil
}
