package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/slackfeedback/internal/constants"
	"github.com/julianstephens/slackfeedback/internal/logger"
	"github.com/julianstephens/slackfeedback/internal/migration"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

func openPostgres(ctx context.Context, connStr string) (*Store, error) {
	if _, err := ValidateConnString(connStr); err != nil {
		return nil, err
	}
	connStr = withSearchPath(connStr)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+constants.AppName); err != nil {
		_ = db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(connStr) {
			return nil, fmt.Errorf("failed to create schema: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s := &Store{db: db, driver: migration.DriverPostgres}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// withSearchPath points unqualified table names at the application schema.
func withSearchPath(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		logger.Warn("Failed to parse Postgres connection string", "error", err)
		return connStr
	}
	q := u.Query()
	if q.Get("search_path") == "" {
		q.Set("search_path", constants.AppName)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// hasSSLMode checks if the connection URL carries an sslmode parameter (case-insensitive).
func hasSSLMode(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil {
		return false
	}
	for key := range u.Query() {
		if strings.EqualFold(key, "sslmode") {
			return true
		}
	}
	return false
}

// ValidateConnString checks that connStr is a PostgreSQL URL without an
// embedded password. Credentials belong in PGPASSWORD or ~/.pgpass.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if !IsPostgres(connStr) {
		return false, fmt.Errorf("%w: expected a postgres:// or postgresql:// URL", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	parsedURL, err := url.Parse(connStr)
	if err != nil {
		return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
	}
	if _, isSet := parsedURL.User.Password(); isSet {
		return false, ErrEmbeddedCredentials
	}
	if parsedURL.Host == "" && parsedURL.User == nil && (parsedURL.Path == "" || parsedURL.Path == "/") {
		return false, fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
	}
	return true, nil
}
