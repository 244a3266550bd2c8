package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/slingshot/slingshot/internal/errors"
	"github.com/slingshot/slingshot/internal/logging"
	"github.com/slingshot/slingshot/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore provides SQLite-backed credential storage with WAL mode.
// It is thread-safe and supports concurrent access.
type SQLiteStore struct {
	db     *sql.DB
	logger *logging.Logger

	// Retention cleanup
	cleanupTicker *time.Ticker
	cleanupDone   chan struct{}
	retentionDays int
}

// NewSQLiteStore creates a new SQLite store with WAL mode enabled
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithRetention(dbPath, 30) // Default 30 days retention
}

// NewSQLiteStoreWithRetention creates a new SQLite store with custom retention
// for stale credentials. Expired OAuth states are always cleaned.
func NewSQLiteStoreWithRetention(dbPath string, retentionDays int) (*SQLiteStore, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &errors.ErrDirectoryCreate{Path: dir, Err: err}
		}
	}

	// Open database with WAL mode enabled
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)&_pragma=cache_size(2000)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, &errors.ErrDatabaseOpen{Path: dbPath, Err: err}
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &errors.ErrDatabaseOpen{Path: dbPath, Err: err}
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	store := &SQLiteStore{
		db:            db,
		logger:        logging.NewLogger(),
		cleanupDone:   make(chan struct{}),
		retentionDays: retentionDays,
	}

	store.startCleanup()

	return store, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	// Create migrations table if not exists
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return &errors.ErrDatabaseQuery{Operation: "create migrations table", Err: err}
	}

	// Get current migration version
	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return &errors.ErrDatabaseQuery{Operation: "get current migration version", Err: err}
	}

	// Define migrations
	migrations := []struct {
		version int
		up      string
	}{
		{
			version: 1,
			up: `
				CREATE TABLE IF NOT EXISTS credentials (
					user_id TEXT NOT NULL,
					provider TEXT NOT NULL,
					access_token TEXT NOT NULL,
					refresh_token TEXT NOT NULL DEFAULT '',
					expires_at DATETIME,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (user_id, provider)
				);

				CREATE TABLE IF NOT EXISTS oauth_states (
					state TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					expires_at DATETIME NOT NULL,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				);

				CREATE INDEX IF NOT EXISTS idx_oauth_states_expires_at ON oauth_states(expires_at);
				CREATE INDEX IF NOT EXISTS idx_credentials_updated_at ON credentials(updated_at);
			`,
		},
		{
			version: 2,
			up: `
				ALTER TABLE credentials ADD COLUMN scope TEXT NOT NULL DEFAULT '';
			`,
		},
	}

	// Run pending migrations
	tx, err := db.Begin()
	if err != nil {
		return &errors.ErrDatabaseQuery{Operation: "begin transaction", Err: err}
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, m := range migrations {
		if m.version > currentVersion {
			if _, err := tx.Exec(m.up); err != nil {
				return &errors.ErrDatabaseMigration{Version: m.version, Err: err}
			}
			if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
				return &errors.ErrDatabaseMigration{Version: m.version, Err: err}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return &errors.ErrDatabaseQuery{Operation: "commit migrations", Err: err}
	}

	return nil
}

// startCleanup starts the retention cleanup goroutine
func (s *SQLiteStore) startCleanup() {
	s.cleanupTicker = time.NewTicker(time.Hour)
	go func() {
		for {
			select {
			case <-s.cleanupTicker.C:
				s.cleanupOldData()
			case <-s.cleanupDone:
				return
			}
		}
	}()
}

// cleanupOldData removes expired OAuth states and stale credentials
func (s *SQLiteStore) cleanupOldData() {
	_, err := s.db.Exec("DELETE FROM oauth_states WHERE expires_at < ?", time.Now().UTC())
	if err != nil {
		s.logger.Error("cleanup failed", "table", "oauth_states", "error", err.Error())
	}

	if s.retentionDays <= 0 {
		return
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
	_, err = s.db.Exec("DELETE FROM credentials WHERE updated_at < ?", cutoff)
	if err != nil {
		s.logger.Error("cleanup failed", "table", "credentials", "error", err.Error())
	}
}

// Credential operations

// SetCredential stores or replaces the credential for a user and provider.
// Last write wins.
func (s *SQLiteStore) SetCredential(cred *models.Credential) error {
	updatedAt := cred.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	var expiresAt interface{}
	if cred.ExpiresAt != nil {
		expiresAt = cred.ExpiresAt.UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO credentials (user_id, provider, access_token, refresh_token, scope, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, provider) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			scope = excluded.scope,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`, cred.UserID, string(cred.Provider), cred.AccessToken, cred.RefreshToken, cred.Scope, expiresAt, updatedAt)
	if err != nil {
		return &errors.ErrDatabaseQuery{Operation: "set credential", Err: err}
	}
	return nil
}

// GetCredential retrieves the credential for a user and provider
func (s *SQLiteStore) GetCredential(userID string, provider models.Provider) (*models.Credential, bool) {
	row := s.db.QueryRow(`
		SELECT user_id, provider, access_token, refresh_token, scope, expires_at, updated_at
		FROM credentials WHERE user_id = ? AND provider = ?
	`, userID, string(provider))

	var cred models.Credential
	var providerStr string
	var expiresAt sql.NullTime
	err := row.Scan(&cred.UserID, &providerStr, &cred.AccessToken, &cred.RefreshToken, &cred.Scope, &expiresAt, &cred.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Error("credential lookup failed", "user_id", userID, "error", err.Error())
		}
		return nil, false
	}
	cred.Provider = models.Provider(providerStr)
	if expiresAt.Valid {
		t := expiresAt.Time
		cred.ExpiresAt = &t
	}
	return &cred, true
}

// DeleteCredential removes the credential for a user and provider
func (s *SQLiteStore) DeleteCredential(userID string, provider models.Provider) error {
	_, err := s.db.Exec("DELETE FROM credentials WHERE user_id = ? AND provider = ?", userID, string(provider))
	if err != nil {
		return &errors.ErrDatabaseQuery{Operation: "delete credential", Err: err}
	}
	return nil
}

// OAuth state operations

// PutOAuthState records a pending consent flow state bound to a user
func (s *SQLiteStore) PutOAuthState(state, userID string, expiresAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO oauth_states (state, user_id, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(state) DO UPDATE SET user_id = excluded.user_id, expires_at = excluded.expires_at
	`, state, userID, expiresAt.UTC())
	if err != nil {
		return &errors.ErrDatabaseQuery{Operation: "put oauth state", Err: err}
	}
	return nil
}

// TakeOAuthState consumes a state token, returning the bound user.
// A state can be taken at most once; expired states are rejected.
func (s *SQLiteStore) TakeOAuthState(state string) (string, bool) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", false
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var userID string
	var expiresAt time.Time
	err = tx.QueryRow("SELECT user_id, expires_at FROM oauth_states WHERE state = ?", state).Scan(&userID, &expiresAt)
	if err != nil {
		return "", false
	}

	if _, err := tx.Exec("DELETE FROM oauth_states WHERE state = ?", state); err != nil {
		return "", false
	}
	if err := tx.Commit(); err != nil {
		return "", false
	}

	if time.Now().After(expiresAt) {
		return "", false
	}
	return userID, true
}

// Management

// Clear removes all data from the store
func (s *SQLiteStore) Clear() {
	if _, err := s.db.Exec("DELETE FROM credentials"); err != nil {
		s.logger.Error("clear failed", "table", "credentials", "error", err.Error())
	}
	if _, err := s.db.Exec("DELETE FROM oauth_states"); err != nil {
		s.logger.Error("clear failed", "table", "oauth_states", "error", err.Error())
	}
}

// Stats returns statistics about the store
func (s *SQLiteStore) Stats() StoreStats {
	var stats StoreStats
	_ = s.db.QueryRow("SELECT COUNT(*) FROM credentials").Scan(&stats.CredentialCount)
	_ = s.db.QueryRow("SELECT COUNT(*) FROM oauth_states").Scan(&stats.StateCount)
	return stats
}

// Close gracefully shuts down the store
func (s *SQLiteStore) Close() error {
	if s.cleanupTicker != nil {
		s.cleanupTicker.Stop()
		close(s.cleanupDone)
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure SQLiteStore implements the Store interface
var _ Store = (*SQLiteStore)(nil)
