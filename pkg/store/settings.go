package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver (CGO)
)

// globalUserID is the reserved row owner for process-wide default keys.
const globalUserID = ""

// SQLiteSettingsStore implements SettingsStore on SQLite.
// Global defaults share the table with user overrides under a reserved
// empty user id.
type SQLiteSettingsStore struct {
	db *sql.DB
}

// SQLiteSettingsStoreConfig configures the settings store.
type SQLiteSettingsStoreConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteSettingsStore opens (and if needed creates) the settings
// database at the given path.
func NewSQLiteSettingsStore(cfg SQLiteSettingsStoreConfig) (*SQLiteSettingsStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("settings store path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteSettingsStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize settings schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteSettingsStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS api_keys (
		user_id TEXT NOT NULL,
		provider_id TEXT NOT NULL,
		api_key TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, provider_id)
	);
	CREATE TABLE IF NOT EXISTS profile (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// UserAPIKeys returns the per-user key overrides. A user with no stored
// settings yields an empty map.
func (s *SQLiteSettingsStore) UserAPIKeys(ctx context.Context, userID string) (map[string]string, error) {
	if userID == globalUserID {
		return map[string]string{}, nil
	}
	return s.keysFor(ctx, userID)
}

// GlobalDefaults returns the persisted process-wide default keys.
func (s *SQLiteSettingsStore) GlobalDefaults(ctx context.Context) (map[string]string, error) {
	return s.keysFor(ctx, globalUserID)
}

func (s *SQLiteSettingsStore) keysFor(ctx context.Context, userID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT provider_id, api_key FROM api_keys WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("loading api keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]string)
	for rows.Next() {
		var provider, key string
		if err := rows.Scan(&provider, &key); err != nil {
			return nil, fmt.Errorf("scanning api key row: %w", err)
		}
		keys[provider] = key
	}
	return keys, rows.Err()
}

// SetGlobalDefault persists one global default key.
func (s *SQLiteSettingsStore) SetGlobalDefault(ctx context.Context, providerID, value string) error {
	return s.setKey(ctx, globalUserID, providerID, value)
}

// SetUserAPIKey persists one per-user override.
func (s *SQLiteSettingsStore) SetUserAPIKey(ctx context.Context, userID, providerID, value string) error {
	if userID == globalUserID {
		return fmt.Errorf("user id cannot be empty")
	}
	return s.setKey(ctx, userID, providerID, value)
}

func (s *SQLiteSettingsStore) setKey(ctx context.Context, userID, providerID, value string) error {
	if providerID == "" {
		return fmt.Errorf("provider id cannot be empty")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_keys (user_id, provider_id, api_key, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, provider_id) DO UPDATE SET
			api_key = excluded.api_key,
			updated_at = excluded.updated_at`,
		userID, providerID, value, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("storing api key for provider %q: %w", providerID, err)
	}
	return nil
}

// assistantNameKey is the profile row holding the assistant display name.
const assistantNameKey = "assistant_name"

// AssistantName returns the persisted assistant display name, or the empty
// string when none has been chosen yet.
func (s *SQLiteSettingsStore) AssistantName(ctx context.Context) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM profile WHERE key = ?`, assistantNameKey).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading assistant name: %w", err)
	}
	return name, nil
}

// SetAssistantName persists the assistant display name.
func (s *SQLiteSettingsStore) SetAssistantName(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profile (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		assistantNameKey, name, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("storing assistant name: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *SQLiteSettingsStore) Close() error {
	return s.db.Close()
}
