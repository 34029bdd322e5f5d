package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"halo-hq/titan/pkg/providers"
)

// SQLiteConversationStore implements ConversationStore on SQLite.
//
// The database is opened in WAL mode with a single writer connection;
// every Upsert is one statement, so a record is either fully written or
// not written at all.
type SQLiteConversationStore struct {
	db *sql.DB

	loadStmt   *sql.Stmt
	upsertStmt *sql.Stmt
	listStmt   *sql.Stmt
	pruneStmt  *sql.Stmt
}

// SQLiteConversationStoreConfig configures the conversation store.
type SQLiteConversationStoreConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteConversationStore opens (and if needed creates) the conversation
// database at the given path.
func NewSQLiteConversationStore(cfg SQLiteConversationStoreConfig) (*SQLiteConversationStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("conversation store path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open conversation database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteConversationStore{db: db}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize conversation schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteConversationStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		messages TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		last_provider TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_conversations_updated_at
		ON conversations(updated_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteConversationStore) prepareStatements() error {
	var err error

	s.loadStmt, err = s.db.Prepare(`
		SELECT id, messages, created_at, updated_at, last_provider
		FROM conversations WHERE id = ?`)
	if err != nil {
		return err
	}

	// Full-record replace on conflict: the whole message list is written in
	// one statement, never appended piecewise.
	s.upsertStmt, err = s.db.Prepare(`
		INSERT INTO conversations (id, messages, created_at, updated_at, last_provider)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			messages = excluded.messages,
			updated_at = excluded.updated_at,
			last_provider = excluded.last_provider`)
	if err != nil {
		return err
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT id, messages, created_at, updated_at, last_provider
		FROM conversations ORDER BY updated_at DESC LIMIT ?`)
	if err != nil {
		return err
	}

	s.pruneStmt, err = s.db.Prepare(`
		DELETE FROM conversations WHERE updated_at < ?`)
	return err
}

// Load returns the conversation with the given id, or ErrNotFound.
func (s *SQLiteConversationStore) Load(ctx context.Context, id string) (*Conversation, error) {
	row := s.loadStmt.QueryRowContext(ctx, id)

	var c Conversation
	var rawMessages string
	var createdAt, updatedAt int64
	if err := row.Scan(&c.ID, &rawMessages, &createdAt, &updatedAt, &c.LastProvider); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading conversation %q: %w", id, err)
	}

	if err := json.Unmarshal([]byte(rawMessages), &c.Messages); err != nil {
		return nil, fmt.Errorf("decoding messages for conversation %q: %w", id, err)
	}
	c.CreatedAt = time.Unix(0, createdAt)
	c.UpdatedAt = time.Unix(0, updatedAt)
	return &c, nil
}

// Upsert writes the conversation atomically and returns the stored id.
// An empty id mints a new one.
func (s *SQLiteConversationStore) Upsert(ctx context.Context, c *Conversation) (string, error) {
	id := c.ID
	now := time.Now()
	if id == "" {
		id = uuid.NewString()
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	encoded, err := json.Marshal(c.Messages)
	if err != nil {
		return "", fmt.Errorf("encoding messages: %w", err)
	}

	if _, err := s.upsertStmt.ExecContext(ctx, id, string(encoded),
		c.CreatedAt.UnixNano(), c.UpdatedAt.UnixNano(), c.LastProvider); err != nil {
		return "", fmt.Errorf("upserting conversation %q: %w", id, err)
	}

	c.ID = id
	return id, nil
}

// ListRecent returns up to limit summaries, most recently updated first.
func (s *SQLiteConversationStore) ListRecent(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.listStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var id, rawMessages, lastProvider string
		var createdAt, updatedAt int64
		if err := rows.Scan(&id, &rawMessages, &createdAt, &updatedAt, &lastProvider); err != nil {
			return nil, fmt.Errorf("scanning conversation row: %w", err)
		}

		var messages []providers.Message
		if err := json.Unmarshal([]byte(rawMessages), &messages); err != nil {
			return nil, fmt.Errorf("decoding messages for conversation %q: %w", id, err)
		}

		summaries = append(summaries, Summary{
			ID:           id,
			CreatedAt:    time.Unix(0, createdAt),
			UpdatedAt:    time.Unix(0, updatedAt),
			LastProvider: lastProvider,
			MessageCount: len(messages),
			Preview:      preview(messages),
		})
	}
	return summaries, rows.Err()
}

// PruneOlderThan deletes conversations last updated before the cutoff.
func (s *SQLiteConversationStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.pruneStmt.ExecContext(ctx, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("pruning conversations: %w", err)
	}
	return res.RowsAffected()
}

// Close releases prepared statements and the database.
func (s *SQLiteConversationStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.loadStmt, s.upsertStmt, s.listStmt, s.pruneStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}

// preview extracts the leading text of the first user message.
func preview(messages []providers.Message) string {
	const max = 120
	for _, m := range messages {
		if m.Role != providers.RoleUser {
			continue
		}
		if len(m.Content) > max {
			return m.Content[:max]
		}
		return m.Content
	}
	return ""
}
