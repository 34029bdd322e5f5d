package store

import (
	"context"
	"time"

	"halo-hq/titan/pkg/providers"
)

// Conversation is one persisted chat thread. The store owns it exclusively;
// sessions work on transient copies.
type Conversation struct {
	// ID is the opaque conversation identifier, assigned on first persist.
	ID string `json:"id"`

	// Messages is the ordered message history.
	Messages []providers.Message `json:"messages"`

	// CreatedAt is when the conversation was first persisted.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is bumped on every persisted turn.
	UpdatedAt time.Time `json:"updated_at"`

	// LastProvider is the provider that answered the most recent turn.
	LastProvider string `json:"last_provider"`
}

// Summary is a lightweight conversation listing entry.
type Summary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastProvider string    `json:"last_provider"`
	MessageCount int       `json:"message_count"`

	// Preview is the leading text of the first user message.
	Preview string `json:"preview"`
}

// ConversationStore is the persistence contract for conversations.
type ConversationStore interface {
	// Load returns the conversation with the given id, or ErrNotFound.
	Load(ctx context.Context, id string) (*Conversation, error)

	// Upsert writes the conversation atomically. An empty id mints a new
	// one; an existing id replaces the full record in place. Returns the
	// stored id.
	Upsert(ctx context.Context, c *Conversation) (string, error)

	// ListRecent returns up to limit summaries ordered by most recent
	// update first.
	ListRecent(ctx context.Context, limit int) ([]Summary, error)

	// PruneOlderThan deletes conversations whose last update precedes the
	// cutoff. Returns the number deleted.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases the underlying database.
	Close() error
}

// SettingsStore is the persistence contract for API key settings.
type SettingsStore interface {
	// UserAPIKeys returns the per-user key overrides. A user with no
	// stored settings yields an empty map, not an error.
	UserAPIKeys(ctx context.Context, userID string) (map[string]string, error)

	// GlobalDefaults returns the persisted process-wide default keys.
	GlobalDefaults(ctx context.Context) (map[string]string, error)

	// SetGlobalDefault persists one global default key.
	SetGlobalDefault(ctx context.Context, providerID, value string) error

	// SetUserAPIKey persists one per-user override.
	SetUserAPIKey(ctx context.Context, userID, providerID, value string) error

	// AssistantName returns the persisted assistant display name, or the
	// empty string when none has been chosen yet.
	AssistantName(ctx context.Context) (string, error)

	// SetAssistantName persists the assistant display name.
	SetAssistantName(ctx context.Context, name string) error

	// Close releases the underlying database.
	Close() error
}
