package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"halo-hq/titan/pkg/providers"
	"halo-hq/titan/pkg/store"
)

// MemoryConversationStore is an in-memory store.ConversationStore for
// testing. It preserves the persistence contract of the SQLite store: a
// full-replace upsert that mints an id when none is supplied.
type MemoryConversationStore struct {
	mu            sync.Mutex
	conversations map[string]*store.Conversation
}

// NewMemoryConversationStore creates an empty store.
func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{
		conversations: make(map[string]*store.Conversation),
	}
}

// Load implements store.ConversationStore.
func (m *MemoryConversationStore) Load(_ context.Context, id string) (*store.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conversation, ok := m.conversations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *conversation
	clone.Messages = append([]providers.Message(nil), conversation.Messages...)
	return &clone, nil
}

// Upsert implements store.ConversationStore.
func (m *MemoryConversationStore) Upsert(_ context.Context, conversation *store.Conversation) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := conversation.ID
	now := time.Now()
	createdAt := now
	if id == "" {
		id = uuid.NewString()
	} else if existing, ok := m.conversations[id]; ok {
		createdAt = existing.CreatedAt
	}

	clone := *conversation
	clone.ID = id
	clone.Messages = append([]providers.Message(nil), conversation.Messages...)
	clone.CreatedAt = createdAt
	clone.UpdatedAt = now
	m.conversations[id] = &clone
	return id, nil
}

// ListRecent implements store.ConversationStore.
func (m *MemoryConversationStore) ListRecent(_ context.Context, limit int) ([]store.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	all := make([]*store.Conversation, 0, len(m.conversations))
	for _, c := range m.conversations {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}

	summaries := make([]store.Summary, 0, len(all))
	for _, c := range all {
		preview := ""
		for _, msg := range c.Messages {
			if msg.Role == providers.RoleUser {
				preview = msg.Content
				break
			}
		}
		summaries = append(summaries, store.Summary{
			ID:           c.ID,
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
			LastProvider: c.LastProvider,
			MessageCount: len(c.Messages),
			Preview:      preview,
		})
	}
	return summaries, nil
}

// PruneOlderThan implements store.ConversationStore.
func (m *MemoryConversationStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pruned int64
	for id, c := range m.conversations {
		if c.UpdatedAt.Before(cutoff) {
			delete(m.conversations, id)
			pruned++
		}
	}
	return pruned, nil
}

// Close implements store.ConversationStore.
func (m *MemoryConversationStore) Close() error { return nil }

// MemorySettingsStore is an in-memory store.SettingsStore for testing.
type MemorySettingsStore struct {
	mu            sync.Mutex
	globals       map[string]string
	users         map[string]map[string]string
	assistantName string
}

// NewMemorySettingsStore creates an empty settings store.
func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{
		globals: make(map[string]string),
		users:   make(map[string]map[string]string),
	}
}

// UserAPIKeys implements store.SettingsStore.
func (m *MemorySettingsStore) UserAPIKeys(_ context.Context, userID string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make(map[string]string, len(m.users[userID]))
	for provider, key := range m.users[userID] {
		keys[provider] = key
	}
	return keys, nil
}

// GlobalDefaults implements store.SettingsStore.
func (m *MemorySettingsStore) GlobalDefaults(_ context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	defaults := make(map[string]string, len(m.globals))
	for provider, key := range m.globals {
		defaults[provider] = key
	}
	return defaults, nil
}

// SetGlobalDefault implements store.SettingsStore.
func (m *MemorySettingsStore) SetGlobalDefault(_ context.Context, providerID, apiKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.globals[providerID] = apiKey
	return nil
}

// SetUserAPIKey implements store.SettingsStore.
func (m *MemorySettingsStore) SetUserAPIKey(_ context.Context, userID, providerID, apiKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.users[userID] == nil {
		m.users[userID] = make(map[string]string)
	}
	m.users[userID][providerID] = apiKey
	return nil
}

// AssistantName implements store.SettingsStore.
func (m *MemorySettingsStore) AssistantName(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.assistantName, nil
}

// SetAssistantName implements store.SettingsStore.
func (m *MemorySettingsStore) SetAssistantName(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.assistantName = name
	return nil
}

// Close implements store.SettingsStore.
func (m *MemorySettingsStore) Close() error { return nil }
