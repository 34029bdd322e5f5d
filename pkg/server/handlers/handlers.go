package handlers

import (
	"time"

	"halo-hq/titan/pkg/credentials"
	"halo-hq/titan/pkg/session"
	"halo-hq/titan/pkg/store"
)

// Handlers carries the collaborators shared by every endpoint.
type Handlers struct {
	session        *session.Session
	conversations  store.ConversationStore
	settings       store.SettingsStore
	resolver       *credentials.Resolver
	backendTimeout time.Duration
	maxUploadBytes int64
	version        string
}

// Config assembles the handler set.
type Config struct {
	Session       *session.Session
	Conversations store.ConversationStore
	Settings      store.SettingsStore
	Resolver      *credentials.Resolver

	// BackendTimeout bounds one full turn, escalations included.
	BackendTimeout time.Duration

	// MaxUploadBytes limits multipart audio uploads.
	MaxUploadBytes int64

	Version string
}

// New creates the handler set.
func New(cfg Config) *Handlers {
	backendTimeout := cfg.BackendTimeout
	if backendTimeout == 0 {
		backendTimeout = 60 * time.Second
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload == 0 {
		maxUpload = 25 << 20
	}
	return &Handlers{
		session:        cfg.Session,
		conversations:  cfg.Conversations,
		settings:       cfg.Settings,
		resolver:       cfg.Resolver,
		backendTimeout: backendTimeout,
		maxUploadBytes: maxUpload,
		version:        cfg.Version,
	}
}
