package session

import (
	"context"
	"fmt"
	"log/slog"

	"halo-hq/titan/pkg/credentials"
	"halo-hq/titan/pkg/providers"
	"halo-hq/titan/pkg/routing"
	"halo-hq/titan/pkg/store"
)

// Escalation step names, used for logging and metrics.
const (
	escalationClearPreferred = "clear_preferred"
	escalationEngageFallback = "engage_fallback"
)

// Observer receives turn lifecycle notifications. Implementations must be
// safe for concurrent use.
type Observer interface {
	// EscalationApplied is called when a retry escalation step engages.
	EscalationApplied(step string)

	// BackendError is called on every failed backend attempt.
	BackendError(providerID string)

	// TurnCompleted is called when a turn succeeds.
	TurnCompleted(providerID string, attempts int)
}

// Session owns the turn execution cycle: credential resolution, provider
// selection, history management, the bounded retry policy, and persistence.
// A single Session serves many concurrent requests; per-turn state lives on
// the stack.
type Session struct {
	selector      *routing.Selector
	resolver      *credentials.Resolver
	invoker       providers.Invoker
	conversations store.ConversationStore
	observer      Observer
}

// Config assembles a Session from its collaborators.
type Config struct {
	Selector      *routing.Selector
	Resolver      *credentials.Resolver
	Invoker       providers.Invoker
	Conversations store.ConversationStore

	// Observer is optional.
	Observer Observer
}

// New creates a Session.
func New(cfg Config) (*Session, error) {
	if cfg.Selector == nil || cfg.Resolver == nil || cfg.Invoker == nil {
		return nil, fmt.Errorf("selector, resolver, and invoker are required")
	}
	if cfg.Conversations == nil {
		return nil, fmt.Errorf("conversation store is required")
	}
	return &Session{
		selector:      cfg.Selector,
		resolver:      cfg.Resolver,
		invoker:       cfg.Invoker,
		conversations: cfg.Conversations,
		observer:      cfg.Observer,
	}, nil
}

// Turn executes one conversational turn: chat or vision.
//
// Terminal selection failures (NoProviderAvailable, InvalidCapability) are
// returned unwrapped so callers can map them to client errors. Backend
// failures surface as BackendCallFailedError after the bounded escalation
// is exhausted.
func (s *Session) Turn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	if req.Capability == "" {
		req.Capability = providers.CapabilityChat
	}

	creds, err := s.resolver.EffectiveSet(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	policy := routing.SelectionPolicy{
		Capability:        req.Capability,
		PreferredProvider: req.PreferredProvider,
		UseFallbackChain:  req.UseFallbackChain,
	}

	history, conversationID, err := s.loadHistory(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}

	outgoing := make([]providers.Message, 0, len(history)+2)
	outgoing = append(outgoing, providers.Message{Role: providers.RoleSystem, Content: systemPrompt})
	outgoing = append(outgoing, history...)
	outgoing = append(outgoing, providers.Message{Role: providers.RoleUser, Content: req.Message})

	payload := &providers.Payload{
		Messages:    outgoing,
		ImageBase64: req.ImageBase64,
	}

	result, providerID, attempts, err := s.invokeWithEscalation(ctx, policy, creds, payload)
	if err != nil {
		return nil, err
	}

	stored := append(history,
		providers.Message{Role: providers.RoleUser, Content: req.Message},
		providers.Message{Role: providers.RoleAssistant, Content: result.Text},
	)
	conversation := &store.Conversation{
		ID:           conversationID,
		Messages:     stored,
		LastProvider: providerID,
	}
	storedID, err := s.conversations.Upsert(ctx, conversation)
	if err != nil {
		return nil, fmt.Errorf("persisting conversation: %w", err)
	}

	if s.observer != nil {
		s.observer.TurnCompleted(providerID, attempts)
	}
	slog.Info("turn completed",
		"conversation_id", storedID,
		"provider", providerID,
		"attempts", attempts,
		"capability", req.Capability,
	)

	return &TurnResult{
		Response:       result.Text,
		ConversationID: storedID,
		Provider:       providerID,
	}, nil
}

// Oneshot executes a stateless capability request (transcription, speech,
// research) through the same selection and escalation core, without history
// or persistence.
func (s *Session) Oneshot(ctx context.Context, req OneshotRequest) (*OneshotResult, error) {
	creds, err := s.resolver.EffectiveSet(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	policy := routing.SelectionPolicy{
		Capability:        req.Capability,
		PreferredProvider: req.PreferredProvider,
		UseFallbackChain:  req.UseFallbackChain,
	}

	payload := req.Payload
	result, providerID, attempts, err := s.invokeWithEscalation(ctx, policy, creds, &payload)
	if err != nil {
		return nil, err
	}

	if s.observer != nil {
		s.observer.TurnCompleted(providerID, attempts)
	}

	return &OneshotResult{
		Text:        result.Text,
		Audio:       result.Audio,
		ImageBase64: result.ImageBase64,
		Provider:    providerID,
	}, nil
}

// loadHistory returns the prior messages and the conversation id to persist
// under. A missing conversation is a fresh start: the stale id is discarded
// so a new one is minted on persist.
func (s *Session) loadHistory(ctx context.Context, conversationID string) ([]providers.Message, string, error) {
	if conversationID == "" {
		return nil, "", nil
	}

	conversation, err := s.conversations.Load(ctx, conversationID)
	if err != nil {
		if err == store.ErrNotFound {
			slog.Debug("conversation not found, starting fresh", "conversation_id", conversationID)
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("loading conversation %q: %w", conversationID, err)
	}
	return conversation.Messages, conversation.ID, nil
}

// invokeWithEscalation runs the backend call under the bounded retry
// policy. Each escalation step applies at most once per turn: first the
// non-default provider preference is cleared, then the fallback chain is
// engaged. Selection failure on the initial policy is terminal; selection
// failure under an escalated policy consumes that step and moves on.
func (s *Session) invokeWithEscalation(ctx context.Context, policy routing.SelectionPolicy, creds credentials.Set, payload *providers.Payload) (*providers.Result, string, int, error) {
	selection, err := s.selector.Select(policy, creds)
	if err != nil {
		return nil, "", 0, err
	}

	esc := escalationState{}
	attempts := 0
	for {
		attempts++
		result, err := s.invoker.Invoke(ctx, selection.ProviderID, selection.Model, policy.Capability, payload, selection.Credential)
		if err == nil {
			return result, selection.ProviderID, attempts, nil
		}

		if s.observer != nil {
			s.observer.BackendError(selection.ProviderID)
		}
		slog.Warn("backend attempt failed",
			"provider", selection.ProviderID,
			"attempt", attempts,
			"error", err,
		)
		lastErr := err
		lastProvider := selection.ProviderID

		// Walk escalation steps until one yields a selectable policy.
		for {
			next, step, ok := esc.next(policy)
			if !ok {
				return nil, "", attempts, &BackendCallFailedError{
					Provider: lastProvider,
					Attempts: attempts,
					Cause:    lastErr,
				}
			}
			if s.observer != nil {
				s.observer.EscalationApplied(step)
			}
			slog.Info("retry escalation applied", "step", step)

			policy = next
			selection, err = s.selector.Select(policy, creds)
			if err == nil {
				break
			}
			// The escalated policy resolved to nothing; the step is
			// consumed, try the next one.
		}
	}
}

// escalationState tracks which escalation steps have been consumed.
type escalationState struct {
	clearedPreferred bool
	engagedFallback  bool
}

// next returns the escalated policy and the step name, or ok=false when
// every applicable step is exhausted.
func (e *escalationState) next(p routing.SelectionPolicy) (routing.SelectionPolicy, string, bool) {
	if !e.clearedPreferred && p.PreferredProvider != "" && p.PreferredProvider != providers.DefaultProvider {
		e.clearedPreferred = true
		p.PreferredProvider = ""
		return p, escalationClearPreferred, true
	}
	if !e.engagedFallback && !p.UseFallbackChain {
		e.engagedFallback = true
		p.UseFallbackChain = true
		p.PreferredProvider = ""
		return p, escalationEngageFallback, true
	}
	return p, "", false
}
