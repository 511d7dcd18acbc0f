package state

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrStateNotFound  = errors.New("conversation state not found")
	ErrInvalidSession = errors.New("session id is empty")
)

const defaultStoreTTL = 24 * time.Hour

// Store is the persistence contract used by the orchestrator. Conversations
// live only as long as the process.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Conversation, error)
	Save(ctx context.Context, c *Conversation) error
	Delete(ctx context.Context, sessionID string) error
}

// StoreOption customizes MemoryStore.
type StoreOption func(*MemoryStore)

// WithTTL sets how long an idle conversation is kept. Zero keeps it forever.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *MemoryStore) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

type entry struct {
	conv      *Conversation
	expiresAt time.Time
}

// MemoryStore keeps conversations in process memory, keyed by session id.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(opts ...StoreOption) *MemoryStore {
	s := &MemoryStore{
		items: make(map[string]entry),
		ttl:   defaultStoreTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Conversation, error) {
	key, err := sessionKey(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[key]
	if !ok {
		return nil, ErrStateNotFound
	}
	if s.expired(e) {
		delete(s.items, key)
		return nil, ErrStateNotFound
	}
	return e.conv.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, c *Conversation) error {
	if c == nil {
		return ErrNilConversation
	}
	key, err := sessionKey(c.SessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	e := entry{conv: c.Clone()}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.items[key] = e
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	key, err := sessionKey(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// caller holds s.mu
func (s *MemoryStore) sweep() {
	for k, e := range s.items {
		if s.expired(e) {
			delete(s.items, k)
		}
	}
}

func (s *MemoryStore) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

func sessionKey(sessionID string) (string, error) {
	key := strings.TrimSpace(sessionID)
	if key == "" {
		return "", ErrInvalidSession
	}
	return key, nil
}
