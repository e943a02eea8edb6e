package validation

import (
	"sync"
	"time"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

// bypassStore keeps owner-initiated overrides awaiting confirmation, keyed by
// actor ID. Entries are lazily expired against the injected clock; confirming
// consumes the entry so a second confirmation finds nothing pending.
type bypassStore struct {
	mu      sync.Mutex
	pending map[string]*domain.PendingBypass
	ttl     time.Duration
}

func newBypassStore(ttl time.Duration) *bypassStore {
	return &bypassStore{
		pending: make(map[string]*domain.PendingBypass),
		ttl:     ttl,
	}
}

func (b *bypassStore) put(actorID string, entry *domain.PendingBypass, now time.Time) {
	entry.CreatedAt = now
	entry.ExpiresAt = now.Add(b.ttl)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[actorID] = entry
}

// consume removes and returns the actor's pending bypass. It returns a
// BYPASS_EXPIRED error when nothing is pending or the entry outlived its TTL,
// never a silent success.
func (b *bypassStore) consume(actorID string, now time.Time) (*domain.PendingBypass, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.pending[actorID]
	if !ok {
		return nil, apperrors.NewBypassExpired("no bypass pending for this user")
	}
	delete(b.pending, actorID)
	if entry.Expired(now) {
		return nil, apperrors.NewBypassExpired("pending bypass has expired")
	}
	return entry, nil
}

// peek reports whether the actor has a live pending bypass without consuming it.
func (b *bypassStore) peek(actorID string, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.pending[actorID]
	if !ok {
		return false
	}
	if entry.Expired(now) {
		delete(b.pending, actorID)
		return false
	}
	return true
}
