package memory

import (
	"time"

	"offline-traffic-bot/internal/flow"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps active conversations in process memory. Sessions
// are deliberately not persisted: a conversation lost to a crash is
// restarted from scratch, not resumed. The cache TTL doubles as the expiry
// policy for abandoned sessions.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Default expiration of 1 hour, expired sessions purged every 10 minutes.
	return &SessionRepository{cache: cache.New(1*time.Hour, 10*time.Minute)}
}

func (r *SessionRepository) Save(sessionID string, conv *flow.Conversation) {
	r.cache.Set(sessionID, conv, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*flow.Conversation, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*flow.Conversation), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
