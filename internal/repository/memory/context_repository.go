package memory

import (
	"time"

	"ai-dialogue-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// ContextRepository keeps ConversationContexts in process memory with an
// inactivity TTL. Every Save refreshes the TTL, so active sessions stay
// alive and idle ones are purged.
type ContextRepository struct {
	cache *cache.Cache
}

// NewContextRepository creates a store that evicts contexts after ttl of
// inactivity and purges expired entries every purgeInterval.
func NewContextRepository(ttl, purgeInterval time.Duration) *ContextRepository {
	return &ContextRepository{cache: cache.New(ttl, purgeInterval)}
}

func (r *ContextRepository) Get(sessionID string) (*store.ConversationContext, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.ConversationContext), true
	}
	return nil, false
}

func (r *ContextRepository) Save(ctx *store.ConversationContext) {
	r.cache.Set(ctx.SessionID, ctx, cache.DefaultExpiration)
}

func (r *ContextRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
