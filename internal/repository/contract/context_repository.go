package contract

import "ai-dialogue-be/pkg/store"

// IContextRepository defines the ConversationContext store operations.
// Get returns found=false for unknown sessions; callers decide whether to
// create a fresh context. Durability and eviction are owned by the
// implementation, never by the dialogue core.
type IContextRepository interface {
	Get(sessionID string) (*store.ConversationContext, bool)
	Save(ctx *store.ConversationContext)
	Delete(sessionID string)
}
