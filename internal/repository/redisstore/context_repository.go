package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"ai-dialogue-be/internal/pkg/logger"
	"ai-dialogue-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dialogue:context:"

// ContextRepository persists ConversationContexts as plain JSON documents
// in Redis so multiple processes can share or cache session state. The
// serialized layout is the cross-process contract: {session_id,
// current_topic, topic_start_turn, question_history, last_updated}.
type ContextRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.ILogger
}

// NewContextRepository wraps a connected Redis client. Contexts expire
// after ttl of inactivity; Save refreshes the TTL.
func NewContextRepository(client *redis.Client, ttl time.Duration, log logger.ILogger) *ContextRepository {
	return &ContextRepository{client: client, ttl: ttl, logger: log}
}

func (r *ContextRepository) Get(sessionID string) (*store.ConversationContext, bool) {
	data, err := r.client.Get(context.Background(), keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		r.logger.Error("redisstore", "context read failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, false
	}

	var ctx store.ConversationContext
	if err := json.Unmarshal(data, &ctx); err != nil {
		r.logger.Error("redisstore", "context unmarshal failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, false
	}
	return &ctx, true
}

func (r *ContextRepository) Save(ctx *store.ConversationContext) {
	data, err := json.Marshal(ctx)
	if err != nil {
		r.logger.Error("redisstore", "context marshal failed", map[string]interface{}{
			"session_id": ctx.SessionID,
			"error":      err.Error(),
		})
		return
	}
	if err := r.client.Set(context.Background(), keyPrefix+ctx.SessionID, data, r.ttl).Err(); err != nil {
		r.logger.Error("redisstore", "context write failed", map[string]interface{}{
			"session_id": ctx.SessionID,
			"error":      err.Error(),
		})
	}
}

func (r *ContextRepository) Delete(sessionID string) {
	if err := r.client.Del(context.Background(), keyPrefix+sessionID).Err(); err != nil {
		r.logger.Error("redisstore", "context delete failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}
