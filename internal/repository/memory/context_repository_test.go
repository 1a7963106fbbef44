package memory

import (
	"testing"
	"time"

	"ai-dialogue-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRepositoryRoundTrip(t *testing.T) {
	repo := NewContextRepository(time.Hour, time.Hour)

	ctx := store.NewConversationContext("session-1")
	ctx.Append(store.QuestionHistoryItem{Question: "q", Answer: "a"})
	repo.Save(ctx)

	got, found := repo.Get("session-1")
	require.True(t, found)
	assert.Equal(t, "session-1", got.SessionID)
	require.Len(t, got.QuestionHistory, 1)

	_, found = repo.Get("unknown")
	assert.False(t, found)
}

func TestContextRepositoryDelete(t *testing.T) {
	repo := NewContextRepository(time.Hour, time.Hour)
	repo.Save(store.NewConversationContext("session-1"))

	repo.Delete("session-1")

	_, found := repo.Get("session-1")
	assert.False(t, found)
}

func TestContextRepositoryExpiry(t *testing.T) {
	repo := NewContextRepository(30*time.Millisecond, 10*time.Millisecond)
	repo.Save(store.NewConversationContext("session-1"))

	_, found := repo.Get("session-1")
	require.True(t, found)

	time.Sleep(80 * time.Millisecond)

	_, found = repo.Get("session-1")
	assert.False(t, found, "idle session should be evicted after the ttl")
}

func TestContextRepositorySaveRefreshesTTL(t *testing.T) {
	repo := NewContextRepository(60*time.Millisecond, 10*time.Millisecond)
	ctx := store.NewConversationContext("session-1")
	repo.Save(ctx)

	// Keep the session active past the original deadline.
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		repo.Save(ctx)
	}

	_, found := repo.Get("session-1")
	assert.True(t, found)
}
