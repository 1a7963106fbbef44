package store

import "time"

// PrimaryIntent classifies what the user is doing with a message
const (
	IntentQuestion      = "question"
	IntentCorrection    = "correction"
	IntentClarification = "clarification"
	IntentFollowup      = "followup"
)

// CorrectionIntensity tiers, ordered by how confidently a pattern match
// signals the user is disputing the previous answer
type CorrectionIntensity string

const (
	IntensityNone       CorrectionIntensity = "none"
	IntensityWeak       CorrectionIntensity = "weak"
	IntensityMedium     CorrectionIntensity = "medium"
	IntensityStrong     CorrectionIntensity = "strong"
	IntensityCorrection CorrectionIntensity = "correction"
	IntensityReview     CorrectionIntensity = "review"
	IntensityDoubt      CorrectionIntensity = "doubt"
)

// IntentAnalysis is the result of classifying a single incoming message.
// ReferencedTurn is a weak reference (turn index into the owning context's
// QuestionHistory), never a copy of the history item itself.
type IntentAnalysis struct {
	PrimaryIntent               string   `json:"primary_intent"`
	IsChallengingPreviousAnswer bool     `json:"is_challenging_previous_answer"`
	ReferencedTurn              *int     `json:"referenced_turn,omitempty"`
	ImplicitContext             []string `json:"implicit_context"`
	Confidence                  float64  `json:"confidence"`
	CorrectionPatterns          []string `json:"correction_patterns"`
}

// QuestionHistoryItem is one finalized question/answer turn.
// Immutable once appended to a ConversationContext.
type QuestionHistoryItem struct {
	TurnIndex      int             `json:"turn_index"`
	Question       string          `json:"question"`
	Answer         string          `json:"answer"`
	Topic          string          `json:"topic"`
	Confidence     float64         `json:"confidence"`
	WasResearched  bool            `json:"was_researched"`
	IntentAnalysis *IntentAnalysis `json:"intent_analysis,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// ConversationContext is the per-session dialogue state.
// QuestionHistory is append-only; TurnIndex values are assigned on append
// and are strictly increasing with no gaps.
type ConversationContext struct {
	SessionID       string                `json:"session_id"`
	CurrentTopic    string                `json:"current_topic"`
	TopicStartTurn  int                   `json:"topic_start_turn"`
	QuestionHistory []QuestionHistoryItem `json:"question_history"`
	LastUpdated     time.Time             `json:"last_updated"`
}

// NewConversationContext creates an empty context for a session.
// Contexts are created lazily on the first turn of an unknown session.
func NewConversationContext(sessionID string) *ConversationContext {
	return &ConversationContext{
		SessionID:       sessionID,
		QuestionHistory: []QuestionHistoryItem{},
		LastUpdated:     time.Now(),
	}
}

// Append adds a finalized turn to the history, assigning the next turn
// index. The caller-provided TurnIndex is ignored to keep the sequence
// gapless.
func (c *ConversationContext) Append(item QuestionHistoryItem) {
	item.TurnIndex = len(c.QuestionHistory)
	c.QuestionHistory = append(c.QuestionHistory, item)
	c.LastUpdated = time.Now()
}

// LastItem returns the most recent history item, or nil for an empty history.
func (c *ConversationContext) LastItem() *QuestionHistoryItem {
	if len(c.QuestionHistory) == 0 {
		return nil
	}
	return &c.QuestionHistory[len(c.QuestionHistory)-1]
}

// ItemByTurn resolves a weak turn-index reference against the history.
func (c *ConversationContext) ItemByTurn(turnIndex int) *QuestionHistoryItem {
	if turnIndex < 0 || turnIndex >= len(c.QuestionHistory) {
		return nil
	}
	return &c.QuestionHistory[turnIndex]
}

// RecentItems returns up to n most recent history items, oldest first.
func (c *ConversationContext) RecentItems(n int) []QuestionHistoryItem {
	if n <= 0 || len(c.QuestionHistory) == 0 {
		return nil
	}
	if n > len(c.QuestionHistory) {
		n = len(c.QuestionHistory)
	}
	return c.QuestionHistory[len(c.QuestionHistory)-n:]
}
