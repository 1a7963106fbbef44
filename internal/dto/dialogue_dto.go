package dto

import (
	"time"

	"ai-dialogue-be/pkg/dialogue/recovery"
	"ai-dialogue-be/pkg/store"
)

// AnalyzeTurnResponse is the full pre-answer analysis for one incoming
// question. Recovery is set only when the intent recognizer flags the
// message as challenging a previous answer.
type AnalyzeTurnResponse struct {
	SessionID      string                           `json:"session_id"`
	Topic          string                           `json:"topic"`
	IsTopicShift   bool                             `json:"is_topic_shift"`
	IntentAnalysis *store.IntentAnalysis            `json:"intent_analysis"`
	Recovery       *recovery.CorrectionResult       `json:"recovery,omitempty"`
	Strategy       *recovery.StrategyRecommendation `json:"strategy,omitempty"`
	// RecommendsResearch signals the answer-generation collaborator to
	// re-query external knowledge; this core never performs the research.
	RecommendsResearch bool `json:"recommends_research"`
}

// CheckConsistencyResponse is the verdict for a candidate answer.
type CheckConsistencyResponse struct {
	SessionID          string                      `json:"session_id"`
	IsConsistent       bool                        `json:"is_consistent"`
	ConflictingAnswers []store.QuestionHistoryItem `json:"conflicting_answers"`
	ConfidenceLevel    float64                     `json:"confidence_level"`
	RecommendsResearch bool                        `json:"recommends_research"`
}

// RecordTurnRequest finalizes one question/answer exchange. TurnIndex is
// assigned by the store on append and ignored if set.
type RecordTurnRequest struct {
	Question       string                `json:"question" validate:"required"`
	Answer         string                `json:"answer" validate:"required"`
	Topic          string                `json:"topic"`
	Confidence     float64               `json:"confidence" validate:"gte=0,lte=1"`
	WasResearched  bool                  `json:"was_researched"`
	IntentAnalysis *store.IntentAnalysis `json:"intent_analysis,omitempty"`
	Timestamp      time.Time             `json:"timestamp"`
}

// HistoryFilter narrows GetHistory results. Nil fields are ignored;
// Limit keeps the most recent N matching turns.
type HistoryFilter struct {
	Topic         *string `json:"topic,omitempty"`
	WasResearched *bool   `json:"was_researched,omitempty"`
	Limit         int     `json:"limit,omitempty" validate:"gte=0"`
}
