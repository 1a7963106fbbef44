package consistency

import (
	"ai-dialogue-be/internal/pkg/logger"
	"ai-dialogue-be/pkg/dialogue/pattern"
	"ai-dialogue-be/pkg/store"
)

// Result is the consistency verdict for a candidate answer against the
// full session history.
type Result struct {
	IsConsistent       bool                        `json:"is_consistent"`
	ConflictingAnswers []store.QuestionHistoryItem `json:"conflicting_answers"`
	ConfidenceLevel    float64                     `json:"confidence_level"`
	RecommendsResearch bool                        `json:"recommends_research"`
}

// Validator checks a produced answer for contradictions with every prior
// answer in the same session. It shares the polarity-pair table with the
// recovery system.
type Validator struct {
	table  *pattern.Table
	logger logger.ILogger
}

// NewValidator creates a consistency validator over the given pattern table.
func NewValidator(table *pattern.Table, log logger.ILogger) *Validator {
	return &Validator{table: table, logger: log}
}

// baseConfidence is the verdict confidence when no conflict is found;
// each conflicting answer raises the (inconsistency) confidence.
const (
	baseConfidence     = 0.8
	conflictConfidence = 0.7
	perConflictBoost   = 0.05
)

// ValidateConsistency scans the FULL history, not just recent turns:
// an answer contradicting something said ten turns ago is still a
// contradiction to the user.
func (v *Validator) ValidateConsistency(candidateAnswer string, ctx *store.ConversationContext) Result {
	result := Result{IsConsistent: true, ConfidenceLevel: baseConfidence, ConflictingAnswers: []store.QuestionHistoryItem{}}
	if ctx == nil || candidateAnswer == "" {
		return result
	}

	for _, item := range ctx.QuestionHistory {
		if pairs := v.table.ConflictingPairs(candidateAnswer, item.Answer); len(pairs) > 0 {
			result.ConflictingAnswers = append(result.ConflictingAnswers, item)
		}
	}

	if len(result.ConflictingAnswers) > 0 {
		result.IsConsistent = false
		result.RecommendsResearch = true
		result.ConfidenceLevel = conflictConfidence + perConflictBoost*float64(len(result.ConflictingAnswers)-1)
		if result.ConfidenceLevel > 0.95 {
			result.ConfidenceLevel = 0.95
		}
		v.logger.Warn("consistency", "candidate answer conflicts with history", map[string]interface{}{
			"session_id": ctx.SessionID,
			"conflicts":  len(result.ConflictingAnswers),
		})
	}

	return result
}
