package recovery

import (
	"ai-dialogue-be/internal/constant"
	"ai-dialogue-be/internal/pkg/logger"
	"ai-dialogue-be/pkg/dialogue/pattern"
	"ai-dialogue-be/pkg/store"
)

// consistencyWindow limits how far back contextual-error detection scans
// for contradicting answers.
const consistencyWindow = 3

// CorrectionResult is the outcome of the secondary correction detector.
// Pattern is the label of the winning signal and keys error-pattern
// learning, so distinct correction kinds escalate independently.
type CorrectionResult struct {
	IsCorrection      bool                      `json:"is_correction"`
	Intensity         store.CorrectionIntensity `json:"intensity"`
	Pattern           string                    `json:"pattern,omitempty"`
	Confidence        float64                   `json:"confidence"`
	SuggestedResponse string                    `json:"suggested_response"`
}

// StrategyRecommendation is a recovery strategy biased by how often the
// error pattern has recurred process-wide.
type StrategyRecommendation struct {
	Strategy   string  `json:"strategy"`
	Confidence float64 `json:"confidence"`
}

// ContextualError is the result of inspecting a candidate answer against
// user feedback and the recent session history.
type ContextualError struct {
	HasError    bool    `json:"has_error"`
	ErrorType   string  `json:"error_type,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
	Description string  `json:"description,omitempty"`
}

// System is the error recovery engine: it confirms suspected corrections,
// tracks recurring error patterns process-wide, and recommends recovery
// strategies. One instance is shared by all request handlers.
type System struct {
	table    *pattern.Table
	patterns *PatternStore
	selector TemplateSelector
	logger   logger.ILogger
}

// NewSystem creates the recovery system. The pattern store is injected so
// its process-wide lifetime is owned by the caller, not this package.
func NewSystem(table *pattern.Table, patterns *PatternStore, selector TemplateSelector, log logger.ILogger) *System {
	return &System{table: table, patterns: patterns, selector: selector, logger: log}
}

// Patterns exposes the process-wide pattern store for reporting.
func (s *System) Patterns() *PatternStore { return s.patterns }

// DetectUserCorrection re-scores the question against the intensity-tiered
// table and returns the single best match. When the primary analysis
// already flagged a challenge, its recorded pattern labels are considered
// as additional evidence. No match means no correction.
func (s *System) DetectUserCorrection(question string, analysis *store.IntentAnalysis) CorrectionResult {
	matches := s.table.CorrectionMatches(question)

	if analysis != nil && analysis.IsChallengingPreviousAnswer {
		for _, label := range analysis.CorrectionPatterns {
			if p, ok := s.table.CorrectionByLabel(label); ok {
				matches = append(matches, p)
			}
		}
	}

	if len(matches) == 0 {
		return CorrectionResult{Intensity: store.IntensityNone}
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.Confidence > best.Confidence {
			best = m
		}
	}

	result := CorrectionResult{
		IsCorrection:      true,
		Intensity:         best.Tier,
		Pattern:           best.Label,
		Confidence:        best.Confidence,
		SuggestedResponse: s.AcknowledgeError(best.Tier),
	}
	s.logger.Info("recovery", "user correction detected", map[string]interface{}{
		"pattern":    best.Label,
		"intensity":  string(best.Tier),
		"confidence": best.Confidence,
	})
	return result
}

// AcknowledgeError produces an apology/recovery response for the tier.
func (s *System) AcknowledgeError(intensity store.CorrectionIntensity) string {
	return s.pickTemplate(intensity)
}

// LearnErrorPattern records one more occurrence of the error pattern in
// the process-wide table.
func (s *System) LearnErrorPattern(patternKey string, ctx *store.ConversationContext) {
	entry := s.patterns.Learn(patternKey)
	details := map[string]interface{}{
		"pattern":   patternKey,
		"frequency": entry.Frequency,
		"strategy":  entry.CorrectionStrategy,
	}
	if ctx != nil {
		details["session_id"] = ctx.SessionID
	}
	s.logger.Info("recovery", "error pattern learned", details)
}

// SuggestRecoveryStrategy recommends remediation for the pattern key,
// escalating with its recorded frequency.
func (s *System) SuggestRecoveryStrategy(patternKey string, ctx *store.ConversationContext) StrategyRecommendation {
	entry, ok := s.patterns.Get(patternKey)
	if !ok {
		return StrategyRecommendation{Strategy: constant.StrategyGeneralVerification, Confidence: 0.5}
	}
	switch {
	case entry.Frequency >= 3:
		return StrategyRecommendation{Strategy: constant.StrategyHighPriorityResearch, Confidence: 0.8}
	case entry.Frequency >= 2:
		return StrategyRecommendation{Strategy: constant.StrategyEnhancedVerification, Confidence: 0.7}
	default:
		return StrategyRecommendation{Strategy: constant.StrategyStandardCorrection, Confidence: 0.6}
	}
}

// DetectContextualError inspects a candidate answer before it is shown.
// Checks run in priority order and the first hit wins: explicit user
// feedback, contradiction with recent answers, hedging language.
func (s *System) DetectContextualError(userFeedback, candidateAnswer string, ctx *store.ConversationContext) ContextualError {
	// 1. The user told us directly.
	if userFeedback != "" {
		if matches := s.table.CorrectionMatches(userFeedback); len(matches) > 0 {
			return ContextualError{
				HasError:    true,
				ErrorType:   constant.ErrorTypeUserReported,
				Confidence:  matches[0].Confidence,
				Description: "user feedback indicates the previous answer was wrong",
			}
		}
	}

	// 2. The candidate contradicts a recent answer.
	if ctx != nil {
		for _, item := range ctx.RecentItems(consistencyWindow) {
			if pairs := s.table.ConflictingPairs(candidateAnswer, item.Answer); len(pairs) > 0 {
				return ContextualError{
					HasError:    true,
					ErrorType:   constant.ErrorTypeConsistencyError,
					Confidence:  0.7,
					Description: "candidate answer contradicts an earlier answer in this session",
				}
			}
		}
	}

	// 3. The candidate hedges.
	if len(s.table.HedgingMatches(candidateAnswer)) > 0 {
		return ContextualError{
			HasError:    true,
			ErrorType:   constant.ErrorTypeLowConfidence,
			Confidence:  0.6,
			Description: "candidate answer contains low-confidence language",
		}
	}

	return ContextualError{}
}
