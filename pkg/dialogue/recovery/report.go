package recovery

import (
	"ai-dialogue-be/internal/constant"
	"ai-dialogue-be/pkg/store"
)

// AssumedRecoveryRate is the documented heuristic share of detected errors
// assumed to have been recovered by a later re-research round-trip.
const AssumedRecoveryRate = 0.7

// Report thresholds for qualitative recommendations.
const (
	totalErrorsThreshold      = 5
	consistencyErrorThreshold = 2
	recoveryRateThreshold     = 0.8
)

// RecoveryReport aggregates likely errors over one session's history.
type RecoveryReport struct {
	SessionID       string         `json:"session_id"`
	TotalTurns      int            `json:"total_turns"`
	DetectedErrors  int            `json:"detected_errors"`
	ErrorsByType    map[string]int `json:"errors_by_type"`
	RecoveryRate    float64        `json:"recovery_rate"`
	Recommendations []string       `json:"recommendations"`
}

// GenerateRecoveryReport scans the session history, counts low-confidence
// turns per error type, and emits recommendations when thresholds are
// crossed.
func (s *System) GenerateRecoveryReport(ctx *store.ConversationContext) *RecoveryReport {
	report := &RecoveryReport{
		ErrorsByType:    make(map[string]int),
		RecoveryRate:    1.0,
		Recommendations: []string{},
	}
	if ctx == nil {
		return report
	}

	report.SessionID = ctx.SessionID
	report.TotalTurns = len(ctx.QuestionHistory)

	for i, item := range ctx.QuestionHistory {
		if item.Confidence >= constant.LowConfidenceThreshold {
			continue
		}
		report.DetectedErrors++
		report.ErrorsByType[s.classifyTurnError(ctx, i)]++
	}

	if report.DetectedErrors > 0 {
		report.RecoveryRate = AssumedRecoveryRate
	}

	if report.DetectedErrors > totalErrorsThreshold {
		report.Recommendations = append(report.Recommendations,
			"error count is high: trigger external research more frequently")
	}
	if report.ErrorsByType[constant.ErrorTypeConsistencyError] > consistencyErrorThreshold {
		report.Recommendations = append(report.Recommendations,
			"repeated contradictions: strengthen consistency checking before answering")
	}
	if report.RecoveryRate < recoveryRateThreshold {
		report.Recommendations = append(report.Recommendations,
			"recovery rate is low: improve the correction/recovery mechanism")
	}

	return report
}

// classifyTurnError assigns an error type to a low-confidence turn using
// the same priority order as DetectContextualError.
func (s *System) classifyTurnError(ctx *store.ConversationContext, index int) string {
	item := ctx.QuestionHistory[index]

	if item.IntentAnalysis != nil && item.IntentAnalysis.IsChallengingPreviousAnswer {
		return constant.ErrorTypeUserReported
	}

	start := index - consistencyWindow
	if start < 0 {
		start = 0
	}
	for _, prior := range ctx.QuestionHistory[start:index] {
		if len(s.table.ConflictingPairs(item.Answer, prior.Answer)) > 0 {
			return constant.ErrorTypeConsistencyError
		}
	}

	return constant.ErrorTypeLowConfidence
}
