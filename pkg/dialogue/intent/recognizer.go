package intent

import (
	"ai-dialogue-be/internal/pkg/logger"
	"ai-dialogue-be/pkg/dialogue/pattern"
	"ai-dialogue-be/pkg/store"
)

// referenceWindow is how many recent turns are scanned when resolving an
// ambiguous reference to an earlier answer.
const referenceWindow = 3

// overlapThreshold is the minimum keyword-overlap ratio for binding the
// question to a specific earlier turn.
const overlapThreshold = 0.3

// Recognizer classifies message intent and detects correction signals
// against the session's stored conversation context.
type Recognizer struct {
	table  *pattern.Table
	logger logger.ILogger
}

// NewRecognizer creates an intent recognizer over the given pattern table.
func NewRecognizer(table *pattern.Table, log logger.ILogger) *Recognizer {
	return &Recognizer{table: table, logger: log}
}

// RecognizeIntent produces an IntentAnalysis for the question. It is total:
// any internal panic is recovered into the safe default analysis so a
// malformed message can never break the turn.
func (r *Recognizer) RecognizeIntent(question string, ctx *store.ConversationContext) (analysis *store.IntentAnalysis) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("intent", "intent analysis panicked, using default", map[string]interface{}{
				"error": rec,
			})
			analysis = DefaultAnalysis()
		}
	}()

	implicitRefs := r.table.ImplicitMatches(question)
	correctionSignals := r.table.CorrectionMatches(question)

	analysis = &store.IntentAnalysis{
		PrimaryIntent:               r.classifyPrimaryIntent(question),
		IsChallengingPreviousAnswer: r.detectCorrectionIntent(correctionSignals, len(implicitRefs) > 0),
		ImplicitContext:             []string{},
		CorrectionPatterns:          []string{},
	}

	for _, p := range correctionSignals {
		analysis.CorrectionPatterns = append(analysis.CorrectionPatterns, p.Label)
	}

	analysis.ReferencedTurn = r.findReferencedAnswer(question, ctx, len(implicitRefs) > 0, analysis.IsChallengingPreviousAnswer)
	analysis.ImplicitContext = r.extractImplicitContext(question, ctx, implicitRefs)
	analysis.Confidence = r.scoreConfidence(analysis)

	return analysis
}

// DefaultAnalysis is the documented safe fallback: a plain question with
// neutral confidence and no correction signals.
func DefaultAnalysis() *store.IntentAnalysis {
	return &store.IntentAnalysis{
		PrimaryIntent:      store.IntentQuestion,
		Confidence:         0.5,
		ImplicitContext:    []string{},
		CorrectionPatterns: []string{},
	}
}

// classifyPrimaryIntent scores the question against the four disjoint
// indicator sets. The highest score wins; ties and all-zero scores default
// to a plain question.
func (r *Recognizer) classifyPrimaryIntent(question string) string {
	candidates := []string{
		store.IntentCorrection,
		store.IntentClarification,
		store.IntentFollowup,
		store.IntentQuestion,
	}

	best, bestScore, tied := store.IntentQuestion, 0, false
	for _, intent := range candidates {
		score := r.table.IntentScore(intent, question)
		switch {
		case score > bestScore:
			best, bestScore, tied = intent, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}
	if bestScore == 0 || tied {
		return store.IntentQuestion
	}
	return best
}

// detectCorrectionIntent decides whether the user is challenging a prior
// answer. Weak signals like "is that right?" are too ambiguous on their
// own and only count when an implicit reference is also present.
func (r *Recognizer) detectCorrectionIntent(signals []pattern.Pattern, hasImplicitRef bool) bool {
	for _, p := range signals {
		if p.Tier == store.IntensityWeak {
			if hasImplicitRef {
				return true
			}
			continue
		}
		return true
	}
	return false
}

// findReferencedAnswer resolves which earlier turn the question refers to.
// A direct implicit reference binds to the most recent turn. Otherwise a
// detected correction scans the recent window for the best keyword-overlap
// match. Returns nil (unresolved) for an empty history.
func (r *Recognizer) findReferencedAnswer(question string, ctx *store.ConversationContext, hasImplicitRef, isCorrection bool) *int {
	if ctx == nil || len(ctx.QuestionHistory) == 0 {
		return nil
	}

	if hasImplicitRef {
		turn := ctx.QuestionHistory[len(ctx.QuestionHistory)-1].TurnIndex
		return &turn
	}

	if !isCorrection {
		return nil
	}

	var bestTurn *int
	bestRatio := overlapThreshold
	for _, item := range ctx.RecentItems(referenceWindow) {
		ratio := r.table.OverlapRatio(question, item.Question+" "+item.Answer)
		if ratio > bestRatio {
			turn := item.TurnIndex
			bestTurn, bestRatio = &turn, ratio
		}
	}
	return bestTurn
}

// extractImplicitContext gathers the reference phrases found in the
// question plus any content keywords shared with the most recent answer.
func (r *Recognizer) extractImplicitContext(question string, ctx *store.ConversationContext, refs []pattern.Pattern) []string {
	seen := make(map[string]struct{})
	context := []string{}

	add := func(s string) {
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		context = append(context, s)
	}

	for _, ref := range refs {
		add(ref.Phrase)
	}

	if ctx != nil {
		if last := ctx.LastItem(); last != nil {
			for _, tok := range r.table.SharedTokens(question, last.Answer) {
				add(tok)
			}
		}
	}

	return context
}

// scoreConfidence applies the fixed confidence ladder and clamps to [0,1].
func (r *Recognizer) scoreConfidence(analysis *store.IntentAnalysis) float64 {
	confidence := 0.5
	if analysis.PrimaryIntent != store.IntentQuestion {
		confidence += 0.2
	}
	if analysis.IsChallengingPreviousAnswer {
		confidence += 0.2
	}
	if analysis.ReferencedTurn != nil {
		confidence += 0.15
	}
	switch {
	case len(analysis.ImplicitContext) >= 2:
		confidence += 0.1
	case len(analysis.ImplicitContext) == 1:
		confidence += 0.05
	}

	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}
