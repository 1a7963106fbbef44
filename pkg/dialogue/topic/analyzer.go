package topic

import (
	"sort"
	"strings"

	"ai-dialogue-be/internal/pkg/logger"
	"ai-dialogue-be/pkg/dialogue/pattern"
	"ai-dialogue-be/pkg/store"
)

// Result describes where the new question sits relative to the stored topic.
type Result struct {
	Topic        string `json:"topic"`
	IsTopicShift bool   `json:"is_topic_shift"`
}

// Analyzer decides whether an incoming question continues the current
// topic or starts a new one.
type Analyzer struct {
	table  *pattern.Table
	logger logger.ILogger
}

// NewAnalyzer creates a topic analyzer over the given pattern table.
func NewAnalyzer(table *pattern.Table, log logger.ILogger) *Analyzer {
	return &Analyzer{table: table, logger: log}
}

// recentWindow limits how far back topic continuity is checked.
const recentWindow = 3

// AnalyzeContext determines the topic of the question against the stored
// context. Ambiguous questions (no content keywords) are treated as a
// continuation of the existing topic, never as a forced shift.
func (a *Analyzer) AnalyzeContext(question string, ctx *store.ConversationContext) Result {
	keywords := a.extractKeywords(question)

	current := ""
	if ctx != nil {
		current = ctx.CurrentTopic
	}

	// No topical content in the question: stay on the current topic.
	if len(keywords) == 0 {
		return Result{Topic: current, IsTopicShift: false}
	}

	candidate := strings.Join(keywords, " ")

	// First topic of the session is not a shift.
	if current == "" {
		return Result{Topic: candidate, IsTopicShift: false}
	}

	if a.overlapsCurrent(keywords, ctx) {
		return Result{Topic: current, IsTopicShift: false}
	}

	a.logger.Info("topic", "topic shift detected", map[string]interface{}{
		"session_id": ctx.SessionID,
		"from":       current,
		"to":         candidate,
	})
	return Result{Topic: candidate, IsTopicShift: true}
}

// overlapsCurrent checks the new keywords against the current topic label
// and the questions of the recent turns on that topic.
func (a *Analyzer) overlapsCurrent(keywords []string, ctx *store.ConversationContext) bool {
	known := make(map[string]struct{})
	for _, tok := range a.table.Tokens(ctx.CurrentTopic) {
		known[tok] = struct{}{}
	}
	for _, item := range ctx.RecentItems(recentWindow) {
		for _, tok := range a.table.Tokens(item.Question) {
			known[tok] = struct{}{}
		}
	}
	for _, kw := range keywords {
		if _, ok := known[kw]; ok {
			return true
		}
	}
	return false
}

// extractKeywords ranks content tokens by frequency, then length, and
// returns the top tokens as the candidate topic label.
func (a *Analyzer) extractKeywords(question string) []string {
	tokens := a.table.Tokens(question)
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return len(order[i]) > len(order[j])
	})

	if len(order) > 3 {
		order = order[:3]
	}
	return order
}
