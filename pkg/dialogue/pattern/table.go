package pattern

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"ai-dialogue-be/pkg/store"

	"gopkg.in/yaml.v3"
)

// Pattern is one entry of a swappable pattern table.
// Phrase is matched case-insensitively: single alphabetic words match on
// word boundaries, longer phrases as plain substrings.
type Pattern struct {
	Label      string                    `yaml:"label"`
	Phrase     string                    `yaml:"phrase"`
	Tier       store.CorrectionIntensity `yaml:"tier,omitempty"`
	Confidence float64                   `yaml:"confidence,omitempty"`
}

// PolarityPair is a hand-curated keyword pair with opposite meaning, used
// for contradiction detection between answers.
type PolarityPair struct {
	Positive string `yaml:"positive"`
	Negative string `yaml:"negative"`
}

// Tables is the full versioned pattern dataset. It can be replaced
// per-deployment via a YAML file without code changes.
type Tables struct {
	Version             string         `yaml:"version"`
	CorrectionSignals   []Pattern      `yaml:"correction_signals"`
	IntentCorrection    []Pattern      `yaml:"intent_correction"`
	IntentClarification []Pattern      `yaml:"intent_clarification"`
	IntentFollowup      []Pattern      `yaml:"intent_followup"`
	IntentQuestion      []Pattern      `yaml:"intent_question"`
	ImplicitReferences  []Pattern      `yaml:"implicit_references"`
	Hedging             []Pattern      `yaml:"hedging"`
	Polarity            []PolarityPair `yaml:"polarity"`
	Stopwords           []string       `yaml:"stopwords"`
}

type compiledPattern struct {
	Pattern
	re *regexp.Regexp // nil means substring match
}

type compiledPair struct {
	PolarityPair
	pos *regexp.Regexp
	neg *regexp.Regexp
}

// Table is a compiled, read-only pattern table. Safe for concurrent use.
type Table struct {
	version    string
	correction []compiledPattern
	intents    map[string][]compiledPattern
	implicit   []compiledPattern
	hedging    []compiledPattern
	polarity   []compiledPair
	stopwords  map[string]struct{}
}

var wordOnly = regexp.MustCompile(`^[a-z]+$`)

// Compile builds a matchable Table from raw table data.
func Compile(t Tables) (*Table, error) {
	ct := &Table{
		version:   t.Version,
		intents:   make(map[string][]compiledPattern, 4),
		stopwords: make(map[string]struct{}, len(t.Stopwords)),
	}

	var err error
	if ct.correction, err = compilePatterns(t.CorrectionSignals); err != nil {
		return nil, err
	}
	for name, set := range map[string][]Pattern{
		store.IntentCorrection:    t.IntentCorrection,
		store.IntentClarification: t.IntentClarification,
		store.IntentFollowup:      t.IntentFollowup,
		store.IntentQuestion:      t.IntentQuestion,
	} {
		compiled, cerr := compilePatterns(set)
		if cerr != nil {
			return nil, cerr
		}
		ct.intents[name] = compiled
	}
	if ct.implicit, err = compilePatterns(t.ImplicitReferences); err != nil {
		return nil, err
	}
	if ct.hedging, err = compilePatterns(t.Hedging); err != nil {
		return nil, err
	}

	for _, pair := range t.Polarity {
		pos, perr := compileBoundary(pair.Positive)
		if perr != nil {
			return nil, perr
		}
		neg, nerr := compileBoundary(pair.Negative)
		if nerr != nil {
			return nil, nerr
		}
		ct.polarity = append(ct.polarity, compiledPair{PolarityPair: pair, pos: pos, neg: neg})
	}

	for _, w := range t.Stopwords {
		ct.stopwords[strings.ToLower(w)] = struct{}{}
	}

	return ct, nil
}

func compilePatterns(patterns []Pattern) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		phrase := strings.ToLower(strings.TrimSpace(p.Phrase))
		if phrase == "" {
			return nil, fmt.Errorf("pattern %q has empty phrase", p.Label)
		}
		cp := compiledPattern{Pattern: p}
		cp.Phrase = phrase
		// Single bare words need boundaries so "that" never matches "whatever"
		if wordOnly.MatchString(phrase) {
			re, err := compileBoundary(phrase)
			if err != nil {
				return nil, err
			}
			cp.re = re
		}
		compiled = append(compiled, cp)
	}
	return compiled, nil
}

// compileBoundary builds a word-boundary matcher so that e.g. "possible"
// never matches inside "impossible".
func compileBoundary(phrase string) (*regexp.Regexp, error) {
	return regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(phrase)) + `\b`)
}

func (p compiledPattern) matches(lowerText string) bool {
	if p.re != nil {
		return p.re.MatchString(lowerText)
	}
	return strings.Contains(lowerText, p.Phrase)
}

// Version returns the dataset version string.
func (t *Table) Version() string { return t.version }

// CorrectionMatches returns all tiered correction-signal patterns present
// in the text.
func (t *Table) CorrectionMatches(text string) []Pattern {
	return matchAll(t.correction, text)
}

// CorrectionByLabel looks up a correction-signal pattern by its label.
func (t *Table) CorrectionByLabel(label string) (Pattern, bool) {
	for _, p := range t.correction {
		if p.Label == label {
			return p.Pattern, true
		}
	}
	return Pattern{}, false
}

// IntentScore counts how many indicator patterns of the given intent set
// match the text.
func (t *Table) IntentScore(intent, text string) int {
	return len(matchAll(t.intents[intent], text))
}

// ImplicitMatches returns all implicit-reference patterns present in the text.
func (t *Table) ImplicitMatches(text string) []Pattern {
	return matchAll(t.implicit, text)
}

// HedgingMatches returns all low-confidence lexical markers present in the text.
func (t *Table) HedgingMatches(text string) []Pattern {
	return matchAll(t.hedging, text)
}

func matchAll(patterns []compiledPattern, text string) []Pattern {
	lower := strings.ToLower(text)
	var matched []Pattern
	for _, p := range patterns {
		if p.matches(lower) {
			matched = append(matched, p.Pattern)
		}
	}
	return matched
}

// ConflictingPairs returns every polarity pair whose opposite sides appear
// in the two texts (either direction). A text containing the negative
// phrase is never counted on the positive side, even when the positive
// word appears inside that phrase ("not allowed" contains "allowed"), so
// two agreeing negated statements do not conflict.
func (t *Table) ConflictingPairs(a, b string) []PolarityPair {
	lowerA, lowerB := strings.ToLower(a), strings.ToLower(b)
	var pairs []PolarityPair
	for _, pair := range t.polarity {
		negA := pair.neg.MatchString(lowerA)
		negB := pair.neg.MatchString(lowerB)
		posA := pair.pos.MatchString(lowerA) && !negA
		posB := pair.pos.MatchString(lowerB) && !negB
		if (posA && negB) || (negA && posB) {
			pairs = append(pairs, pair.PolarityPair)
		}
	}
	return pairs
}

// IsStopword reports whether the lowercased word carries no topical content.
func (t *Table) IsStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

var tokenSplit = regexp.MustCompile(`[^a-z0-9']+`)

// Tokens extracts lowercase content tokens from text, dropping stopwords
// and single-character fragments.
func (t *Table) Tokens(text string) []string {
	raw := tokenSplit.Split(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.Trim(tok, "'")
		if len(tok) < 2 || t.IsStopword(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// OverlapRatio computes |shared tokens| / |tokens of a|.
// Returns 0 when a has no content tokens.
func (t *Table) OverlapRatio(a, b string) float64 {
	aTokens := t.Tokens(a)
	if len(aTokens) == 0 {
		return 0
	}
	bSet := make(map[string]struct{})
	for _, tok := range t.Tokens(b) {
		bSet[tok] = struct{}{}
	}
	shared := 0
	for _, tok := range aTokens {
		if _, ok := bSet[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(aTokens))
}

// SharedTokens returns the deduplicated content tokens present in both texts.
func (t *Table) SharedTokens(a, b string) []string {
	bSet := make(map[string]struct{})
	for _, tok := range t.Tokens(b) {
		bSet[tok] = struct{}{}
	}
	seen := make(map[string]struct{})
	var shared []string
	for _, tok := range t.Tokens(a) {
		if _, ok := bSet[tok]; !ok {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		shared = append(shared, tok)
	}
	return shared
}

// Load reads a YAML pattern table override from disk and compiles it.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern table: %w", err)
	}
	var tables Tables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("parse pattern table: %w", err)
	}
	return Compile(tables)
}
