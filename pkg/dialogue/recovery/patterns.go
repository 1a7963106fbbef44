package recovery

import (
	"sort"
	"sync"
	"time"

	"ai-dialogue-be/internal/constant"
)

// ErrorPattern tracks a recurring answer-error class across all sessions
// for the lifetime of the process.
type ErrorPattern struct {
	PatternName        string    `json:"pattern_name"`
	Frequency          int       `json:"frequency"`
	LastOccurrence     time.Time `json:"last_occurrence"`
	CorrectionStrategy string    `json:"correction_strategy"`
}

// PatternStore is the process-wide ErrorPattern table. Concurrent
// increments never lose updates; all access goes through the mutex.
type PatternStore struct {
	mu       sync.RWMutex
	patterns map[string]*ErrorPattern
}

// NewPatternStore creates an empty process-wide pattern table.
func NewPatternStore() *PatternStore {
	return &PatternStore{patterns: make(map[string]*ErrorPattern)}
}

// Learn increments the frequency for the pattern key, creating it at
// frequency 1 if new, and returns the updated entry.
func (s *PatternStore) Learn(key string) ErrorPattern {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.patterns[key]
	if !ok {
		entry = &ErrorPattern{PatternName: key}
		s.patterns[key] = entry
	}
	entry.Frequency++
	entry.LastOccurrence = time.Now()
	entry.CorrectionStrategy = strategyForFrequency(entry.Frequency)
	return *entry
}

// Get returns a copy of the entry for the key.
func (s *PatternStore) Get(key string) (ErrorPattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.patterns[key]
	if !ok {
		return ErrorPattern{}, false
	}
	return *entry, true
}

// Snapshot returns all tracked patterns, sorted by descending frequency.
func (s *PatternStore) Snapshot() []ErrorPattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ErrorPattern, 0, len(s.patterns))
	for _, entry := range s.patterns {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].PatternName < out[j].PatternName
	})
	return out
}

// Reset clears the table. Intended for tests and explicit operator resets.
func (s *PatternStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = make(map[string]*ErrorPattern)
}

func strategyForFrequency(frequency int) string {
	switch {
	case frequency >= 3:
		return constant.StrategyHighPriorityResearch
	case frequency >= 2:
		return constant.StrategyEnhancedVerification
	default:
		return constant.StrategyStandardCorrection
	}
}
