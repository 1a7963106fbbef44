package recovery

import (
	"math/rand"
	"sync"

	"ai-dialogue-be/pkg/store"
)

// TemplateSelector picks an index into an apology template pool.
// Production uses the seeded random selector for user-facing variety;
// tests swap in the deterministic round-robin selector.
type TemplateSelector interface {
	Select(poolSize int) int
}

// RandomSelector chooses templates with a seedable RNG.
type RandomSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSelector creates a selector seeded for reproducibility.
func NewRandomSelector(seed int64) *RandomSelector {
	return &RandomSelector{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomSelector) Select(poolSize int) int {
	if poolSize <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(poolSize)
}

// RoundRobinSelector cycles through pools deterministically.
type RoundRobinSelector struct {
	mu   sync.Mutex
	next int
}

func (s *RoundRobinSelector) Select(poolSize int) int {
	if poolSize <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.next % poolSize
	s.next++
	return idx
}

// apologyPools keys response templates by correction intensity tier.
var apologyPools = map[store.CorrectionIntensity][]string{
	store.IntensityStrong: {
		"You're right, my previous answer was wrong. Let me look into this again.",
		"I apologize, that answer was incorrect. I'll re-check the sources.",
		"Sorry about that, I clearly got it wrong. Let me verify the correct answer.",
	},
	store.IntensityCorrection: {
		"Thank you for the correction. Let me confirm that against the sources.",
		"Got it, I'll take your correction and re-verify the answer.",
	},
	store.IntensityMedium: {
		"You may be right, let me double-check my previous answer.",
		"That's a fair concern. I'll re-verify what I said.",
	},
	store.IntensityReview: {
		"Of course, let me check that again for you.",
		"Sure, I'll re-verify the previous answer.",
	},
	store.IntensityDoubt: {
		"I understand the doubt. Let me re-examine the answer.",
		"Fair point, I'll take another look to be certain.",
	},
	store.IntensityWeak: {
		"Let me make sure the previous answer was accurate.",
		"Good question, I'll confirm whether that was right.",
	},
	store.IntensityNone: {
		"Let me verify the previous answer to be safe.",
	},
}

func (s *System) pickTemplate(intensity store.CorrectionIntensity) string {
	pool, ok := apologyPools[intensity]
	if !ok || len(pool) == 0 {
		pool = apologyPools[store.IntensityNone]
	}
	return pool[s.selector.Select(len(pool))]
}
