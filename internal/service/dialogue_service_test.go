package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-dialogue-be/internal/constant"
	"ai-dialogue-be/internal/dto"
	"ai-dialogue-be/internal/pkg/logger"
	"ai-dialogue-be/internal/repository/memory"
	"ai-dialogue-be/pkg/dialogue/consistency"
	"ai-dialogue-be/pkg/dialogue/intent"
	"ai-dialogue-be/pkg/dialogue/pattern"
	"ai-dialogue-be/pkg/dialogue/recovery"
	"ai-dialogue-be/pkg/dialogue/topic"
	"ai-dialogue-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) IDialogueService {
	t.Helper()

	table := pattern.Default()
	log := logger.NewNopLogger()
	repo := memory.NewContextRepository(time.Hour, time.Hour)
	recoverySys := recovery.NewSystem(table, recovery.NewPatternStore(), &recovery.RoundRobinSelector{}, log)

	return NewDialogueService(
		repo,
		topic.NewAnalyzer(table, log),
		intent.NewRecognizer(table, log),
		recoverySys,
		consistency.NewValidator(table, log),
		log,
	)
}

func recordTurn(t *testing.T, svc IDialogueService, sessionID, question, answer, topicLabel string) {
	t.Helper()
	err := svc.RecordTurn(context.Background(), sessionID, &dto.RecordTurnRequest{
		Question:   question,
		Answer:     answer,
		Topic:      topicLabel,
		Confidence: 0.8,
	})
	require.NoError(t, err)
}

func TestCreateSessionIsEmpty(t *testing.T) {
	svc := newTestService(t)

	sessionID := svc.CreateSession(context.Background())
	require.NotEmpty(t, sessionID)

	history, err := svc.GetHistory(context.Background(), sessionID, nil)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRecordTurnAssignsGaplessIndexes(t *testing.T) {
	svc := newTestService(t)
	sessionID := svc.CreateSession(context.Background())

	for i := 0; i < 5; i++ {
		recordTurn(t, svc, sessionID, fmt.Sprintf("question %d", i), "answer", "rules")
	}

	history, err := svc.GetHistory(context.Background(), sessionID, nil)
	require.NoError(t, err)
	require.Len(t, history, 5)
	for i, item := range history {
		assert.Equal(t, i, item.TurnIndex)
	}
}

func TestRecordTurnConcurrentSameSession(t *testing.T) {
	svc := newTestService(t)
	sessionID := svc.CreateSession(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			recordTurn(t, svc, sessionID, fmt.Sprintf("question %d", n), "answer", "rules")
		}(i)
	}
	wg.Wait()

	history, err := svc.GetHistory(context.Background(), sessionID, nil)
	require.NoError(t, err)
	require.Len(t, history, 30)

	seen := make(map[int]bool)
	for _, item := range history {
		assert.False(t, seen[item.TurnIndex], "duplicate turn index %d", item.TurnIndex)
		seen[item.TurnIndex] = true
	}
	for i := 0; i < 30; i++ {
		assert.True(t, seen[i], "missing turn index %d", i)
	}
}

func TestRecordTurnMovesTopicBoundary(t *testing.T) {
	svc := newTestService(t)
	sessionID := svc.CreateSession(context.Background())

	recordTurn(t, svc, sessionID, "q0", "a0", "action phase")
	recordTurn(t, svc, sessionID, "q1", "a1", "action phase")
	recordTurn(t, svc, sessionID, "q2", "a2", "victory scoring")

	// A follow-up on the new topic continues it.
	result, err := svc.AnalyzeTurn(context.Background(), sessionID, "How is victory counted at the end?")
	require.NoError(t, err)
	assert.Equal(t, "victory scoring", result.Topic)
	assert.False(t, result.IsTopicShift)
}

func TestRecordTurnValidation(t *testing.T) {
	svc := newTestService(t)
	sessionID := svc.CreateSession(context.Background())

	err := svc.RecordTurn(context.Background(), sessionID, nil)
	assert.Error(t, err)

	err = svc.RecordTurn(context.Background(), sessionID, &dto.RecordTurnRequest{
		Answer: "an answer without a question", Confidence: 0.5,
	})
	assert.Error(t, err)

	err = svc.RecordTurn(context.Background(), sessionID, &dto.RecordTurnRequest{
		Question: "q", Answer: "a", Confidence: 1.5,
	})
	assert.Error(t, err)

	history, err := svc.GetHistory(context.Background(), sessionID, nil)
	require.NoError(t, err)
	assert.Empty(t, history, "rejected requests must not be recorded")
}

func TestRecordTurnLazySessionCreation(t *testing.T) {
	svc := newTestService(t)

	// No CreateSession call: recording against a fresh id just works.
	recordTurn(t, svc, "external-id", "q0", "a0", "rules")

	history, err := svc.GetHistory(context.Background(), "external-id", nil)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 0, history[0].TurnIndex)
}

func TestAnalyzeTurnCorrectionFlow(t *testing.T) {
	svc := newTestService(t)
	sessionID := svc.CreateSession(context.Background())
	recordTurn(t, svc, sessionID, "How many action cards can I play?", "You can play one action card per turn.", "action cards")

	result, err := svc.AnalyzeTurn(context.Background(), sessionID, "That's completely wrong, the rulebook says two.")
	require.NoError(t, err)

	require.NotNil(t, result.IntentAnalysis)
	assert.True(t, result.IntentAnalysis.IsChallengingPreviousAnswer)
	require.NotNil(t, result.Recovery)
	assert.Equal(t, store.IntensityStrong, result.Recovery.Intensity)
	require.NotNil(t, result.Strategy)
	assert.NotEmpty(t, result.Strategy.Strategy)
	assert.True(t, result.RecommendsResearch)
}

func TestAnalyzeTurnLearnsPerCorrectionPattern(t *testing.T) {
	svc := newTestService(t)
	sessionID := svc.CreateSession(context.Background())
	recordTurn(t, svc, sessionID, "How many action cards can I play?", "You can play one action card per turn.", "action cards")

	// Repeats of the same correction pattern escalate the strategy.
	var result *dto.AnalyzeTurnResponse
	var err error
	for i := 0; i < 3; i++ {
		result, err = svc.AnalyzeTurn(context.Background(), sessionID, "That's completely wrong, the rulebook says two.")
		require.NoError(t, err)
		require.NotNil(t, result.Strategy)
	}
	assert.Equal(t, constant.StrategyHighPriorityResearch, result.Strategy.Strategy)

	// A different correction pattern starts from the bottom of the ladder.
	result, err = svc.AnalyzeTurn(context.Background(), sessionID, "Actually, it's two action cards per turn.")
	require.NoError(t, err)
	require.NotNil(t, result.Strategy)
	assert.Equal(t, constant.StrategyStandardCorrection, result.Strategy.Strategy)
}

func TestAnalyzeTurnPlainQuestion(t *testing.T) {
	svc := newTestService(t)
	sessionID := svc.CreateSession(context.Background())

	result, err := svc.AnalyzeTurn(context.Background(), sessionID, "How does the buy phase work?")
	require.NoError(t, err)

	assert.Equal(t, store.IntentQuestion, result.IntentAnalysis.PrimaryIntent)
	assert.Nil(t, result.Recovery)
	assert.Nil(t, result.Strategy)
	assert.False(t, result.RecommendsResearch)
}

func TestCheckConsistencyFlagsContradiction(t *testing.T) {
	svc := newTestService(t)
	sessionID := svc.CreateSession(context.Background())
	recordTurn(t, svc, sessionID, "Can I play the same action twice?", "Playing the same action twice is impossible.", "action cards")

	result, err := svc.CheckConsistency(context.Background(), sessionID, "Playing the same action twice is possible.")
	require.NoError(t, err)

	assert.False(t, result.IsConsistent)
	require.Len(t, result.ConflictingAnswers, 1)
	assert.True(t, result.RecommendsResearch)

	result, err = svc.CheckConsistency(context.Background(), sessionID, "The buy phase comes second.")
	require.NoError(t, err)
	assert.True(t, result.IsConsistent)
}

func TestGetHistoryFilters(t *testing.T) {
	svc := newTestService(t)
	sessionID := svc.CreateSession(context.Background())

	err := svc.RecordTurn(context.Background(), sessionID, &dto.RecordTurnRequest{
		Question: "q0", Answer: "a0", Topic: "setup", Confidence: 0.9,
	})
	require.NoError(t, err)
	err = svc.RecordTurn(context.Background(), sessionID, &dto.RecordTurnRequest{
		Question: "q1", Answer: "a1", Topic: "scoring", Confidence: 0.8, WasResearched: true,
	})
	require.NoError(t, err)
	err = svc.RecordTurn(context.Background(), sessionID, &dto.RecordTurnRequest{
		Question: "q2", Answer: "a2", Topic: "scoring", Confidence: 0.7,
	})
	require.NoError(t, err)

	topicLabel := "scoring"
	history, err := svc.GetHistory(context.Background(), sessionID, &dto.HistoryFilter{Topic: &topicLabel})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "q1", history[0].Question)
	assert.Equal(t, "q2", history[1].Question)

	researched := true
	history, err = svc.GetHistory(context.Background(), sessionID, &dto.HistoryFilter{Topic: &topicLabel, WasResearched: &researched})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "q1", history[0].Question)

	history, err = svc.GetHistory(context.Background(), sessionID, &dto.HistoryFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "q1", history[0].Question, "limit keeps the most recent turns")

	_, err = svc.GetHistory(context.Background(), sessionID, &dto.HistoryFilter{Limit: -1})
	assert.Error(t, err)
}

func TestGetHistoryUnknownSession(t *testing.T) {
	svc := newTestService(t)

	history, err := svc.GetHistory(context.Background(), "never-seen", nil)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestGenerateRecoveryReportThroughService(t *testing.T) {
	svc := newTestService(t)
	sessionID := svc.CreateSession(context.Background())

	err := svc.RecordTurn(context.Background(), sessionID, &dto.RecordTurnRequest{
		Question: "q0", Answer: "It is probably seven.", Topic: "setup", Confidence: 0.4,
	})
	require.NoError(t, err)
	err = svc.RecordTurn(context.Background(), sessionID, &dto.RecordTurnRequest{
		Question: "q1", Answer: "The deck holds ten cards.", Topic: "setup", Confidence: 0.9,
	})
	require.NoError(t, err)

	report, err := svc.GenerateRecoveryReport(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, report.SessionID)
	assert.Equal(t, 2, report.TotalTurns)
	assert.Equal(t, 1, report.DetectedErrors)

	report, err = svc.GenerateRecoveryReport(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Zero(t, report.TotalTurns)
}

func TestDeleteSession(t *testing.T) {
	svc := newTestService(t)
	sessionID := svc.CreateSession(context.Background())
	recordTurn(t, svc, sessionID, "q0", "a0", "rules")

	svc.DeleteSession(context.Background(), sessionID)

	history, err := svc.GetHistory(context.Background(), sessionID, nil)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDeleteSessionKeepsLockRegistered(t *testing.T) {
	svc := newTestService(t).(*dialogueService)
	sessionID := svc.CreateSession(context.Background())

	before := svc.lockSession(sessionID)
	svc.DeleteSession(context.Background(), sessionID)

	// Writers racing a delete must keep serializing on the same mutex.
	assert.Same(t, before, svc.lockSession(sessionID))
}

func TestDeleteSessionConcurrentWithRecord(t *testing.T) {
	svc := newTestService(t)
	sessionID := svc.CreateSession(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			recordTurn(t, svc, sessionID, fmt.Sprintf("question %d", n), "answer", "rules")
		}(i)
		if i == 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				svc.DeleteSession(context.Background(), sessionID)
			}()
		}
	}
	wg.Wait()

	// Whatever survived the delete must still be gapless from zero.
	history, err := svc.GetHistory(context.Background(), sessionID, nil)
	require.NoError(t, err)
	for i, item := range history {
		assert.Equal(t, i, item.TurnIndex)
	}
}
