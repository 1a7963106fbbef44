package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"ai-dialogue-be/internal/bootstrap"
	"ai-dialogue-be/internal/config"
	"ai-dialogue-be/internal/dto"
)

// Scripted conversation exercising the full per-turn pipeline: plain
// questions, a follow-up, and a correction that should trigger a recovery
// recommendation.
type scriptedTurn struct {
	question string
	answer   string // produced by the (simulated) external backend
}

func main() {
	fmt.Println("=== Dialogue Engine Simulation ===")

	cfg := config.Load()
	container := bootstrap.NewContainer(cfg)
	svc := container.DialogueService
	ctx := context.Background()

	sessionID := svc.CreateSession(ctx)
	fmt.Printf("Session Created: %s\n", sessionID)

	script := []scriptedTurn{
		{
			question: "How many action cards can I play per turn?",
			answer:   "You can play one action card per turn.",
		},
		{
			question: "What about during the buy phase?",
			answer:   "Action cards cannot be played during the buy phase.",
		},
		{
			question: "Are you sure? I think that's wrong, the rulebook says two.",
			answer:   "You are right, the expansion allows two action cards per turn.",
		},
	}

	for _, turn := range script {
		fmt.Printf("\nUSER: %s\n", turn.question)

		start := time.Now()
		analysis, err := svc.AnalyzeTurn(ctx, sessionID, turn.question)
		if err != nil {
			log.Fatalf("AnalyzeTurn failed: %v", err)
		}
		fmt.Printf("ANALYSIS (%v): topic=%q shift=%v intent=%s challenging=%v confidence=%.2f\n",
			time.Since(start),
			analysis.Topic,
			analysis.IsTopicShift,
			analysis.IntentAnalysis.PrimaryIntent,
			analysis.IntentAnalysis.IsChallengingPreviousAnswer,
			analysis.IntentAnalysis.Confidence,
		)
		if analysis.Recovery != nil {
			fmt.Printf("RECOVERY: intensity=%s confidence=%.2f strategy=%s\n",
				analysis.Recovery.Intensity, analysis.Recovery.Confidence, analysis.Strategy.Strategy)
			fmt.Printf("SUGGESTED: %s\n", analysis.Recovery.SuggestedResponse)
		}

		check, err := svc.CheckConsistency(ctx, sessionID, turn.answer)
		if err != nil {
			log.Fatalf("CheckConsistency failed: %v", err)
		}
		fmt.Printf("CONSISTENCY: consistent=%v conflicts=%d research=%v\n",
			check.IsConsistent, len(check.ConflictingAnswers), check.RecommendsResearch)

		err = svc.RecordTurn(ctx, sessionID, &dto.RecordTurnRequest{
			Question:       turn.question,
			Answer:         turn.answer,
			Topic:          analysis.Topic,
			Confidence:     analysis.IntentAnalysis.Confidence,
			WasResearched:  analysis.RecommendsResearch || check.RecommendsResearch,
			IntentAnalysis: analysis.IntentAnalysis,
		})
		if err != nil {
			log.Fatalf("RecordTurn failed: %v", err)
		}
		fmt.Printf("AI: %s\n", turn.answer)
	}

	history, err := svc.GetHistory(ctx, sessionID, nil)
	if err != nil {
		log.Fatalf("GetHistory failed: %v", err)
	}
	fmt.Printf("\n=== History (%d turns) ===\n", len(history))
	for _, item := range history {
		fmt.Printf("[%d] %s (topic=%q researched=%v)\n", item.TurnIndex, item.Question, item.Topic, item.WasResearched)
	}

	report, err := svc.GenerateRecoveryReport(ctx, sessionID)
	if err != nil {
		log.Fatalf("GenerateRecoveryReport failed: %v", err)
	}
	fmt.Printf("\n=== Recovery Report ===\nerrors=%d rate=%.2f recommendations=%d\n",
		report.DetectedErrors, report.RecoveryRate, len(report.Recommendations))
}
