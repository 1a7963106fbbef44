package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ai-dialogue-be/internal/constant"
	"ai-dialogue-be/internal/dto"
	"ai-dialogue-be/internal/pkg/logger"
	"ai-dialogue-be/internal/repository/contract"
	"ai-dialogue-be/pkg/dialogue/consistency"
	"ai-dialogue-be/pkg/dialogue/intent"
	"ai-dialogue-be/pkg/dialogue/recovery"
	"ai-dialogue-be/pkg/dialogue/topic"
	"ai-dialogue-be/pkg/store"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// IDialogueService is the per-turn analysis surface exposed to callers.
// Every operation is total: analyzer failures degrade to documented safe
// defaults instead of failing the turn.
type IDialogueService interface {
	CreateSession(ctx context.Context) string
	AnalyzeTurn(ctx context.Context, sessionID, question string) (*dto.AnalyzeTurnResponse, error)
	CheckConsistency(ctx context.Context, sessionID, candidateAnswer string) (*dto.CheckConsistencyResponse, error)
	RecordTurn(ctx context.Context, sessionID string, request *dto.RecordTurnRequest) error
	GetHistory(ctx context.Context, sessionID string, filter *dto.HistoryFilter) ([]store.QuestionHistoryItem, error)
	GenerateRecoveryReport(ctx context.Context, sessionID string) (*recovery.RecoveryReport, error)
	DeleteSession(ctx context.Context, sessionID string)
}

// dialogueService coordinates the per-turn analyzers over the context store.
type dialogueService struct {
	contextRepo contract.IContextRepository
	analyzer    *topic.Analyzer
	recognizer  *intent.Recognizer
	recoverySys *recovery.System
	validator   *consistency.Validator
	validate    *validator.Validate
	logger      logger.ILogger

	// Per-session critical sections: appends for one session are
	// serialized, different sessions proceed in parallel.
	sessionLocks sync.Map // sessionID -> *sync.Mutex
}

// NewDialogueService wires the dialogue engine from its analyzers.
func NewDialogueService(
	contextRepo contract.IContextRepository,
	analyzer *topic.Analyzer,
	recognizer *intent.Recognizer,
	recoverySys *recovery.System,
	consistencyValidator *consistency.Validator,
	log logger.ILogger,
) IDialogueService {
	return &dialogueService{
		contextRepo: contextRepo,
		analyzer:    analyzer,
		recognizer:  recognizer,
		recoverySys: recoverySys,
		validator:   consistencyValidator,
		validate:    validator.New(),
		logger:      log,
	}
}

func (s *dialogueService) lockSession(sessionID string) *sync.Mutex {
	mu, _ := s.sessionLocks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// loadOrCreate fetches the session context, creating an empty one lazily
// for unknown sessions. Must be called under the session lock.
func (s *dialogueService) loadOrCreate(sessionID string) *store.ConversationContext {
	if ctx, found := s.contextRepo.Get(sessionID); found {
		return ctx
	}
	return store.NewConversationContext(sessionID)
}

// CreateSession allocates a fresh session id with an empty context.
func (s *dialogueService) CreateSession(_ context.Context) string {
	sessionID := uuid.NewString()
	s.contextRepo.Save(store.NewConversationContext(sessionID))
	return sessionID
}

// AnalyzeTurn runs the pre-answer pipeline for one incoming question:
// topic continuity, intent classification, and, when the message
// challenges a previous answer, correction confirmation with a recovery
// recommendation for the answer-generation collaborator.
func (s *dialogueService) AnalyzeTurn(_ context.Context, sessionID, question string) (*dto.AnalyzeTurnResponse, error) {
	mu := s.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	convCtx := s.loadOrCreate(sessionID)
	s.logStage(sessionID, constant.StageReceived)

	topicResult := s.analyzer.AnalyzeContext(question, convCtx)
	s.logStage(sessionID, constant.StageTopicAnalyzed)

	analysis := s.recognizer.RecognizeIntent(question, convCtx)
	s.logStage(sessionID, constant.StageIntentClassified)

	response := &dto.AnalyzeTurnResponse{
		SessionID:      sessionID,
		Topic:          topicResult.Topic,
		IsTopicShift:   topicResult.IsTopicShift,
		IntentAnalysis: analysis,
	}

	if analysis.IsChallengingPreviousAnswer {
		correction := s.recoverySys.DetectUserCorrection(question, analysis)
		if correction.IsCorrection {
			s.logStage(sessionID, constant.StageCorrectionConfirmed)
			s.recoverySys.LearnErrorPattern(correction.Pattern, convCtx)
			strategy := s.recoverySys.SuggestRecoveryStrategy(correction.Pattern, convCtx)
			response.Recovery = &correction
			response.Strategy = &strategy
			// A wrongly flagged correction only costs the caller one
			// harmless re-research round-trip.
			response.RecommendsResearch = true
		}
	}

	return response, nil
}

// CheckConsistency validates a candidate answer against the full session
// history before the caller commits to it.
func (s *dialogueService) CheckConsistency(_ context.Context, sessionID, candidateAnswer string) (*dto.CheckConsistencyResponse, error) {
	mu := s.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	convCtx := s.loadOrCreate(sessionID)
	result := s.validator.ValidateConsistency(candidateAnswer, convCtx)
	s.logStage(sessionID, constant.StageConsistencyChecked)

	if !result.IsConsistent {
		s.recoverySys.LearnErrorPattern(constant.ErrorTypeConsistencyError, convCtx)
	}

	return &dto.CheckConsistencyResponse{
		SessionID:          sessionID,
		IsConsistent:       result.IsConsistent,
		ConflictingAnswers: result.ConflictingAnswers,
		ConfidenceLevel:    result.ConfidenceLevel,
		RecommendsResearch: result.RecommendsResearch,
	}, nil
}

// RecordTurn appends the finalized question/answer exchange. The store
// assigns the turn index; topic bookkeeping moves the topic boundary when
// the recorded turn starts a new topic.
func (s *dialogueService) RecordTurn(_ context.Context, sessionID string, request *dto.RecordTurnRequest) error {
	if request == nil {
		return fmt.Errorf("record turn: empty request")
	}
	if err := s.validate.Struct(request); err != nil {
		return fmt.Errorf("record turn: %w", err)
	}

	mu := s.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	convCtx := s.loadOrCreate(sessionID)

	timestamp := request.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	item := store.QuestionHistoryItem{
		Question:       request.Question,
		Answer:         request.Answer,
		Topic:          request.Topic,
		Confidence:     request.Confidence,
		WasResearched:  request.WasResearched,
		IntentAnalysis: request.IntentAnalysis,
		Timestamp:      timestamp,
	}

	convCtx.Append(item)
	appended := convCtx.LastItem()

	if request.Topic != "" && request.Topic != convCtx.CurrentTopic {
		convCtx.CurrentTopic = request.Topic
		convCtx.TopicStartTurn = appended.TurnIndex
	}

	s.contextRepo.Save(convCtx)
	s.logStage(sessionID, constant.StageHistoryAppended)
	return nil
}

// GetHistory returns the session history, oldest first, optionally
// filtered by topic and research flag and limited to the most recent N.
// Unknown sessions yield an empty history.
func (s *dialogueService) GetHistory(_ context.Context, sessionID string, filter *dto.HistoryFilter) ([]store.QuestionHistoryItem, error) {
	if filter != nil {
		if err := s.validate.Struct(filter); err != nil {
			return nil, fmt.Errorf("get history: %w", err)
		}
	}

	mu := s.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	convCtx, found := s.contextRepo.Get(sessionID)
	if !found {
		return []store.QuestionHistoryItem{}, nil
	}

	items := make([]store.QuestionHistoryItem, 0, len(convCtx.QuestionHistory))
	for _, item := range convCtx.QuestionHistory {
		if filter != nil {
			if filter.Topic != nil && item.Topic != *filter.Topic {
				continue
			}
			if filter.WasResearched != nil && item.WasResearched != *filter.WasResearched {
				continue
			}
		}
		items = append(items, item)
	}

	if filter != nil && filter.Limit > 0 && len(items) > filter.Limit {
		items = items[len(items)-filter.Limit:]
	}

	return items, nil
}

// GenerateRecoveryReport aggregates likely errors over the session history.
func (s *dialogueService) GenerateRecoveryReport(_ context.Context, sessionID string) (*recovery.RecoveryReport, error) {
	mu := s.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	convCtx, found := s.contextRepo.Get(sessionID)
	if !found {
		return s.recoverySys.GenerateRecoveryReport(nil), nil
	}
	return s.recoverySys.GenerateRecoveryReport(convCtx), nil
}

// DeleteSession drops the session context. The lock entry stays
// registered: removing it while a goroutine still holds the old mutex
// would let a concurrent writer obtain a fresh mutex for the same id and
// break the single-writer discipline.
func (s *dialogueService) DeleteSession(_ context.Context, sessionID string) {
	mu := s.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	s.contextRepo.Delete(sessionID)
}

func (s *dialogueService) logStage(sessionID, stage string) {
	s.logger.Debug("dialogue", "turn stage", map[string]interface{}{
		"session_id": sessionID,
		"stage":      stage,
	})
}
