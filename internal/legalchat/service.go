package legalchat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tradebridge/legalai/internal/ai"
	"github.com/tradebridge/legalai/internal/assistant"
	"github.com/tradebridge/legalai/internal/common"
)

// LiveConfidence is stamped on answers produced by the completion endpoint.
const LiveConfidence = 0.85

const completionAttempts = 2

var (
	ErrSessionNotFound = gorm.ErrRecordNotFound
	ErrJobNotFound     = gorm.ErrRecordNotFound
)

// Service orchestrates memory-aware legal-chat turns: session lifecycle,
// prompt assembly, the completion call, turn persistence and context-fact
// derivation.
type Service struct {
	repo          *Repo
	provider      ai.Provider
	settings      *assistant.Store
	derivers      []FactDeriver
	historyWindow int
	logger        *zap.Logger
}

// NewService wires the orchestrator. settings may be nil (fixed generation
// defaults are used); historyWindow caps how many recent messages feed the
// prompt.
func NewService(repo *Repo, provider ai.Provider, settings *assistant.Store, historyWindow int, logger *zap.Logger) *Service {
	if historyWindow <= 0 || historyWindow > 100 {
		historyWindow = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:          repo,
		provider:      provider,
		settings:      settings,
		derivers:      DefaultFactDerivers,
		historyWindow: historyWindow,
		logger:        logger,
	}
}

// SendMessageWithMemory runs one full turn. It never panics and never
// returns an undisplayable result: completion failures degrade to the
// canned fallback, persistence failures are logged and reported through
// TurnResult.Err, and only a missing session aborts the turn.
func (s *Service) SendMessageWithMemory(ctx context.Context, userID uint64, message, sessionID string) TurnResult {
	lang := DetectLanguage(message)

	hadSession := sessionID != ""
	if !hadSession {
		sess, err := s.CreateChatSession(ctx, userID, "")
		if err != nil {
			s.logger.Error("create session failed", zap.Uint64("user_id", userID), zap.Error(err))
			return TurnResult{
				Response: TechnicalDifficultiesResponse(lang),
				Err:      "failed to create chat session",
			}
		}
		sessionID = sess.SessionID
	} else if err := s.ValidateSessionOwner(ctx, userID, sessionID); err != nil {
		s.logger.Warn("session ownership check failed",
			zap.Uint64("user_id", userID), zap.String("session_id", sessionID), zap.Error(err))
		return TurnResult{
			Response: TechnicalDifficultiesResponse(lang),
			Err:      "session not found",
		}
	}

	// Gather saved facts and recent history concurrently; both are
	// best-effort and degrade to empty on failure.
	var (
		wg     sync.WaitGroup
		facts  []ContextFact
		recent []Message
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		f, err := s.repo.ListContextFacts(ctx, sessionID)
		if err != nil {
			s.logger.Warn("context fact fetch failed", zap.String("session_id", sessionID), zap.Error(err))
			return
		}
		facts = f
	}()
	go func() {
		defer wg.Done()
		m, err := s.repo.ListRecentMessagesDesc(ctx, sessionID, s.historyWindow)
		if err != nil {
			s.logger.Warn("history fetch failed", zap.String("session_id", sessionID), zap.Error(err))
			return
		}
		recent = m
	}()
	wg.Wait()

	// retrieval order is newest-first; the prompt wants oldest-first
	historyAsc := make([]Message, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		historyAsc = append(historyAsc, recent[i])
	}
	contextBlock := BuildContextBlock(historyAsc, facts)

	var cfg *assistant.Settings
	if s.settings != nil {
		cfg = s.settings.Get(ctx)
	}
	opts := ai.Options{
		MaxTokens:   assistant.DefaultMaxTokens,
		Temperature: assistant.DefaultTemperature,
	}
	if cfg != nil {
		if cfg.MaxTokens > 0 {
			opts.MaxTokens = cfg.MaxTokens
		}
		// temperature 0 is a deliberate admin choice, not an unset value
		opts.Temperature = cfg.Temperature
	}

	var resp AIResponse
	text, err := s.complete(ctx, SystemPrompt(cfg), BuildUserTurn(message, contextBlock, lang), opts)
	if err != nil {
		s.logger.Warn("completion failed, serving fallback",
			zap.String("session_id", sessionID), zap.Error(err))
		resp = FallbackResponse(message, lang)
	} else {
		resp = AIResponse{
			Text:          text,
			Suggestions:   ExtractSuggestions(text),
			RelatedTopics: ExtractRelatedTopics(text),
			Confidence:    LiveConfidence,
		}
	}

	// The caller keeps the response even when storage partially fails.
	var errMsg string
	assistantRow := &Message{
		SessionID:     sessionID,
		UserID:        userID,
		ResponseText:  resp.Text,
		MessageType:   MessageTypeAssistant,
		AIConfidence:  resp.Confidence,
		Suggestions:   resp.Suggestions,
		RelatedTopics: resp.RelatedTopics,
		ContextData:   contextBlock,
	}
	userRow := &Message{
		SessionID:     sessionID,
		UserID:        userID,
		MessageText:   message,
		MessageType:   MessageTypeUser,
		Suggestions:   []string{},
		RelatedTopics: []string{},
	}
	if err := s.repo.InsertTurn(ctx, userRow, assistantRow, time.Now()); err != nil {
		s.logger.Error("turn persistence failed",
			zap.String("session_id", sessionID), zap.Error(err))
		errMsg = "failed to save some messages"
	}

	s.deriveFacts(ctx, userID, sessionID, message, resp.Text)

	result := TurnResult{
		Response:           resp,
		AssistantMessageID: assistantRow.ID,
		Err:                errMsg,
	}
	if !hadSession {
		result.NewSessionID = sessionID
	}
	return result
}

// complete calls the provider with bounded retry before the caller falls
// back to canned answers.
func (s *Service) complete(ctx context.Context, system, user string, opts ai.Options) (string, error) {
	if s.provider == nil {
		return "", errors.New("no completion provider configured")
	}
	msgs := []ai.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	return retry.DoWithData(
		func() (string, error) {
			return s.provider.Chat(ctx, msgs, opts)
		},
		retry.Context(ctx),
		retry.Attempts(completionAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("retrying completion call", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
}

// deriveFacts runs every deriver independently; a failure in one never
// affects the others or the already-computed response.
func (s *Service) deriveFacts(ctx context.Context, userID uint64, sessionID, message, response string) {
	for _, derive := range s.derivers {
		fact := derive(message, response)
		if fact == nil {
			continue
		}
		fact.SessionID = sessionID
		fact.UserID = userID
		if err := s.repo.UpsertContextFact(ctx, fact); err != nil {
			s.logger.Warn("context fact upsert failed",
				zap.String("session_id", sessionID),
				zap.String("context_key", fact.ContextKey),
				zap.Error(err))
		}
	}
}

// CreateChatSession opens a fresh session. An empty title defaults to a
// locale-formatted creation date.
func (s *Service) CreateChatSession(ctx context.Context, userID uint64, title string) (*Session, error) {
	sid, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = "Consultation - " + time.Now().Format("January 2, 2006")
	}
	sess := &Session{
		SessionID: sid,
		UserID:    userID,
		Title:     title,
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// GetChatSessions lists a user's sessions, most recently updated first.
func (s *Service) GetChatSessions(ctx context.Context, userID uint64) ([]Session, error) {
	return s.repo.ListSessions(ctx, userID)
}

// GetChatHistory returns every message of a session in chronological order,
// after verifying the session belongs to the user.
func (s *Service) GetChatHistory(ctx context.Context, userID uint64, sessionID string) ([]Message, error) {
	if err := s.ValidateSessionOwner(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListHistoryAsc(ctx, userID, sessionID)
}

// GetConversationHistory returns the most recent messages newest first; the
// caller reverses for display order.
func (s *Service) GetConversationHistory(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	return s.repo.ListRecentMessagesDesc(ctx, sessionID, limit)
}

// GetChatContext returns a session's saved facts, most important first.
func (s *Service) GetChatContext(ctx context.Context, sessionID string) ([]ContextFact, error) {
	return s.repo.ListContextFacts(ctx, sessionID)
}

// SaveChatContext upserts one fact keyed on (session, key).
func (s *Service) SaveChatContext(ctx context.Context, sessionID string, userID uint64, key, value, factType string, importance int) error {
	return s.repo.UpsertContextFact(ctx, &ContextFact{
		SessionID:    sessionID,
		UserID:       userID,
		ContextKey:   key,
		ContextValue: value,
		ContextType:  factType,
		Importance:   importance,
	})
}

// ValidateSessionOwner reports ErrSessionNotFound both for a missing
// session and for one owned by another user.
func (s *Service) ValidateSessionOwner(ctx context.Context, userID uint64, sessionID string) error {
	sess, err := s.repo.GetSessionBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.UserID != userID {
		return ErrSessionNotFound
	}
	return nil
}

// Job plumbing for the async turn pipeline.

func (s *Service) CreateJobOrGetExisting(ctx context.Context, job *Job) (*Job, bool, error) {
	return s.repo.CreateJobOrGetExisting(ctx, job)
}

func (s *Service) GetJob(ctx context.Context, jobID string) (*Job, error) {
	return s.repo.GetJobByID(ctx, jobID)
}
