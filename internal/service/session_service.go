package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"examcraft/internal/cache"
	"examcraft/internal/domain"
	"examcraft/internal/dto"
	"examcraft/internal/genai"
	"examcraft/internal/logger"

	"go.uber.org/zap"
)

// SessionService orchestrates mock test sessions: generation, retrieval,
// submission and scoring.
type SessionService interface {
	StartSession(ctx context.Context, userID string, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, userID string, p dto.Pagination) ([]*dto.SessionSummary, error)
	SubmitAnswers(ctx context.Context, userID, sessionID string, req *dto.SubmitAnswersRequest) (*dto.SessionResultDTO, error)
	GetResult(ctx context.Context, userID, sessionID string) (*dto.SessionResultResponse, error)
	AdminListSessions(ctx context.Context, p dto.Pagination) ([]*dto.SessionSummary, error)
	AdminDeleteSession(ctx context.Context, sessionID string) error
}

type sessionServiceImpl struct {
	sessionRepo    domain.SessionRepository
	questionRepo   domain.QuestionRepository
	catalogRepo    domain.CatalogRepository
	generator      *genai.Generator
	cache          domain.Cache
	resultCacheTTL time.Duration
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	sessionRepo domain.SessionRepository,
	questionRepo domain.QuestionRepository,
	catalogRepo domain.CatalogRepository,
	generator *genai.Generator,
	cacheClient domain.Cache,
	resultCacheTTL time.Duration,
) SessionService {
	return &sessionServiceImpl{
		sessionRepo:    sessionRepo,
		questionRepo:   questionRepo,
		catalogRepo:    catalogRepo,
		generator:      generator,
		cache:          cacheClient,
		resultCacheTTL: resultCacheTTL,
	}
}

// StartSession generates questions for the requested exam and topics and
// persists the session together with its questions. When generation comes
// up short the session is created with the real question count.
func (s *sessionServiceImpl) StartSession(ctx context.Context, userID string, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	appLogger := logger.Get()

	exam, err := s.catalogRepo.GetExamByName(ctx, req.ExamType)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up exam", err)
	}
	if exam == nil {
		return nil, domain.NewExamNotFoundError(req.ExamType)
	}

	genReq := &domain.GenerationRequest{
		ExamType:     exam.Name,
		Topics:       req.Topics,
		NumQuestions: req.NumQuestions,
		Difficulty:   req.Difficulty,
		SessionType:  req.SessionType,
		Medium:       req.Medium,
	}

	result, err := s.generator.Generate(ctx, genReq)
	if err != nil {
		return nil, err
	}
	if len(result.Questions) == 0 {
		return nil, domain.NewGenerationFailedError(nil)
	}
	if result.Shortfall > 0 {
		appLogger.Warn("Session starting below requested question count",
			zap.String("userID", userID),
			zap.Int("requested", genReq.NumQuestions),
			zap.Int("generated", len(result.Questions)),
		)
	}

	session := &domain.ExamSession{
		UserID:          userID,
		ExamType:        exam.Name,
		SessionType:     genReq.SessionType,
		Difficulty:      genReq.Difficulty,
		Medium:          genReq.Medium,
		Topics:          genReq.Topics,
		NumQuestions:    len(result.Questions),
		DurationMinutes: req.DurationMinutes,
		Status:          domain.SessionStatusActive,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, domain.NewInternalError("failed to create session", err)
	}

	questions := make([]*domain.Question, 0, len(result.Questions))
	for i, c := range result.Questions {
		questions = append(questions, &domain.Question{
			SessionID:     session.ID,
			QuestionIndex: i + 1,
			Topic:         c.Topic,
			Difficulty:    c.Difficulty,
			QuestionText:  c.QuestionText,
			OptionA:       c.OptionA,
			OptionB:       c.OptionB,
			OptionC:       c.OptionC,
			OptionD:       c.OptionD,
			CorrectOption: c.CorrectOption,
			Explanation:   c.Explanation,
		})
	}
	if err := s.questionRepo.CreateQuestions(ctx, questions); err != nil {
		// Best effort: do not leave a question-less session behind.
		if delErr := s.sessionRepo.DeleteSession(ctx, session.ID); delErr != nil {
			appLogger.Error("Failed to roll back session after question insert failure",
				zap.String("sessionID", session.ID), zap.Error(delErr))
		}
		return nil, domain.NewInternalError("failed to persist questions", err)
	}

	appLogger.Info("Session started",
		zap.String("sessionID", session.ID),
		zap.String("userID", userID),
		zap.String("examType", exam.Name),
		zap.Int("questions", len(questions)),
	)
	return toSessionResponse(session, questions, false), nil
}

// GetSession returns the session with its questions. Correct options and
// explanations stay hidden until the session has been submitted.
func (s *sessionServiceImpl) GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.loadOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.GetQuestionsBySessionID(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}
	reveal := session.Status == domain.SessionStatusSubmitted
	return toSessionResponse(session, questions, reveal), nil
}

// ListSessions returns the user's sessions, newest first.
func (s *sessionServiceImpl) ListSessions(ctx context.Context, userID string, p dto.Pagination) ([]*dto.SessionSummary, error) {
	p.Normalize()
	sessions, err := s.sessionRepo.GetSessionsByUserID(ctx, userID, p.Limit, p.Offset)
	if err != nil {
		return nil, domain.NewInternalError("failed to list sessions", err)
	}
	summaries := make([]*dto.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, toSessionSummary(sess))
	}
	return summaries, nil
}

// SubmitAnswers scores the session and marks it submitted. A second submit
// of the same session fails with a session-already-submitted error.
func (s *sessionServiceImpl) SubmitAnswers(ctx context.Context, userID, sessionID string, req *dto.SubmitAnswersRequest) (*dto.SessionResultDTO, error) {
	appLogger := logger.Get()

	session, err := s.loadOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusActive {
		return nil, domain.NewSessionSubmittedError(sessionID)
	}

	questions, err := s.questionRepo.GetQuestionsBySessionID(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}

	result := domain.ScoreSession(sessionID, questions, req.Answers)
	submittedAt := time.Now()

	if err := s.questionRepo.SaveSelectedOptions(ctx, sessionID, req.Answers); err != nil {
		return nil, domain.NewInternalError("failed to save answers", err)
	}
	if err := s.sessionRepo.MarkSubmitted(ctx, sessionID, result, submittedAt); err != nil {
		return nil, err
	}

	s.invalidateResultCache(ctx, sessionID)

	appLogger.Info("Session submitted",
		zap.String("sessionID", sessionID),
		zap.String("userID", userID),
		zap.Int("correct", result.Correct),
		zap.Float64("percentage", result.Percentage),
	)
	return toResultDTO(result), nil
}

// GetResult returns the scored result with the full question review. The
// response is cached since a submitted session never changes.
func (s *sessionServiceImpl) GetResult(ctx context.Context, userID, sessionID string) (*dto.SessionResultResponse, error) {
	appLogger := logger.Get()
	cacheKey := s.resultCacheKey(sessionID)

	session, err := s.loadOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusSubmitted || session.Result == nil {
		return nil, domain.NewInvalidInputError("session has not been submitted")
	}

	if s.cache != nil {
		cached, cacheErr := s.cache.Get(ctx, cacheKey)
		if cacheErr == nil && cached != "" {
			var resp dto.SessionResultResponse
			if jsonErr := json.Unmarshal([]byte(cached), &resp); jsonErr == nil {
				return &resp, nil
			}
			appLogger.Warn("Failed to unmarshal cached session result", zap.String("sessionID", sessionID))
		} else if cacheErr != nil && cacheErr != domain.ErrCacheMiss {
			appLogger.Warn("Session result cache read failed", zap.String("sessionID", sessionID), zap.Error(cacheErr))
		}
	}

	questions, err := s.questionRepo.GetQuestionsBySessionID(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}

	resp := &dto.SessionResultResponse{
		Result:    toResultDTO(session.Result),
		Questions: toQuestionResponses(questions, true),
	}

	if s.cache != nil {
		if data, jsonErr := json.Marshal(resp); jsonErr == nil {
			if setErr := s.cache.Set(ctx, cacheKey, string(data), s.resultCacheTTL); setErr != nil {
				appLogger.Warn("Session result cache write failed", zap.String("sessionID", sessionID), zap.Error(setErr))
			}
		}
	}
	return resp, nil
}

// AdminListSessions returns sessions across all users, newest first.
func (s *sessionServiceImpl) AdminListSessions(ctx context.Context, p dto.Pagination) ([]*dto.SessionSummary, error) {
	p.Normalize()
	sessions, err := s.sessionRepo.ListSessions(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, domain.NewInternalError("failed to list sessions", err)
	}
	summaries := make([]*dto.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, toSessionSummary(sess))
	}
	return summaries, nil
}

// AdminDeleteSession removes a session regardless of owner. Questions
// cascade with the session.
func (s *sessionServiceImpl) AdminDeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	s.invalidateResultCache(ctx, sessionID)
	logger.Get().Info("Session deleted by admin", zap.String("sessionID", sessionID))
	return nil
}

// loadOwnedSession fetches the session and verifies ownership.
func (s *sessionServiceImpl) loadOwnedSession(ctx context.Context, userID, sessionID string) (*domain.ExamSession, error) {
	session, err := s.sessionRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load session", err)
	}
	if session == nil {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	if session.UserID != userID {
		return nil, domain.NewForbiddenError(fmt.Sprintf("session %s does not belong to the caller", sessionID))
	}
	return session, nil
}

func (s *sessionServiceImpl) resultCacheKey(sessionID string) string {
	return cache.GenerateCacheKey("session", "result", sessionID)
}

func (s *sessionServiceImpl) invalidateResultCache(ctx context.Context, sessionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.resultCacheKey(sessionID)); err != nil {
		logger.Get().Warn("Failed to invalidate session result cache",
			zap.String("sessionID", sessionID), zap.Error(err))
	}
}

func toSessionResponse(session *domain.ExamSession, questions []*domain.Question, reveal bool) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:              session.ID,
		ExamType:        session.ExamType,
		SessionType:     session.SessionType,
		Difficulty:      session.Difficulty,
		Medium:          session.Medium,
		Topics:          session.Topics,
		NumQuestions:    session.NumQuestions,
		DurationMinutes: session.DurationMinutes,
		Status:          session.Status,
		CreatedAt:       session.CreatedAt,
		SubmittedAt:     session.SubmittedAt,
		Questions:       toQuestionResponses(questions, reveal),
	}
	if session.Result != nil {
		resp.Result = toResultDTO(session.Result)
	}
	return resp
}

func toSessionSummary(session *domain.ExamSession) *dto.SessionSummary {
	summary := &dto.SessionSummary{
		ID:           session.ID,
		ExamType:     session.ExamType,
		SessionType:  session.SessionType,
		Difficulty:   session.Difficulty,
		Topics:       session.Topics,
		NumQuestions: session.NumQuestions,
		Status:       session.Status,
		CreatedAt:    session.CreatedAt,
		SubmittedAt:  session.SubmittedAt,
	}
	if session.Result != nil {
		summary.Result = toResultDTO(session.Result)
	}
	return summary
}

func toQuestionResponses(questions []*domain.Question, reveal bool) []*dto.QuestionResponse {
	out := make([]*dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		resp := &dto.QuestionResponse{
			ID:             q.ID,
			QuestionIndex:  q.QuestionIndex,
			Topic:          q.Topic,
			Difficulty:     q.Difficulty,
			QuestionText:   q.QuestionText,
			OptionA:        q.OptionA,
			OptionB:        q.OptionB,
			OptionC:        q.OptionC,
			OptionD:        q.OptionD,
			SelectedOption: q.SelectedOption,
		}
		if reveal {
			resp.CorrectOption = q.CorrectOption
			resp.Explanation = q.Explanation
		}
		out = append(out, resp)
	}
	return out
}

func toResultDTO(r *domain.SessionResult) *dto.SessionResultDTO {
	return &dto.SessionResultDTO{
		SessionID:   r.SessionID,
		Total:       r.Total,
		Correct:     r.Correct,
		Incorrect:   r.Incorrect,
		Unattempted: r.Unattempted,
		Percentage:  r.Percentage,
	}
}
