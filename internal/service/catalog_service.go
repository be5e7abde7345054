package service

import (
	"context"
	"encoding/json"
	"time"

	"examcraft/internal/cache"
	"examcraft/internal/domain"
	"examcraft/internal/dto"
	"examcraft/internal/logger"

	"go.uber.org/zap"
)

// CatalogService exposes the exam catalog: the public listing plus the
// back-office CRUD surface.
type CatalogService interface {
	ListExams(ctx context.Context) ([]*dto.ExamResponse, error)
	GetExam(ctx context.Context, id string) (*dto.ExamResponse, error)
	CreateExam(ctx context.Context, req *dto.CreateExamRequest) (*dto.ExamResponse, error)
	UpdateExam(ctx context.Context, id string, req *dto.UpdateExamRequest) (*dto.ExamResponse, error)
	DeleteExam(ctx context.Context, id string) error
	AddTopic(ctx context.Context, examID string, req *dto.CreateTopicRequest) (*dto.TopicResponse, error)
	DeleteTopic(ctx context.Context, id string) error
}

type catalogServiceImpl struct {
	catalogRepo domain.CatalogRepository
	cache       domain.Cache
	cacheTTL    time.Duration
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalogRepo domain.CatalogRepository, cacheClient domain.Cache, cacheTTL time.Duration) CatalogService {
	return &catalogServiceImpl{
		catalogRepo: catalogRepo,
		cache:       cacheClient,
		cacheTTL:    cacheTTL,
	}
}

const catalogCacheIdentifier = "all"

// ListExams returns all exams with their topic names. The catalog changes
// rarely so the full listing is cached.
func (s *catalogServiceImpl) ListExams(ctx context.Context) ([]*dto.ExamResponse, error) {
	appLogger := logger.Get()
	cacheKey := s.listCacheKey()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil && cached != "" {
			var exams []*dto.ExamResponse
			if jsonErr := json.Unmarshal([]byte(cached), &exams); jsonErr == nil {
				return exams, nil
			}
			appLogger.Warn("Failed to unmarshal cached exam catalog")
		} else if err != nil && err != domain.ErrCacheMiss {
			appLogger.Warn("Exam catalog cache read failed", zap.Error(err))
		}
	}

	exams, err := s.catalogRepo.ListExams(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list exams", err)
	}

	out := make([]*dto.ExamResponse, 0, len(exams))
	for _, exam := range exams {
		resp, err := s.toExamResponse(ctx, exam)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}

	if s.cache != nil {
		if data, jsonErr := json.Marshal(out); jsonErr == nil {
			if setErr := s.cache.Set(ctx, cacheKey, string(data), s.cacheTTL); setErr != nil {
				appLogger.Warn("Exam catalog cache write failed", zap.Error(setErr))
			}
		}
	}
	return out, nil
}

func (s *catalogServiceImpl) GetExam(ctx context.Context, id string) (*dto.ExamResponse, error) {
	exam, err := s.catalogRepo.GetExamByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load exam", err)
	}
	if exam == nil {
		return nil, domain.NewExamNotFoundError(id)
	}
	return s.toExamResponse(ctx, exam)
}

func (s *catalogServiceImpl) CreateExam(ctx context.Context, req *dto.CreateExamRequest) (*dto.ExamResponse, error) {
	exam := &domain.Exam{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.catalogRepo.CreateExam(ctx, exam); err != nil {
		return nil, err
	}
	for _, topicName := range req.Topics {
		topic := &domain.Topic{ExamID: exam.ID, Name: topicName}
		if err := s.catalogRepo.CreateTopic(ctx, topic); err != nil {
			return nil, err
		}
	}
	s.invalidateListCache(ctx)
	logger.Get().Info("Exam created", zap.String("examID", exam.ID), zap.String("name", exam.Name))
	return s.toExamResponse(ctx, exam)
}

func (s *catalogServiceImpl) UpdateExam(ctx context.Context, id string, req *dto.UpdateExamRequest) (*dto.ExamResponse, error) {
	exam, err := s.catalogRepo.GetExamByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load exam", err)
	}
	if exam == nil {
		return nil, domain.NewExamNotFoundError(id)
	}
	exam.Name = req.Name
	exam.Description = req.Description
	if err := s.catalogRepo.UpdateExam(ctx, exam); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)
	return s.toExamResponse(ctx, exam)
}

func (s *catalogServiceImpl) DeleteExam(ctx context.Context, id string) error {
	if err := s.catalogRepo.DeleteExam(ctx, id); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	logger.Get().Info("Exam deleted", zap.String("examID", id))
	return nil
}

func (s *catalogServiceImpl) AddTopic(ctx context.Context, examID string, req *dto.CreateTopicRequest) (*dto.TopicResponse, error) {
	exam, err := s.catalogRepo.GetExamByID(ctx, examID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load exam", err)
	}
	if exam == nil {
		return nil, domain.NewExamNotFoundError(examID)
	}

	topic := &domain.Topic{ExamID: examID, Name: req.Name}
	if err := s.catalogRepo.CreateTopic(ctx, topic); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)
	return &dto.TopicResponse{ID: topic.ID, ExamID: topic.ExamID, Name: topic.Name}, nil
}

func (s *catalogServiceImpl) DeleteTopic(ctx context.Context, id string) error {
	if err := s.catalogRepo.DeleteTopic(ctx, id); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	return nil
}

func (s *catalogServiceImpl) toExamResponse(ctx context.Context, exam *domain.Exam) (*dto.ExamResponse, error) {
	topics, err := s.catalogRepo.GetTopicsByExamID(ctx, exam.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load topics", err)
	}
	topicNames := make([]string, 0, len(topics))
	for _, t := range topics {
		topicNames = append(topicNames, t.Name)
	}
	return &dto.ExamResponse{
		ID:          exam.ID,
		Name:        exam.Name,
		Description: exam.Description,
		Topics:      topicNames,
	}, nil
}

func (s *catalogServiceImpl) listCacheKey() string {
	return cache.GenerateCacheKey("catalog", "exams", catalogCacheIdentifier)
}

func (s *catalogServiceImpl) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.listCacheKey()); err != nil {
		logger.Get().Warn("Failed to invalidate exam catalog cache", zap.Error(err))
	}
}
