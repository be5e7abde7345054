package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"examcraft/internal/domain"
	"examcraft/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCatalogServiceForTest() (CatalogService, *MockCatalogRepository, *MockCache) {
	catalogRepo := new(MockCatalogRepository)
	cacheMock := new(MockCache)
	return NewCatalogService(catalogRepo, cacheMock, time.Hour), catalogRepo, cacheMock
}

func TestListExams_CacheMiss(t *testing.T) {
	svc, catalogRepo, cacheMock := newCatalogServiceForTest()
	ctx := context.Background()

	cacheMock.On("Get", ctx, mock.AnythingOfType("string")).Return("", domain.ErrCacheMiss).Once()
	catalogRepo.On("ListExams", ctx).Return([]*domain.Exam{
		{ID: "exam1", Name: "SSC CGL", Description: "desc"},
	}, nil).Once()
	catalogRepo.On("GetTopicsByExamID", ctx, "exam1").Return([]*domain.Topic{
		{ID: "t1", ExamID: "exam1", Name: "Algebra"},
		{ID: "t2", ExamID: "exam1", Name: "Geometry"},
	}, nil).Once()
	cacheMock.On("Set", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), time.Hour).Return(nil).Once()

	exams, err := svc.ListExams(ctx)

	require.NoError(t, err)
	require.Len(t, exams, 1)
	assert.Equal(t, "SSC CGL", exams[0].Name)
	assert.Equal(t, []string{"Algebra", "Geometry"}, exams[0].Topics)
	cacheMock.AssertExpectations(t)
}

func TestListExams_CacheHit(t *testing.T) {
	svc, catalogRepo, cacheMock := newCatalogServiceForTest()
	ctx := context.Background()

	cached := []*dto.ExamResponse{{ID: "exam1", Name: "SSC CGL"}}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	cacheMock.On("Get", ctx, mock.AnythingOfType("string")).Return(string(data), nil).Once()

	exams, err := svc.ListExams(ctx)

	require.NoError(t, err)
	require.Len(t, exams, 1)
	catalogRepo.AssertNotCalled(t, "ListExams", mock.Anything)
}

func TestCreateExam_SeedsTopicsAndInvalidatesCache(t *testing.T) {
	svc, catalogRepo, cacheMock := newCatalogServiceForTest()
	ctx := context.Background()

	catalogRepo.On("CreateExam", ctx, mock.AnythingOfType("*domain.Exam")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Exam).ID = "exam1"
		}).Return(nil).Once()
	catalogRepo.On("CreateTopic", ctx, mock.AnythingOfType("*domain.Topic")).Return(nil).Twice()
	catalogRepo.On("GetTopicsByExamID", ctx, "exam1").Return([]*domain.Topic{
		{ID: "t1", ExamID: "exam1", Name: "Algebra"},
		{ID: "t2", ExamID: "exam1", Name: "Geometry"},
	}, nil).Once()
	cacheMock.On("Delete", ctx, mock.AnythingOfType("string")).Return(nil).Once()

	resp, err := svc.CreateExam(ctx, &dto.CreateExamRequest{
		Name:   "SSC CGL",
		Topics: []string{"Algebra", "Geometry"},
	})

	require.NoError(t, err)
	assert.Equal(t, "exam1", resp.ID)
	assert.Len(t, resp.Topics, 2)
	catalogRepo.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}

func TestGetExam_NotFound(t *testing.T) {
	svc, catalogRepo, _ := newCatalogServiceForTest()
	ctx := context.Background()

	catalogRepo.On("GetExamByID", ctx, "missing").Return(nil, nil).Once()

	_, err := svc.GetExam(ctx, "missing")

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeExamNotFound, domainErr.Code)
}

func TestAddTopic_UnknownExam(t *testing.T) {
	svc, catalogRepo, _ := newCatalogServiceForTest()
	ctx := context.Background()

	catalogRepo.On("GetExamByID", ctx, "missing").Return(nil, nil).Once()

	_, err := svc.AddTopic(ctx, "missing", &dto.CreateTopicRequest{Name: "Algebra"})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeExamNotFound, domainErr.Code)
}

func TestDeleteExam_InvalidatesCache(t *testing.T) {
	svc, catalogRepo, cacheMock := newCatalogServiceForTest()
	ctx := context.Background()

	catalogRepo.On("DeleteExam", ctx, "exam1").Return(nil).Once()
	cacheMock.On("Delete", ctx, mock.AnythingOfType("string")).Return(nil).Once()

	require.NoError(t, svc.DeleteExam(ctx, "exam1"))
	cacheMock.AssertExpectations(t)
}
