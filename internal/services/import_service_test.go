package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/testutil/mocks"
	"github.com/vytor/vocabflash/internal/vocab"
	"github.com/vytor/vocabflash/internal/worker"
)

type mockMistakeService struct {
	mock.Mock
}

func (m *mockMistakeService) LogMistake(ctx context.Context, input models.MistakeInput, now time.Time) (*models.Mistake, *models.Card, error) {
	args := m.Called(ctx, input, now)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Mistake), args.Get(1).(*models.Card), args.Error(2)
}

func (m *mockMistakeService) ListMistakes(ctx context.Context, studentID int64, limit, offset int) ([]models.Mistake, error) {
	args := m.Called(ctx, studentID, limit, offset)
	return args.Get(0).([]models.Mistake), args.Error(1)
}

func (m *mockMistakeService) DeleteMistake(ctx context.Context, studentID, mistakeID int64) error {
	return m.Called(ctx, studentID, mistakeID).Error(0)
}

func TestImportService_ImportVocabulary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	mistakes := new(mockMistakeService)
	svc := NewImportService(mistakes)

	mistakes.On("LogMistake", ctx, mock.MatchedBy(func(in models.MistakeInput) bool {
		return in.StudentID == 1 && in.TutorID == nil
	}), now).Return(&models.Mistake{}, &models.Card{}, nil).Twice()

	res, err := svc.ImportVocabulary(ctx, 1, nil, []vocab.Entry{
		{Term: "uno"}, {Term: ""}, {Term: "dos", Correction: "two"},
	}, now)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	mistakes.AssertExpectations(t)
}

func TestImportService_ImportVocabularyStopsOnError(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	mistakes := new(mockMistakeService)
	svc := NewImportService(mistakes)

	mistakes.On("LogMistake", ctx, mock.Anything, now).Return(nil, nil, apperrors.NewNotFoundError("student", 1)).Once()

	res, err := svc.ImportVocabulary(ctx, 1, nil, []vocab.Entry{{Term: "uno"}, {Term: "dos"}}, now)
	requireAppError(t, err, apperrors.ErrCodeNotFound)
	assert.Zero(t, res.Imported)
	mistakes.AssertNumberOfCalls(t, "LogMistake", 1)
}

func TestImportService_QueueImport(t *testing.T) {
	ctx := context.Background()
	svc := NewImportService(new(mockMistakeService))
	entries := []vocab.Entry{{Term: "uno"}}

	queue := new(mocks.MockJobQueue)
	queue.On("Pending").Return(0)
	queue.On("EnqueueImport", int64(1), (*int64)(nil), entries).Return(nil).Once()
	require.NoError(t, svc.QueueImport(ctx, queue, 1, nil, entries))

	queue.On("EnqueueImport", int64(1), (*int64)(nil), entries).Return(worker.ErrQueueFull).Once()
	err := svc.QueueImport(ctx, queue, 1, nil, entries)
	requireAppError(t, err, apperrors.ErrCodeUnavailable)
	assert.ErrorIs(t, err, worker.ErrQueueFull)
	queue.AssertExpectations(t)
}
