package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/vocabflash/internal/models"
)

// MockMistakeRepository is a mock implementation of repository.MistakeRepository
type MockMistakeRepository struct {
	mock.Mock
}

func (m *MockMistakeRepository) Get(ctx context.Context, id int64) (*models.Mistake, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mistake), args.Error(1)
}

func (m *MockMistakeRepository) ListByStudent(ctx context.Context, studentID int64, limit, offset int) ([]models.Mistake, error) {
	args := m.Called(ctx, studentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Mistake), args.Error(1)
}

func (m *MockMistakeRepository) Insert(ctx context.Context, mistake models.Mistake, card models.Card) (*models.Mistake, *models.Card, error) {
	args := m.Called(ctx, mistake, card)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Mistake), args.Get(1).(*models.Card), args.Error(2)
}

func (m *MockMistakeRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
