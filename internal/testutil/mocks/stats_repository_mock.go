package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/vocabflash/internal/models"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CardStats(ctx context.Context, studentID int64, now time.Time) (*models.CardStat, error) {
	args := m.Called(ctx, studentID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardStat), args.Error(1)
}

func (m *MockStatsRepository) GradeStats(ctx context.Context, studentID int64) ([]models.GradeStat, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GradeStat), args.Error(1)
}
