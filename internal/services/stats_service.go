package services

import (
	"context"
	"time"

	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
)

// StatsService handles statistics-related business logic
type StatsService interface {
	GetCardStats(ctx context.Context, studentID int64, now time.Time) (*models.StudentStats, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) GetCardStats(ctx context.Context, studentID int64, now time.Time) (*models.StudentStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting card stats: student_id=%d", studentID)

	cards, err := s.statsRepo.CardStats(ctx, studentID, now)
	if err != nil {
		log.Error("failed to get card stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	grades, err := s.statsRepo.GradeStats(ctx, studentID)
	if err != nil {
		log.Error("failed to get grade stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if grades == nil {
		grades = []models.GradeStat{}
	}

	return &models.StudentStats{Cards: cards, Grades: grades}, nil
}
