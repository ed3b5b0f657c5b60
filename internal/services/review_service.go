package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/srs"
)

const (
	defaultHistoryLimit = 50
	// defaultBatchSize matches the REVIEW_BATCH_SIZE default.
	defaultBatchSize = 20
)

// ReviewService runs review sessions: it hands out due cards and applies
// graded answers to them.
type ReviewService interface {
	NextCard(ctx context.Context, studentID int64, now time.Time) (*models.CardWithMistake, error)
	DueCards(ctx context.Context, studentID int64, now time.Time, limit int) ([]models.CardWithMistake, error)
	ListCards(ctx context.Context, filter models.CardFilter) ([]models.CardWithMistake, int, error)
	ReviewCard(ctx context.Context, input models.ReviewInput, now time.Time) (*models.Card, error)
	History(ctx context.Context, cardID string, studentID int64, limit int) ([]models.ReviewLog, error)
}

type reviewService struct {
	cardRepo  repository.CardRepository
	batchSize int
}

// NewReviewService creates a new ReviewService. batchSize caps how many due
// cards one request may fetch.
func NewReviewService(cardRepo repository.CardRepository, batchSize int) ReviewService {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &reviewService{cardRepo: cardRepo, batchSize: batchSize}
}

func (s *reviewService) NextCard(ctx context.Context, studentID int64, now time.Time) (*models.CardWithMistake, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting next card: student_id=%d", studentID)

	cards, err := s.cardRepo.NextDue(ctx, studentID, now, 1)
	if err != nil {
		log.Error("failed to get next due card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if len(cards) == 0 {
		log.Debug("no cards due for review")
		return nil, nil
	}
	return &cards[0], nil
}

func (s *reviewService) DueCards(ctx context.Context, studentID int64, now time.Time, limit int) ([]models.CardWithMistake, error) {
	log := logger.FromContext(ctx)

	if limit <= 0 || limit > s.batchSize {
		limit = s.batchSize
	}
	log.Debug("getting due cards: student_id=%d, limit=%d", studentID, limit)

	cards, err := s.cardRepo.NextDue(ctx, studentID, now, limit)
	if err != nil {
		log.Error("failed to get due cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *reviewService) ListCards(ctx context.Context, filter models.CardFilter) ([]models.CardWithMistake, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards: student_id=%d", filter.StudentID)

	cards, err := s.cardRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	total, err := s.cardRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count cards: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return cards, total, nil
}

func (s *reviewService) ReviewCard(ctx context.Context, input models.ReviewInput, now time.Time) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing card: card_id=%s, grade=%s", input.CardID, input.Grade)

	if !input.Grade.IsValid() {
		return nil, errors.NewInvalidGradeError(srs.ErrInvalidGrade)
	}
	if input.TimeSeconds < 0 {
		return nil, errors.NewValidationError("time_seconds", "cannot be negative")
	}

	// Get card and verify it belongs to the student
	card, err := s.cardRepo.GetWithMistake(ctx, input.CardID, input.StudentID)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", input.CardID)
	}

	before := card.State()
	next, err := srs.ComputeNextState(before, input.Grade, now)
	if err != nil {
		if stderrors.Is(err, srs.ErrInvalidGrade) {
			return nil, errors.NewInvalidGradeError(err)
		}
		return nil, errors.NewInternalError(err)
	}

	updated := card.Card.WithState(next)
	reviewedAt := now
	updated.LastReviewedAt = &reviewedAt
	updated.UpdatedAt = now

	log.Debug("applied review, new interval=%d days, ease=%.2f", next.IntervalDays, next.Ease)

	if err := s.cardRepo.Update(ctx, updated); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("card", input.CardID)
		}
		log.Error("failed to update card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// The new state is already stored; a missing history row must not fail the review.
	if _, err := s.cardRepo.InsertReviewLog(ctx, models.ReviewLog{
		CardID:         updated.ID,
		Grade:          input.Grade,
		EaseBefore:     before.Ease,
		EaseAfter:      next.Ease,
		IntervalBefore: before.IntervalDays,
		IntervalAfter:  next.IntervalDays,
		TimeSeconds:    input.TimeSeconds,
		ReviewedAt:     now,
	}); err != nil {
		log.Warn("failed to store review history: %v", err)
	}

	return &updated, nil
}

func (s *reviewService) History(ctx context.Context, cardID string, studentID int64, limit int) ([]models.ReviewLog, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting review history: card_id=%s", cardID)

	card, err := s.cardRepo.GetWithMistake(ctx, cardID, studentID)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	logs, err := s.cardRepo.ReviewHistory(ctx, cardID, limit)
	if err != nil {
		log.Error("failed to get review history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return logs, nil
}
