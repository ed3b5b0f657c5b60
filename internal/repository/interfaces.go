package repository

import (
	"context"
	"time"

	"github.com/vytor/vocabflash/internal/models"
)

// ProfileRepository handles profile data access
type ProfileRepository interface {
	Get(ctx context.Context, id int64) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Create(ctx context.Context, username, role string) (*models.Profile, error)
	Delete(ctx context.Context, id int64) error
}

// MistakeRepository handles logged vocabulary mistakes.
// Insert stores a mistake together with the card that schedules it.
type MistakeRepository interface {
	Get(ctx context.Context, id int64) (*models.Mistake, error)
	ListByStudent(ctx context.Context, studentID int64, limit, offset int) ([]models.Mistake, error)
	Insert(ctx context.Context, mistake models.Mistake, card models.Card) (*models.Mistake, *models.Card, error)
	Delete(ctx context.Context, id int64) error
}

// CardRepository is the card store: it supplies a card's learning state
// before a review and accepts the updated state after it.
type CardRepository interface {
	Get(ctx context.Context, id string) (*models.Card, error)
	GetWithMistake(ctx context.Context, id string, studentID int64) (*models.CardWithMistake, error)
	List(ctx context.Context, filter models.CardFilter) ([]models.CardWithMistake, error)
	Count(ctx context.Context, filter models.CardFilter) (int, error)
	NextDue(ctx context.Context, studentID int64, now time.Time, limit int) ([]models.CardWithMistake, error)
	Update(ctx context.Context, card models.Card) error
	InsertReviewLog(ctx context.Context, log models.ReviewLog) (int64, error)
	ReviewHistory(ctx context.Context, cardID string, limit int) ([]models.ReviewLog, error)
}

// StatsRepository handles statistics data access
type StatsRepository interface {
	CardStats(ctx context.Context, studentID int64, now time.Time) (*models.CardStat, error)
	GradeStats(ctx context.Context, studentID int64) ([]models.GradeStat, error)
}
