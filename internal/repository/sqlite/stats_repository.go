package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/srs"
)

const (
	// MasteredIntervalDays is the interval from which a card counts as mastered.
	MasteredIntervalDays = 21
	// DueSoonWindow is how far ahead CardsDueSoon looks.
	DueSoonWindow = 7 * 24 * time.Hour
)

type statsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sqlx.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

// CardStats aggregates a student's cards. Missing scheduling columns count
// with their defaults. A card is struggling when it has failed more often
// than it has succeeded.
func (r *statsRepository) CardStats(ctx context.Context, studentID int64, now time.Time) (*models.CardStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("fetching card stats: student_id=%d", studentID)

	var stat models.CardStat
	err := r.db.GetContext(ctx, &stat, `
SELECT
    COUNT(*) AS total_cards,
    COALESCE(SUM(CASE WHEN COALESCE(due_at, created_at) <= ? THEN 1 ELSE 0 END), 0) AS cards_due,
    COALESCE(SUM(CASE WHEN COALESCE(due_at, created_at) > ? AND COALESCE(due_at, created_at) <= ? THEN 1 ELSE 0 END), 0) AS cards_due_soon,
    COALESCE(SUM(CASE WHEN COALESCE(interval_days, 0) >= ? THEN 1 ELSE 0 END), 0) AS cards_mastered,
    COALESCE(SUM(CASE WHEN COALESCE(total_fail, 0) > COALESCE(total_success, 0) THEN 1 ELSE 0 END), 0) AS cards_struggling,
    COALESCE(SUM(CASE WHEN COALESCE(total_success, 0) + COALESCE(total_fail, 0) = 0 THEN 1 ELSE 0 END), 0) AS new_cards,
    COALESCE(SUM(COALESCE(total_success, 0)), 0) AS total_success,
    COALESCE(SUM(COALESCE(total_fail, 0)), 0) AS total_fail,
    COALESCE(AVG(COALESCE(ease, ?)), 0) AS avg_ease,
    COALESCE(AVG(COALESCE(interval_days, 0)), 0) AS avg_interval_days
FROM cards
WHERE student_id = ?
`, utc(now), utc(now), utc(now.Add(DueSoonWindow)), MasteredIntervalDays, srs.DefaultEase, studentID)
	if err != nil {
		log.Error("failed to query card stats: %v", err)
		return nil, err
	}

	if reviews := stat.TotalSuccess + stat.TotalFail; reviews > 0 {
		stat.Accuracy = float64(stat.TotalSuccess) / float64(reviews)
	}
	log.Debug("card stats: total=%d, due=%d, mastered=%d", stat.TotalCards, stat.CardsDue, stat.CardsMastered)
	return &stat, nil
}

func (r *statsRepository) GradeStats(ctx context.Context, studentID int64) ([]models.GradeStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("fetching grade stats: student_id=%d", studentID)

	var stats []models.GradeStat
	err := r.db.SelectContext(ctx, &stats, `
SELECT rh.grade AS grade, COUNT(*) AS count, AVG(rh.time_seconds) AS avg_time_seconds
FROM review_history rh
JOIN cards c ON c.id = rh.card_id
WHERE c.student_id = ?
GROUP BY rh.grade
ORDER BY CASE rh.grade WHEN 'again' THEN 1 WHEN 'hard' THEN 2 ELSE 3 END
`, studentID)
	if err != nil {
		log.Error("failed to query grade stats: %v", err)
		return nil, err
	}
	log.Debug("found %d grade stats", len(stats))
	return stats, nil
}
