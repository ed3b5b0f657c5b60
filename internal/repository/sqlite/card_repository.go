package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/srs"
)

var cardColumns = []string{
	"c.id AS id",
	"c.mistake_id AS mistake_id",
	"c.student_id AS student_id",
	"c.ease AS ease",
	"c.interval_days AS interval_days",
	"c.repetitions AS repetitions",
	"c.due_at AS due_at",
	"c.total_success AS total_success",
	"c.total_fail AS total_fail",
	"c.last_reviewed_at AS last_reviewed_at",
	"c.created_at AS created_at",
	"c.updated_at AS updated_at",
}

var mistakeColumns = []string{
	"m.term AS term",
	"m.correction AS correction",
	"m.context AS context",
	"m.note AS note",
}

// effectiveDue is the due date of a card whose due_at was never written.
const effectiveDue = "COALESCE(c.due_at, c.created_at)"

var cardOrderColumns = map[string]string{
	"due_at":        effectiveDue,
	"created_at":    "c.created_at",
	"ease":          "c.ease",
	"interval_days": "c.interval_days",
	"term":          "m.term",
}

// cardRow mirrors the cards table, whose scheduling columns are nullable.
type cardRow struct {
	ID             string          `db:"id"`
	MistakeID      int64           `db:"mistake_id"`
	StudentID      int64           `db:"student_id"`
	Ease           sql.NullFloat64 `db:"ease"`
	IntervalDays   sql.NullInt64   `db:"interval_days"`
	Repetitions    sql.NullInt64   `db:"repetitions"`
	DueAt          sql.NullTime    `db:"due_at"`
	TotalSuccess   sql.NullInt64   `db:"total_success"`
	TotalFail      sql.NullInt64   `db:"total_fail"`
	LastReviewedAt sql.NullTime    `db:"last_reviewed_at"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

type cardWithMistakeRow struct {
	cardRow
	Term       string `db:"term"`
	Correction string `db:"correction"`
	Context    string `db:"context"`
	Note       string `db:"note"`
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func (r cardRow) snapshot() srs.Snapshot {
	var s srs.Snapshot
	if r.Ease.Valid {
		s.Ease = &r.Ease.Float64
	}
	if r.DueAt.Valid {
		s.DueAt = &r.DueAt.Time
	}
	s.IntervalDays = nullInt(r.IntervalDays)
	s.Repetitions = nullInt(r.Repetitions)
	s.TotalSuccess = nullInt(r.TotalSuccess)
	s.TotalFail = nullInt(r.TotalFail)
	return s
}

// card converts the row, defaulting missing scheduling fields. A card with
// no due date has been due since it was created.
func (r cardRow) card() models.Card {
	c := models.Card{
		ID:        r.ID,
		MistakeID: r.MistakeID,
		StudentID: r.StudentID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.LastReviewedAt.Valid {
		t := r.LastReviewedAt.Time
		c.LastReviewedAt = &t
	}
	return c.WithState(r.snapshot().State(r.CreatedAt))
}

func (r cardWithMistakeRow) cardWithMistake() models.CardWithMistake {
	return models.CardWithMistake{
		Card:       r.cardRow.card(),
		Term:       r.Term,
		Correction: r.Correction,
		Context:    r.Context,
		Note:       r.Note,
	}
}

type cardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sqlx.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Get(ctx context.Context, id string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%s", id)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards c").Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var row cardRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	c := row.card()
	return &c, nil
}

func (r *cardRepository) withMistake() squirrel.SelectBuilder {
	return sqlBuilder.Select(cardColumns...).
		Columns(mistakeColumns...).
		From("cards c").
		Join("mistakes m ON m.id = c.mistake_id")
}

func (r *cardRepository) GetWithMistake(ctx context.Context, id string, studentID int64) (*models.CardWithMistake, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card with mistake: id=%s, student_id=%d", id, studentID)

	query, args, err := r.withMistake().
		Where(squirrel.Eq{"c.id": id, "c.student_id": studentID}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var row cardWithMistakeRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card with mistake: %v", err)
		return nil, err
	}
	c := row.cardWithMistake()
	log.Debug("card found: term=%s, interval=%d", c.Term, c.IntervalDays)
	return &c, nil
}

func applyCardFilter(query squirrel.SelectBuilder, filter models.CardFilter) squirrel.SelectBuilder {
	if filter.StudentID != 0 {
		query = query.Where(squirrel.Eq{"c.student_id": filter.StudentID})
	}
	if filter.Term != "" {
		query = query.Where(squirrel.Like{"m.term": "%" + filter.Term + "%"})
	}
	if filter.DueBefore != nil {
		query = query.Where(squirrel.LtOrEq{effectiveDue: utc(*filter.DueBefore)})
	}
	if filter.Lapsed {
		query = query.Where(squirrel.Gt{"COALESCE(c.total_fail, 0)": 0})
	}
	return query
}

func (r *cardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.CardWithMistake, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards with filter: student_id=%d, term=%s, lapsed=%t", filter.StudentID, filter.Term, filter.Lapsed)

	query := applyCardFilter(r.withMistake(), filter)

	// Safe ORDER BY with validation
	orderBy, ok := cardOrderColumns[filter.OrderBy]
	if !ok {
		orderBy = effectiveDue
	}
	orderDir := "ASC"
	if filter.OrderDir == "DESC" {
		orderDir = "DESC"
	}
	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query = query.OrderBy(orderBy+" "+orderDir, "c.id ASC").Limit(limit).Offset(offset)

	return r.selectCards(ctx, log, query)
}

func (r *cardRepository) Count(ctx context.Context, filter models.CardFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("counting cards with filter: student_id=%d, term=%s, lapsed=%t", filter.StudentID, filter.Term, filter.Lapsed)

	query, args, err := applyCardFilter(
		sqlBuilder.Select("COUNT(*)").From("cards c").Join("mistakes m ON m.id = c.mistake_id"),
		filter,
	).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		log.Error("failed to count cards: %v", err)
		return 0, err
	}
	return count, nil
}

// NextDue returns the student's cards due at now, most overdue first.
func (r *cardRepository) NextDue(ctx context.Context, studentID int64, now time.Time, limit int) ([]models.CardWithMistake, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching due cards: student_id=%d, limit=%d", studentID, limit)

	if limit <= 0 {
		limit = 1
	}
	query := r.withMistake().
		Where(squirrel.Eq{"c.student_id": studentID}).
		Where(squirrel.LtOrEq{effectiveDue: utc(now)}).
		OrderBy(effectiveDue+" ASC", "c.created_at ASC", "c.id ASC").
		Limit(uint64(limit))

	cards, err := r.selectCards(ctx, log, query)
	if err != nil {
		return nil, err
	}
	log.Debug("found %d due cards", len(cards))
	return cards, nil
}

func (r *cardRepository) selectCards(ctx context.Context, log *logger.Logger, query squirrel.SelectBuilder) ([]models.CardWithMistake, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var rows []cardWithMistakeRow
	if err := r.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		log.Error("failed to query cards: %v", err)
		return nil, err
	}

	cards := make([]models.CardWithMistake, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.cardWithMistake())
	}
	return cards, nil
}

// Update writes the card's full learning state. Concurrent reviews of the
// same card are last-write-wins.
func (r *cardRepository) Update(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: id=%s, interval=%d, ease=%.2f", c.ID, c.IntervalDays, c.Ease)

	var lastReviewed any
	if c.LastReviewedAt != nil {
		lastReviewed = utc(*c.LastReviewedAt)
	}

	query, args, err := sqlBuilder.Update("cards").
		SetMap(map[string]any{
			"ease":             c.Ease,
			"interval_days":    c.IntervalDays,
			"repetitions":      c.Repetitions,
			"due_at":           utc(c.DueAt),
			"total_success":    c.TotalSuccess,
			"total_fail":       c.TotalFail,
			"last_reviewed_at": lastReviewed,
			"updated_at":       utc(c.UpdatedAt),
		}).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update card: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("card %s: %w", c.ID, repository.ErrNotFound)
	}
	return nil
}

type reviewLogRow struct {
	ID             int64     `db:"id"`
	CardID         string    `db:"card_id"`
	Grade          string    `db:"grade"`
	EaseBefore     float64   `db:"ease_before"`
	EaseAfter      float64   `db:"ease_after"`
	IntervalBefore int       `db:"interval_before"`
	IntervalAfter  int       `db:"interval_after"`
	TimeSeconds    float64   `db:"time_seconds"`
	ReviewedAt     time.Time `db:"reviewed_at"`
}

func (r *cardRepository) InsertReviewLog(ctx context.Context, l models.ReviewLog) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting review log: card_id=%s, grade=%s, time=%.2fs", l.CardID, l.Grade, l.TimeSeconds)

	if !l.Grade.IsValid() {
		return 0, fmt.Errorf("review log: %w", srs.ErrInvalidGrade)
	}

	res, err := r.db.NamedExecContext(ctx, `
INSERT INTO review_history (card_id, grade, ease_before, ease_after, interval_before, interval_after, time_seconds, reviewed_at)
VALUES (:card_id, :grade, :ease_before, :ease_after, :interval_before, :interval_after, :time_seconds, :reviewed_at)
`, reviewLogRow{
		CardID:         l.CardID,
		Grade:          l.Grade.String(),
		EaseBefore:     l.EaseBefore,
		EaseAfter:      l.EaseAfter,
		IntervalBefore: l.IntervalBefore,
		IntervalAfter:  l.IntervalAfter,
		TimeSeconds:    l.TimeSeconds,
		ReviewedAt:     utc(l.ReviewedAt),
	})
	if err != nil {
		log.Error("failed to insert review log: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *cardRepository) ReviewHistory(ctx context.Context, cardID string, limit int) ([]models.ReviewLog, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching review history: card_id=%s, limit=%d", cardID, limit)

	limitN, _ := pageBounds(limit, 0)
	query, args, err := sqlBuilder.
		Select("id", "card_id", "grade", "ease_before", "ease_after", "interval_before", "interval_after", "time_seconds", "reviewed_at").
		From("review_history").
		Where(squirrel.Eq{"card_id": cardID}).
		OrderBy("reviewed_at DESC", "id DESC").
		Limit(limitN).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var rows []reviewLogRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		log.Error("failed to query review history: %v", err)
		return nil, err
	}

	logs := make([]models.ReviewLog, 0, len(rows))
	for _, row := range rows {
		grade, err := srs.ParseGrade(row.Grade)
		if err != nil {
			log.Error("review log %d has unknown grade %q", row.ID, row.Grade)
			return nil, err
		}
		logs = append(logs, models.ReviewLog{
			ID:             row.ID,
			CardID:         row.CardID,
			Grade:          grade,
			EaseBefore:     row.EaseBefore,
			EaseAfter:      row.EaseAfter,
			IntervalBefore: row.IntervalBefore,
			IntervalAfter:  row.IntervalAfter,
			TimeSeconds:    row.TimeSeconds,
			ReviewedAt:     row.ReviewedAt,
		})
	}
	return logs, nil
}
