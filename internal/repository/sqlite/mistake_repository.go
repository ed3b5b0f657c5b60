package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/srs"
)

const mistakeSelect = `SELECT id, student_id, tutor_id, term, correction, context, note, created_at FROM mistakes`

type mistakeRepository struct {
	db *sqlx.DB
}

// NewMistakeRepository creates a new MistakeRepository implementation
func NewMistakeRepository(db *sqlx.DB) repository.MistakeRepository {
	return &mistakeRepository{db: db}
}

func (r *mistakeRepository) Get(ctx context.Context, id int64) (*models.Mistake, error) {
	log := logger.FromContext(ctx).WithPrefix("mistake_repo")
	log.Debug("getting mistake: id=%d", id)

	var m models.Mistake
	err := r.db.GetContext(ctx, &m, mistakeSelect+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("mistake not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get mistake: %v", err)
		return nil, err
	}
	return &m, nil
}

func (r *mistakeRepository) ListByStudent(ctx context.Context, studentID int64, limit, offset int) ([]models.Mistake, error) {
	log := logger.FromContext(ctx).WithPrefix("mistake_repo")
	log.Debug("listing mistakes: student_id=%d, limit=%d, offset=%d", studentID, limit, offset)

	l, o := pageBounds(limit, offset)
	var mistakes []models.Mistake
	err := r.db.SelectContext(ctx, &mistakes, mistakeSelect+`
WHERE student_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`, studentID, l, o)
	if err != nil {
		log.Error("failed to list mistakes: %v", err)
		return nil, err
	}

	log.Debug("found %d mistakes", len(mistakes))
	return mistakes, nil
}

// Insert stores the mistake and its card in one transaction. A card without
// an id gets a fresh one and a card without state starts due at the
// mistake's creation time.
func (r *mistakeRepository) Insert(ctx context.Context, m models.Mistake, c models.Card) (*models.Mistake, *models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("mistake_repo")
	log.Debug("inserting mistake: student_id=%d, term=%s", m.StudentID, m.Term)

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.CreatedAt = utc(m.CreatedAt)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Ease == 0 {
		c = c.WithState(srs.NewState(m.CreatedAt))
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = m.CreatedAt
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	c.StudentID = m.StudentID

	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO mistakes (student_id, tutor_id, term, correction, context, note, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, m.StudentID, m.TutorID, m.Term, m.Correction, m.Context, m.Note, m.CreatedAt)
		if err != nil {
			log.Error("failed to insert mistake: %v", err)
			return translate(err)
		}
		if m.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		c.MistakeID = m.ID

		_, err = tx.ExecContext(ctx, `
INSERT INTO cards (id, mistake_id, student_id, ease, interval_days, repetitions, due_at, total_success, total_fail, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ID, c.MistakeID, c.StudentID, c.Ease, c.IntervalDays, c.Repetitions, utc(c.DueAt),
			c.TotalSuccess, c.TotalFail, utc(c.CreatedAt), utc(c.UpdatedAt))
		if err != nil {
			log.Error("failed to insert card: %v", err)
			return translate(err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Debug("mistake stored: id=%d, card_id=%s", m.ID, c.ID)
	return &m, &c, nil
}

// Delete removes the mistake with its card and review history.
func (r *mistakeRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("mistake_repo")
	log.Debug("deleting mistake: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM mistakes WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete mistake %d: %v", id, err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
