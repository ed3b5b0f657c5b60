package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository/sqlite"
	"github.com/vytor/vocabflash/internal/srs"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlite3"), mock
}

func TestCardRepository_DatabaseErrors(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dbErr := fmt.Errorf("disk I/O error")

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		call      func(ctx context.Context, db *sqlx.DB) error
	}{
		{
			name: "get",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .* FROM cards c WHERE c.id = \\?").WillReturnError(dbErr)
			},
			call: func(ctx context.Context, db *sqlx.DB) error {
				_, err := sqlite.NewCardRepository(db).Get(ctx, "c1")
				return err
			},
		},
		{
			name: "next due",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .* FROM cards c JOIN mistakes m").WillReturnError(dbErr)
			},
			call: func(ctx context.Context, db *sqlx.DB) error {
				_, err := sqlite.NewCardRepository(db).NextDue(ctx, 1, now, 5)
				return err
			},
		},
		{
			name: "update",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE cards SET").WillReturnError(dbErr)
			},
			call: func(ctx context.Context, db *sqlx.DB) error {
				return sqlite.NewCardRepository(db).Update(ctx, models.Card{ID: "c1", Ease: srs.DefaultEase, DueAt: now})
			},
		},
		{
			name: "insert review log",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO review_history").WillReturnError(dbErr)
			},
			call: func(ctx context.Context, db *sqlx.DB) error {
				_, err := sqlite.NewCardRepository(db).InsertReviewLog(ctx, models.ReviewLog{CardID: "c1", Grade: srs.Good, ReviewedAt: now})
				return err
			},
		},
		{
			name: "card stats",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM cards\\s+WHERE student_id = \\?").WillReturnError(dbErr)
			},
			call: func(ctx context.Context, db *sqlx.DB) error {
				_, err := sqlite.NewStatsRepository(db).CardStats(ctx, 1, now)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setupMock(mock)

			err := tt.call(context.Background(), db)
			assert.ErrorIs(t, err, dbErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMistakeRepository_InsertRollsBackOnCardError(t *testing.T) {
	db, mock := newMockDB(t)
	cardErr := fmt.Errorf("constraint failed")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO mistakes").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO cards").WillReturnError(cardErr)
	mock.ExpectRollback()

	_, _, err := sqlite.NewMistakeRepository(db).Insert(context.Background(),
		models.Mistake{StudentID: 1, Term: "hola"}, models.Card{})
	assert.ErrorIs(t, err, cardErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_UpdateNoRows(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("UPDATE cards SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := sqlite.NewCardRepository(db).Update(context.Background(), models.Card{ID: "c1", DueAt: time.Now()})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
