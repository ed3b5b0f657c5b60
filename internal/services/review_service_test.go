package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/srs"
	"github.com/vytor/vocabflash/internal/testutil/mocks"
)

var reviewNow = time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)

func dueCard(id string, st srs.State) *models.CardWithMistake {
	return &models.CardWithMistake{
		Card: models.Card{ID: id, MistakeID: 1, StudentID: 7}.WithState(st),
		Term: "la tienda",
	}
}

func requireAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestReviewService_ReviewCard(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockCardRepository)
	svc := NewReviewService(repo, 20)

	start := srs.State{Ease: 2.5, IntervalDays: 3, Repetitions: 2, DueAt: reviewNow.Add(-time.Hour), TotalSuccess: 2}
	repo.On("GetWithMistake", ctx, "c1", int64(7)).Return(dueCard("c1", start), nil)
	repo.On("Update", ctx, mock.MatchedBy(func(c models.Card) bool {
		return c.ID == "c1" && c.IntervalDays == 8 && c.Repetitions == 3 &&
			c.LastReviewedAt != nil && c.LastReviewedAt.Equal(reviewNow)
	})).Return(nil)
	repo.On("InsertReviewLog", ctx, mock.MatchedBy(func(l models.ReviewLog) bool {
		return l.CardID == "c1" && l.Grade == srs.Good && l.IntervalBefore == 3 && l.IntervalAfter == 8 &&
			l.EaseBefore == 2.5 && l.TimeSeconds == 3.2
	})).Return(int64(1), nil)

	card, err := svc.ReviewCard(ctx, models.ReviewInput{CardID: "c1", StudentID: 7, Grade: srs.Good, TimeSeconds: 3.2}, reviewNow)
	require.NoError(t, err)

	assert.InDelta(t, 2.55, card.Ease, 1e-9)
	assert.Equal(t, 8, card.IntervalDays)
	assert.Equal(t, 3, card.Repetitions)
	assert.Equal(t, 3, card.TotalSuccess)
	assert.True(t, card.DueAt.Equal(reviewNow.AddDate(0, 0, 8)))
	repo.AssertExpectations(t)
}

func TestReviewService_ReviewCardHistoryFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockCardRepository)
	svc := NewReviewService(repo, 20)

	repo.On("GetWithMistake", ctx, "c1", int64(7)).Return(dueCard("c1", srs.NewState(reviewNow)), nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)
	repo.On("InsertReviewLog", ctx, mock.Anything).Return(int64(0), errors.New("locked"))

	card, err := svc.ReviewCard(ctx, models.ReviewInput{CardID: "c1", StudentID: 7, Grade: srs.Again}, reviewNow)
	require.NoError(t, err)
	assert.Equal(t, 1, card.TotalFail)
	assert.Equal(t, 1, card.IntervalDays)
}

func TestReviewService_ReviewCardErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		input models.ReviewInput
		setup func(repo *mocks.MockCardRepository)
		code  string
	}{
		{
			name:  "invalid grade",
			input: models.ReviewInput{CardID: "c1", StudentID: 7, Grade: srs.Grade(0)},
			setup: func(repo *mocks.MockCardRepository) {},
			code:  apperrors.ErrCodeInvalidGrade,
		},
		{
			name:  "negative time",
			input: models.ReviewInput{CardID: "c1", StudentID: 7, Grade: srs.Good, TimeSeconds: -1},
			setup: func(repo *mocks.MockCardRepository) {},
			code:  apperrors.ErrCodeValidation,
		},
		{
			name:  "card missing",
			input: models.ReviewInput{CardID: "c1", StudentID: 7, Grade: srs.Good},
			setup: func(repo *mocks.MockCardRepository) {
				repo.On("GetWithMistake", ctx, "c1", int64(7)).Return(nil, nil)
			},
			code: apperrors.ErrCodeNotFound,
		},
		{
			name:  "load fails",
			input: models.ReviewInput{CardID: "c1", StudentID: 7, Grade: srs.Good},
			setup: func(repo *mocks.MockCardRepository) {
				repo.On("GetWithMistake", ctx, "c1", int64(7)).Return(nil, errors.New("io"))
			},
			code: apperrors.ErrCodeInternal,
		},
		{
			name:  "card deleted before update",
			input: models.ReviewInput{CardID: "c1", StudentID: 7, Grade: srs.Hard},
			setup: func(repo *mocks.MockCardRepository) {
				repo.On("GetWithMistake", ctx, "c1", int64(7)).Return(dueCard("c1", srs.NewState(reviewNow)), nil)
				repo.On("Update", ctx, mock.Anything).Return(repository.ErrNotFound)
			},
			code: apperrors.ErrCodeNotFound,
		},
		{
			name:  "update fails",
			input: models.ReviewInput{CardID: "c1", StudentID: 7, Grade: srs.Hard},
			setup: func(repo *mocks.MockCardRepository) {
				repo.On("GetWithMistake", ctx, "c1", int64(7)).Return(dueCard("c1", srs.NewState(reviewNow)), nil)
				repo.On("Update", ctx, mock.Anything).Return(errors.New("io"))
			},
			code: apperrors.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockCardRepository)
			tt.setup(repo)
			svc := NewReviewService(repo, 20)

			card, err := svc.ReviewCard(ctx, tt.input, reviewNow)
			assert.Nil(t, card)
			requireAppError(t, err, tt.code)
			repo.AssertNotCalled(t, "InsertReviewLog", mock.Anything, mock.Anything)
		})
	}
}

func TestReviewService_NextCard(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockCardRepository)
	svc := NewReviewService(repo, 20)

	repo.On("NextDue", ctx, int64(7), reviewNow, 1).Return([]models.CardWithMistake{*dueCard("c1", srs.NewState(reviewNow))}, nil).Once()
	repo.On("NextDue", ctx, int64(7), reviewNow, 1).Return([]models.CardWithMistake{}, nil).Once()

	card, err := svc.NextCard(ctx, 7, reviewNow)
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Equal(t, "c1", card.ID)

	card, err = svc.NextCard(ctx, 7, reviewNow)
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestReviewService_DueCardsCapsLimit(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockCardRepository)
	svc := NewReviewService(repo, 20)

	repo.On("NextDue", ctx, int64(7), reviewNow, 20).Return([]models.CardWithMistake{}, nil).Twice()
	repo.On("NextDue", ctx, int64(7), reviewNow, 5).Return([]models.CardWithMistake{}, nil).Once()

	_, err := svc.DueCards(ctx, 7, reviewNow, 500)
	require.NoError(t, err)
	_, err = svc.DueCards(ctx, 7, reviewNow, 0)
	require.NoError(t, err)
	_, err = svc.DueCards(ctx, 7, reviewNow, 5)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestReviewService_DefaultBatchSize(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockCardRepository)
	svc := NewReviewService(repo, 0)

	repo.On("NextDue", ctx, int64(7), reviewNow, 20).Return([]models.CardWithMistake{}, nil).Once()

	_, err := svc.DueCards(ctx, 7, reviewNow, 100)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestReviewService_ListCards(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockCardRepository)
	svc := NewReviewService(repo, 20)

	filter := models.CardFilter{StudentID: 7, Term: "tien"}
	repo.On("List", ctx, filter).Return([]models.CardWithMistake{*dueCard("c1", srs.NewState(reviewNow))}, nil)
	repo.On("Count", ctx, filter).Return(11, nil)

	cards, total, err := svc.ListCards(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Equal(t, 11, total)
}

func TestReviewService_History(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockCardRepository)
	svc := NewReviewService(repo, 20)

	repo.On("GetWithMistake", ctx, "c1", int64(7)).Return(dueCard("c1", srs.NewState(reviewNow)), nil)
	repo.On("ReviewHistory", ctx, "c1", defaultHistoryLimit).Return([]models.ReviewLog{{ID: 1, CardID: "c1", Grade: srs.Good}}, nil)
	repo.On("GetWithMistake", ctx, "c2", int64(7)).Return(nil, nil)

	logs, err := svc.History(ctx, "c1", 7, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	_, err = svc.History(ctx, "c2", 7, 0)
	requireAppError(t, err, apperrors.ErrCodeNotFound)
}
