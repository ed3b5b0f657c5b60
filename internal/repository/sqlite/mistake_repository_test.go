package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/repository/sqlite"
	"github.com/vytor/vocabflash/internal/srs"
	"github.com/vytor/vocabflash/internal/testutil"
)

type MistakeRepositorySuite struct {
	suite.Suite
	db        *sqlx.DB
	repo      repository.MistakeRepository
	studentID int64
	tutorID   int64
}

func (s *MistakeRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewMistakeRepository(s.db)
	s.studentID = testutil.InsertProfile(s.T(), s.db, "student", models.RoleStudent)
	s.tutorID = testutil.InsertProfile(s.T(), s.db, "tutor", models.RoleTutor)
}

func (s *MistakeRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *MistakeRepositorySuite) TestInsertStoresMistakeAndCard() {
	ctx := context.Background()
	now := testutil.Date(2024, time.March, 10).Add(9 * time.Hour)

	m, c, err := s.repo.Insert(ctx, models.Mistake{
		StudentID:  s.studentID,
		TutorID:    &s.tutorID,
		Term:       "embarazada",
		Correction: "avergonzada",
		Context:    "Estoy muy embarazada",
		CreatedAt:  now,
	}, models.Card{}.WithState(srs.NewState(now)))
	s.Require().NoError(err)

	s.Assert().Greater(m.ID, int64(0))
	s.Assert().NotEmpty(c.ID)
	s.Assert().Equal(m.ID, c.MistakeID)
	s.Assert().Equal(s.studentID, c.StudentID)

	got, err := s.repo.Get(ctx, m.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("embarazada", got.Term)
	s.Assert().Equal("avergonzada", got.Correction)
	s.Require().NotNil(got.TutorID)
	s.Assert().Equal(s.tutorID, *got.TutorID)
	s.Assert().True(now.Equal(got.CreatedAt))

	card, err := sqlite.NewCardRepository(s.db).Get(ctx, c.ID)
	s.Require().NoError(err)
	s.Require().NotNil(card)
	s.Assert().Equal(srs.DefaultEase, card.Ease)
	s.Assert().Zero(card.IntervalDays)
	s.Assert().Zero(card.Repetitions)
	s.Assert().True(now.Equal(card.DueAt))
}

func (s *MistakeRepositorySuite) TestInsertKeepsGivenCardID() {
	_, c, err := s.repo.Insert(context.Background(),
		models.Mistake{StudentID: s.studentID, Term: "el perro"},
		models.Card{ID: "card-1"})
	s.Require().NoError(err)
	s.Assert().Equal("card-1", c.ID)
}

func (s *MistakeRepositorySuite) TestInsertRollsBackOnCardFailure() {
	ctx := context.Background()

	_, _, err := s.repo.Insert(ctx, models.Mistake{StudentID: s.studentID, Term: "uno"}, models.Card{ID: "dup"})
	s.Require().NoError(err)

	_, _, err = s.repo.Insert(ctx, models.Mistake{StudentID: s.studentID, Term: "dos"}, models.Card{ID: "dup"})
	s.Require().ErrorIs(err, repository.ErrDuplicate)

	mistakes, err := s.repo.ListByStudent(ctx, s.studentID, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(mistakes, 1)
	s.Assert().Equal("uno", mistakes[0].Term)
}

func (s *MistakeRepositorySuite) TestInsertUnknownStudentFails() {
	_, _, err := s.repo.Insert(context.Background(), models.Mistake{StudentID: 9999, Term: "x"}, models.Card{})
	s.Assert().Error(err)
}

func (s *MistakeRepositorySuite) TestListByStudentNewestFirst() {
	ctx := context.Background()
	base := testutil.Date(2024, time.January, 1)

	for i, term := range []string{"a", "b", "c"} {
		_, _, err := s.repo.Insert(ctx, models.Mistake{
			StudentID: s.studentID,
			Term:      term,
			CreatedAt: base.AddDate(0, 0, i),
		}, models.Card{})
		s.Require().NoError(err)
	}

	mistakes, err := s.repo.ListByStudent(ctx, s.studentID, 2, 0)
	s.Require().NoError(err)
	s.Require().Len(mistakes, 2)
	s.Assert().Equal("c", mistakes[0].Term)
	s.Assert().Equal("b", mistakes[1].Term)

	mistakes, err = s.repo.ListByStudent(ctx, s.studentID, 2, 2)
	s.Require().NoError(err)
	s.Require().Len(mistakes, 1)
	s.Assert().Equal("a", mistakes[0].Term)

	other, err := s.repo.ListByStudent(ctx, s.tutorID, 0, 0)
	s.Require().NoError(err)
	s.Assert().Empty(other)
}

func (s *MistakeRepositorySuite) TestDeleteRemovesCard() {
	ctx := context.Background()

	m, c, err := s.repo.Insert(ctx, models.Mistake{StudentID: s.studentID, Term: "gato"}, models.Card{})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(ctx, m.ID))

	got, err := s.repo.Get(ctx, m.ID)
	s.Require().NoError(err)
	s.Assert().Nil(got)

	card, err := sqlite.NewCardRepository(s.db).Get(ctx, c.ID)
	s.Require().NoError(err)
	s.Assert().Nil(card)

	s.Assert().ErrorIs(s.repo.Delete(ctx, m.ID), repository.ErrNotFound)
}

func TestMistakeRepositorySuite(t *testing.T) {
	suite.Run(t, new(MistakeRepositorySuite))
}
