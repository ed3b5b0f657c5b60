package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/srs"
)

// MistakeService handles mistakes logged by tutors. Every logged mistake
// becomes a card that is due immediately.
type MistakeService interface {
	LogMistake(ctx context.Context, input models.MistakeInput, now time.Time) (*models.Mistake, *models.Card, error)
	ListMistakes(ctx context.Context, studentID int64, limit, offset int) ([]models.Mistake, error)
	DeleteMistake(ctx context.Context, studentID, mistakeID int64) error
}

type mistakeService struct {
	mistakeRepo repository.MistakeRepository
	profileRepo repository.ProfileRepository
	validate    *validator.Validate
}

// NewMistakeService creates a new MistakeService
func NewMistakeService(mistakeRepo repository.MistakeRepository, profileRepo repository.ProfileRepository) MistakeService {
	return &mistakeService{
		mistakeRepo: mistakeRepo,
		profileRepo: profileRepo,
		validate:    newValidator(),
	}
}

func (s *mistakeService) LogMistake(ctx context.Context, input models.MistakeInput, now time.Time) (*models.Mistake, *models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("logging mistake: student_id=%d, term=%s", input.StudentID, input.Term)

	input.Term = strings.TrimSpace(input.Term)
	input.Correction = strings.TrimSpace(input.Correction)
	input.Context = strings.TrimSpace(input.Context)
	input.Note = strings.TrimSpace(input.Note)
	if err := s.validate.Struct(input); err != nil {
		return nil, nil, validationError(err)
	}

	if err := s.requireRole(ctx, input.StudentID, models.RoleStudent); err != nil {
		return nil, nil, err
	}
	if input.TutorID != nil {
		if err := s.requireRole(ctx, *input.TutorID, models.RoleTutor); err != nil {
			return nil, nil, err
		}
	}

	mistake := models.Mistake{
		StudentID:  input.StudentID,
		TutorID:    input.TutorID,
		Term:       input.Term,
		Correction: input.Correction,
		Context:    input.Context,
		Note:       input.Note,
		CreatedAt:  now,
	}
	card := models.Card{CreatedAt: now, UpdatedAt: now}.WithState(srs.NewState(now))

	m, c, err := s.mistakeRepo.Insert(ctx, mistake, card)
	if err != nil {
		log.Error("failed to store mistake: %v", err)
		return nil, nil, errors.NewInternalError(err)
	}

	log.Info("mistake logged: id=%d, card_id=%s", m.ID, c.ID)
	return m, c, nil
}

// requireRole checks that profile id exists with the given role.
func (s *mistakeService) requireRole(ctx context.Context, id int64, role string) error {
	profile, err := s.profileRepo.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get profile %d: %v", id, err)
		return errors.NewInternalError(err)
	}
	if profile == nil {
		return errors.NewNotFoundError(role, id)
	}
	if profile.Role != role {
		return errors.NewValidationError(role, "profile "+profile.Username+" is not a "+role)
	}
	return nil
}

func (s *mistakeService) ListMistakes(ctx context.Context, studentID int64, limit, offset int) ([]models.Mistake, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing mistakes: student_id=%d", studentID)

	mistakes, err := s.mistakeRepo.ListByStudent(ctx, studentID, limit, offset)
	if err != nil {
		log.Error("failed to list mistakes: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return mistakes, nil
}

func (s *mistakeService) DeleteMistake(ctx context.Context, studentID, mistakeID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting mistake: student_id=%d, mistake_id=%d", studentID, mistakeID)

	m, err := s.mistakeRepo.Get(ctx, mistakeID)
	if err != nil {
		log.Error("failed to get mistake: %v", err)
		return errors.NewInternalError(err)
	}
	if m == nil || m.StudentID != studentID {
		return errors.NewNotFoundError("mistake", mistakeID)
	}

	if err := s.mistakeRepo.Delete(ctx, mistakeID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFoundError("mistake", mistakeID)
		}
		log.Error("failed to delete mistake: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
