package services

import (
	"context"
	"time"

	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/jobs"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/vocab"
)

// ImportService handles vocabulary import business logic
type ImportService interface {
	ImportVocabulary(ctx context.Context, studentID int64, tutorID *int64, entries []vocab.Entry, now time.Time) (*models.ImportResult, error)
	QueueImport(ctx context.Context, queue jobs.JobQueue, studentID int64, tutorID *int64, entries []vocab.Entry) error
}

type importService struct {
	mistakes MistakeService
}

// NewImportService creates a new ImportService
func NewImportService(mistakes MistakeService) ImportService {
	return &importService{mistakes: mistakes}
}

// ImportVocabulary logs every entry as a mistake. Entries with a blank term
// are skipped. It stops at the first entry that fails for any other reason.
func (s *importService) ImportVocabulary(ctx context.Context, studentID int64, tutorID *int64, entries []vocab.Entry, now time.Time) (*models.ImportResult, error) {
	log := logger.FromContext(ctx).WithField("student_id", studentID)
	log.Info("importing %d vocabulary entries", len(entries))

	res := &models.ImportResult{}
	for _, e := range entries {
		if e.Term == "" {
			res.Skipped++
			continue
		}
		_, _, err := s.mistakes.LogMistake(ctx, models.MistakeInput{
			StudentID:  studentID,
			TutorID:    tutorID,
			Term:       e.Term,
			Correction: e.Correction,
			Context:    e.Context,
			Note:       e.Note,
		}, now)
		if err != nil {
			log.Error("import stopped after %d entries: %v", res.Imported, err)
			return res, err
		}
		res.Imported++
	}

	log.Info("import finished: imported=%d, skipped=%d", res.Imported, res.Skipped)
	return res, nil
}

// QueueImport hands the import to queue for a background worker.
func (s *importService) QueueImport(ctx context.Context, queue jobs.JobQueue, studentID int64, tutorID *int64, entries []vocab.Entry) error {
	log := logger.FromContext(ctx)
	log.Info("queueing vocabulary import: student_id=%d, entries=%d, pending=%d", studentID, len(entries), queue.Pending())

	if err := queue.EnqueueImport(studentID, tutorID, entries); err != nil {
		log.Warn("failed to queue vocabulary import: %v", err)
		return errors.NewUnavailableError("import queue is busy, retry later", err)
	}
	return nil
}
