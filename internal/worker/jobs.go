package worker

import (
	"context"
	"time"

	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/vocab"
)

// VocabularyImporter logs vocabulary entries as mistakes. It is declared here
// so the worker package does not import services.
type VocabularyImporter interface {
	ImportVocabulary(ctx context.Context, studentID int64, tutorID *int64, entries []vocab.Entry, now time.Time) (*models.ImportResult, error)
}

// ImportVocabularyJob turns an uploaded vocabulary list into cards.
type ImportVocabularyJob struct {
	Importer  VocabularyImporter
	StudentID int64
	TutorID   *int64
	Entries   []vocab.Entry
	Now       func() time.Time
}

func (j *ImportVocabularyJob) Name() string { return "import_vocabulary" }

func (j *ImportVocabularyJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"student_id": j.StudentID,
		"entries":    len(j.Entries),
	})
	log.Info("starting background vocabulary import")

	now := time.Now
	if j.Now != nil {
		now = j.Now
	}

	res, err := j.Importer.ImportVocabulary(ctx, j.StudentID, j.TutorID, j.Entries, now())
	if err != nil {
		log.Error("vocabulary import failed: %v", err)
		return err
	}
	log.Info("vocabulary import finished: imported=%d, skipped=%d", res.Imported, res.Skipped)
	return nil
}
