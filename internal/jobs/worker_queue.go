package jobs

import (
	"time"

	"github.com/vytor/vocabflash/internal/vocab"
	"github.com/vytor/vocabflash/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	importPool *worker.Pool
	importer   worker.VocabularyImporter
	now        func() time.Time
}

// NewWorkerQueue creates a new WorkerQueue implementation. Imported entries
// are stamped with now when their job runs; a nil now means time.Now.
func NewWorkerQueue(importPool *worker.Pool, importer worker.VocabularyImporter, now func() time.Time) JobQueue {
	if now == nil {
		now = time.Now
	}
	return &WorkerQueue{
		importPool: importPool,
		importer:   importer,
		now:        now,
	}
}

func (q *WorkerQueue) EnqueueImport(studentID int64, tutorID *int64, entries []vocab.Entry) error {
	return q.importPool.Submit(&worker.ImportVocabularyJob{
		Importer:  q.importer,
		StudentID: studentID,
		TutorID:   tutorID,
		Entries:   entries,
		Now:       q.now,
	})
}

// Pending returns the number of imports waiting for a worker.
func (q *WorkerQueue) Pending() int {
	return q.importPool.QueueSize()
}
