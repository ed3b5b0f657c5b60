package jobs

import "github.com/vytor/vocabflash/internal/vocab"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueImport(studentID int64, tutorID *int64, entries []vocab.Entry) error
	Pending() int
}
