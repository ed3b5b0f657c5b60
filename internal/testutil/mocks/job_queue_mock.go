package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/vocabflash/internal/vocab"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueImport(studentID int64, tutorID *int64, entries []vocab.Entry) error {
	args := m.Called(studentID, tutorID, entries)
	return args.Error(0)
}

func (m *MockJobQueue) Pending() int {
	args := m.Called()
	return args.Int(0)
}
