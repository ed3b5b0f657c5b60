package models

import "time"

// Mistake is a vocabulary item a tutor logged for a student during a lesson.
type Mistake struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  int64     `json:"student_id" db:"student_id"`
	TutorID    *int64    `json:"tutor_id,omitempty" db:"tutor_id"`
	Term       string    `json:"term" db:"term"`
	Correction string    `json:"correction" db:"correction"`
	Context    string    `json:"context" db:"context"`
	Note       string    `json:"note" db:"note"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// MistakeInput is what a tutor submits when logging a mistake.
type MistakeInput struct {
	StudentID  int64  `json:"-" validate:"required,gt=0"`
	TutorID    *int64 `json:"tutor_id,omitempty" validate:"omitempty,gt=0"`
	Term       string `json:"term" validate:"required,max=200"`
	Correction string `json:"correction" validate:"max=200"`
	Context    string `json:"context" validate:"max=1000"`
	Note       string `json:"note" validate:"max=1000"`
}
