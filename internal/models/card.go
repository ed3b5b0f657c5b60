package models

import (
	"time"

	"github.com/vytor/vocabflash/internal/srs"
)

// Card holds the learning state of one mistake for its student.
type Card struct {
	ID             string     `json:"id" db:"id"`
	MistakeID      int64      `json:"mistake_id" db:"mistake_id"`
	StudentID      int64      `json:"student_id" db:"student_id"`
	Ease           float64    `json:"ease" db:"ease"`
	IntervalDays   int        `json:"interval_days" db:"interval_days"`
	Repetitions    int        `json:"repetitions" db:"repetitions"`
	DueAt          time.Time  `json:"due_at" db:"due_at"`
	TotalSuccess   int        `json:"total_success" db:"total_success"`
	TotalFail      int        `json:"total_fail" db:"total_fail"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty" db:"last_reviewed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// State returns the scheduling fields of c.
func (c Card) State() srs.State {
	return srs.State{
		Ease:         c.Ease,
		IntervalDays: c.IntervalDays,
		Repetitions:  c.Repetitions,
		DueAt:        c.DueAt,
		TotalSuccess: c.TotalSuccess,
		TotalFail:    c.TotalFail,
	}
}

// WithState returns a copy of c carrying st.
func (c Card) WithState(st srs.State) Card {
	c.Ease = st.Ease
	c.IntervalDays = st.IntervalDays
	c.Repetitions = st.Repetitions
	c.DueAt = st.DueAt
	c.TotalSuccess = st.TotalSuccess
	c.TotalFail = st.TotalFail
	return c
}

// IsDue reports whether the card can be reviewed at now.
func (c Card) IsDue(now time.Time) bool {
	return !c.DueAt.After(now)
}

type CardWithMistake struct {
	Card
	Term       string `json:"term" db:"term"`
	Correction string `json:"correction" db:"correction"`
	Context    string `json:"context" db:"context"`
	Note       string `json:"note" db:"note"`
}

type CardFilter struct {
	StudentID int64
	Term      string
	DueBefore *time.Time
	Lapsed    bool
	Limit     int
	Offset    int
	OrderBy   string
	OrderDir  string
}

type ReviewLog struct {
	ID             int64     `json:"id"`
	CardID         string    `json:"card_id"`
	Grade          srs.Grade `json:"grade"`
	EaseBefore     float64   `json:"ease_before"`
	EaseAfter      float64   `json:"ease_after"`
	IntervalBefore int       `json:"interval_before"`
	IntervalAfter  int       `json:"interval_after"`
	TimeSeconds    float64   `json:"time_seconds"`
	ReviewedAt     time.Time `json:"reviewed_at"`
}

// ReviewInput is one graded answer from a review session.
type ReviewInput struct {
	CardID      string    `json:"-"`
	StudentID   int64     `json:"-"`
	Grade       srs.Grade `json:"grade"`
	TimeSeconds float64   `json:"time_seconds"`
}
