// Package srs schedules vocabulary flashcards with a fixed-step SM-2 variant.
//
// The scheduler is a pure function of the card's current learning state, the
// review grade and the injected review time. It never reads the wall clock
// and never retains the state it is given, so it is safe to call from any
// number of goroutines.
package srs

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultEase = 2.5
	MinEase     = 1.3
	MaxEase     = 3.2

	// MaxLapseEase caps ease after a lapse below the ceiling reachable by successes.
	MaxLapseEase = 3.0

	lapsePenalty = 0.2
	easeStep     = 0.05

	firstInterval  = 1
	secondInterval = 3
	lapseInterval  = 1

	// MaxIntervalDays bounds interval growth so the due date stays within a
	// century of the review.
	MaxIntervalDays = 36500
)

// State is the learning state of one card.
type State struct {
	Ease         float64
	IntervalDays int
	Repetitions  int
	DueAt        time.Time
	TotalSuccess int
	TotalFail    int
}

// NewState returns the state of a card introduced at now.
func NewState(now time.Time) State {
	return State{
		Ease:  DefaultEase,
		DueAt: now,
	}
}

// Snapshot is a possibly incomplete state record as read from a store.
// Nil fields take their defaults when converted with State.
type Snapshot struct {
	Ease         *float64
	IntervalDays *int
	Repetitions  *int
	DueAt        *time.Time
	TotalSuccess *int
	TotalFail    *int
}

// State fills in defaults for missing fields. A missing DueAt becomes now.
func (s Snapshot) State(now time.Time) State {
	st := NewState(now)
	if s.Ease != nil {
		st.Ease = *s.Ease
	}
	if s.IntervalDays != nil {
		st.IntervalDays = *s.IntervalDays
	}
	if s.Repetitions != nil {
		st.Repetitions = *s.Repetitions
	}
	if s.DueAt != nil {
		st.DueAt = *s.DueAt
	}
	if s.TotalSuccess != nil {
		st.TotalSuccess = *s.TotalSuccess
	}
	if s.TotalFail != nil {
		st.TotalFail = *s.TotalFail
	}
	return st
}

// ComputeNextState returns the state after reviewing a card with grade at now.
//
// Again resets the streak and brings the card back the next day. Hard and Good
// extend the streak: 1 day, then 3 days, then the previous interval multiplied
// by the updated ease, capped at MaxIntervalDays. The due date is now plus the
// new interval in calendar days, keeping the time of day.
func ComputeNextState(current State, grade Grade, now time.Time) (State, error) {
	if !grade.IsValid() {
		return State{}, fmt.Errorf("%w: %s", ErrInvalidGrade, grade)
	}

	next := State{
		TotalSuccess: current.TotalSuccess,
		TotalFail:    current.TotalFail,
	}

	switch grade {
	case Again:
		next.Ease = clamp(current.Ease-lapsePenalty, MinEase, MaxLapseEase)
		next.Repetitions = 0
		next.IntervalDays = lapseInterval
		next.TotalFail++
	default:
		delta := easeStep
		if grade == Hard {
			delta = -easeStep
		}
		next.Ease = clamp(current.Ease+delta, MinEase, MaxEase)
		next.Repetitions = current.Repetitions + 1
		switch next.Repetitions {
		case 1:
			next.IntervalDays = firstInterval
		case 2:
			next.IntervalDays = secondInterval
		default:
			// previous interval, updated ease
			grown := math.Round(float64(current.IntervalDays) * next.Ease)
			next.IntervalDays = int(math.Min(math.Max(grown, 0), MaxIntervalDays))
		}
		next.TotalSuccess++
	}

	next.DueAt = now.AddDate(0, 0, next.IntervalDays)
	return next, nil
}

// ComputeNextStateFromSnapshot applies defaults to s and schedules it.
func ComputeNextStateFromSnapshot(s Snapshot, grade Grade, now time.Time) (State, error) {
	return ComputeNextState(s.State(now), grade, now)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
