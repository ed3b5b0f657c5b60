package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/vocabflash/internal/srs"
)

func TestCard_StateRoundTrip(t *testing.T) {
	due := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	st := srs.State{Ease: 2.36, IntervalDays: 6, Repetitions: 2, DueAt: due, TotalSuccess: 3, TotalFail: 1}

	c := Card{ID: "c1", MistakeID: 4, StudentID: 9}.WithState(st)
	assert.Equal(t, st, c.State())
	assert.Equal(t, "c1", c.ID, "identity is kept")
	assert.Equal(t, int64(4), c.MistakeID)
}

func TestCard_IsDue(t *testing.T) {
	due := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := Card{DueAt: due}

	assert.False(t, c.IsDue(due.Add(-time.Second)))
	assert.True(t, c.IsDue(due))
	assert.True(t, c.IsDue(due.Add(time.Hour)))
}

func TestProfile_Roles(t *testing.T) {
	assert.True(t, Profile{Role: RoleStudent}.IsStudent())
	assert.False(t, Profile{Role: RoleStudent}.IsTutor())
	assert.True(t, Profile{Role: RoleTutor}.IsTutor())
	assert.False(t, Profile{Role: "admin"}.IsStudent())
}

func TestReviewInput_DecodesGrade(t *testing.T) {
	var in ReviewInput
	require.NoError(t, json.Unmarshal([]byte(`{"grade":"hard","time_seconds":3.5}`), &in))
	assert.Equal(t, srs.Hard, in.Grade)
	assert.Equal(t, 3.5, in.TimeSeconds)

	err := json.Unmarshal([]byte(`{"grade":"easy"}`), &in)
	assert.ErrorIs(t, err, srs.ErrInvalidGrade)
}
