package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduledClass() *LiveClass {
	return &LiveClass{
		Title:              "Office hours",
		CourseID:           1,
		InstructorID:       1,
		ScheduledStartTime: time.Now().Add(time.Hour),
		ScheduledEndTime:   time.Now().Add(2 * time.Hour),
		Status:             LiveClassScheduled,
		Settings:           DefaultLiveClassSettings(),
	}
}

func TestLiveClassStart(t *testing.T) {
	lc := scheduledClass()
	now := time.Now()

	require.NoError(t, lc.Start(now))
	assert.Equal(t, LiveClassActive, lc.Status)
	require.NotNil(t, lc.ActualStartTime)
	assert.Equal(t, now, *lc.ActualStartTime)

	// Starting twice is invalid.
	assert.ErrorIs(t, lc.Start(now), ErrInvalidTransition)
}

func TestLiveClassEnd(t *testing.T) {
	lc := scheduledClass()

	// Cannot end before starting.
	assert.ErrorIs(t, lc.End(time.Now()), ErrInvalidTransition)

	require.NoError(t, lc.Start(time.Now()))
	now := time.Now()
	require.NoError(t, lc.End(now))
	assert.Equal(t, LiveClassEnded, lc.Status)
	require.NotNil(t, lc.ActualEndTime)

	assert.ErrorIs(t, lc.End(now), ErrInvalidTransition)
	assert.ErrorIs(t, lc.Start(now), ErrInvalidTransition)
}

func TestLiveClassCancel(t *testing.T) {
	lc := scheduledClass()
	require.NoError(t, lc.Cancel())
	assert.Equal(t, LiveClassCancelled, lc.Status)

	// Cancelled is terminal.
	assert.ErrorIs(t, lc.Start(time.Now()), ErrInvalidTransition)
	assert.ErrorIs(t, lc.Cancel(), ErrInvalidTransition)

	active := scheduledClass()
	require.NoError(t, active.Start(time.Now()))
	assert.ErrorIs(t, active.Cancel(), ErrInvalidTransition)
}

func TestAddParticipantRequiresActive(t *testing.T) {
	lc := scheduledClass()
	_, err := lc.AddParticipant(7, time.Now())
	assert.ErrorIs(t, err, ErrClassNotActive)
}

func TestAddParticipantIdempotentWhileJoined(t *testing.T) {
	lc := scheduledClass()
	require.NoError(t, lc.Start(time.Now()))

	joined, err := lc.AddParticipant(7, time.Now())
	require.NoError(t, err)
	assert.True(t, joined)
	assert.Equal(t, 1, lc.ActiveParticipantCount())

	// Second join without leaving is a no-op.
	joined, err = lc.AddParticipant(7, time.Now())
	require.NoError(t, err)
	assert.False(t, joined)
	assert.Len(t, lc.Participants, 1)
}

func TestRejoinAfterLeaving(t *testing.T) {
	lc := scheduledClass()
	require.NoError(t, lc.Start(time.Now()))

	joined, err := lc.AddParticipant(7, time.Now())
	require.NoError(t, err)
	require.True(t, joined)

	assert.True(t, lc.RemoveParticipant(7, time.Now()))
	assert.Equal(t, 0, lc.ActiveParticipantCount())

	// A fresh attendance record, the closed one stays.
	joined, err = lc.AddParticipant(7, time.Now())
	require.NoError(t, err)
	assert.True(t, joined)
	assert.Len(t, lc.Participants, 2)
	assert.Equal(t, 1, lc.ActiveParticipantCount())
}

func TestRemoveParticipantNoOpWithoutJoin(t *testing.T) {
	lc := scheduledClass()
	require.NoError(t, lc.Start(time.Now()))
	assert.False(t, lc.RemoveParticipant(99, time.Now()))
}

func TestAddParticipantCapacity(t *testing.T) {
	lc := scheduledClass()
	lc.Settings.MaxParticipants = 2
	require.NoError(t, lc.Start(time.Now()))

	for _, id := range []uint{1, 2} {
		joined, err := lc.AddParticipant(id, time.Now())
		require.NoError(t, err)
		require.True(t, joined)
	}

	_, err := lc.AddParticipant(3, time.Now())
	assert.ErrorIs(t, err, ErrClassFull)

	// Someone leaving frees a slot.
	lc.RemoveParticipant(1, time.Now())
	joined, err := lc.AddParticipant(3, time.Now())
	require.NoError(t, err)
	assert.True(t, joined)
}
