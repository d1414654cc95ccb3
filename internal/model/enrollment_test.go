package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCompleted(t *testing.T) {
	e := &Enrollment{
		CompletedLessons: []CompletedLesson{{LessonID: 1}, {LessonID: 3}},
	}
	assert.True(t, e.HasCompleted(1))
	assert.True(t, e.HasCompleted(3))
	assert.False(t, e.HasCompleted(2))
}

func TestProgress(t *testing.T) {
	e := &Enrollment{
		CompletedLessons: []CompletedLesson{{LessonID: 1}, {LessonID: 2}},
	}
	assert.InDelta(t, 50.0, e.Progress(4), 0.001)
	assert.InDelta(t, 100.0, e.Progress(2), 0.001)

	// A course without lessons never divides by zero.
	assert.Equal(t, 0.0, e.Progress(0))
	assert.Equal(t, 0.0, e.Progress(-1))
}
