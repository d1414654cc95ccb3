package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleQuiz() *Quiz {
	return &Quiz{
		Title:        "Basics",
		PassingScore: 5,
		Questions: []QuizQuestion{
			{
				Question: "2 + 2?",
				Type:     MultipleChoice,
				Points:   3,
				Options: []QuizOption{
					{Text: "3"},
					{Text: "4", IsCorrect: true},
				},
			},
			{
				Question: "The sky is blue.",
				Type:     TrueFalse,
				Points:   2,
				Options: []QuizOption{
					{Text: "true", IsCorrect: true},
					{Text: "false"},
				},
			},
			{
				Question:      "Capital of France?",
				Type:          ShortAnswer,
				Points:        5,
				CorrectAnswer: "Paris",
			},
		},
	}
}

func TestQuizGrade(t *testing.T) {
	q := sampleQuiz()

	assert.Equal(t, 10.0, q.Grade([]string{"4", "true", "paris"}))
	assert.Equal(t, 3.0, q.Grade([]string{"4", "false", "London"}))
	assert.Equal(t, 0.0, q.Grade([]string{"3", "false", ""}))
}

func TestQuizGradeShortAnswerCaseInsensitive(t *testing.T) {
	q := sampleQuiz()
	assert.Equal(t, 5.0, q.Grade([]string{"", "", " PARIS "}))
}

func TestQuizGradeMissingAnswers(t *testing.T) {
	q := sampleQuiz()
	assert.Equal(t, 3.0, q.Grade([]string{"4"}))
	assert.Equal(t, 0.0, q.Grade(nil))
}

func TestQuizTotalPoints(t *testing.T) {
	assert.Equal(t, 10.0, sampleQuiz().TotalPoints())
}
