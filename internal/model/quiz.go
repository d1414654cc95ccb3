package model

import (
	"strings"
	"time"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	ShortAnswer    QuestionType = "short-answer"
)

type QuizOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuizQuestion struct {
	Question      string       `json:"question"`
	Type          QuestionType `json:"type"`
	Options       []QuizOption `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"` // short-answer only
	Points        float64      `json:"points"`
	Explanation   string       `json:"explanation,omitempty"`
}

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title            string         `gorm:"size:200;not null" json:"title"`
	CourseID         uint           `gorm:"index;not null" json:"courseId"`
	Description      string         `gorm:"type:text" json:"description"`
	TimeLimit        int            `gorm:"not null" json:"timeLimit"` // minutes
	PassingScore     float64        `gorm:"not null" json:"passingScore"`
	Questions        []QuizQuestion `gorm:"serializer:json" json:"questions"`
	ShuffleQuestions bool           `gorm:"default:false" json:"shuffleQuestions"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Grade scores an answer sheet server side. Choice questions match the
// correct option's text, short answers are compared case-insensitively.
// Missing answers score zero.
func (q *Quiz) Grade(answers []string) float64 {
	var score float64
	for i, question := range q.Questions {
		if i >= len(answers) {
			break
		}
		answer := strings.TrimSpace(answers[i])
		if answer == "" {
			continue
		}
		switch question.Type {
		case ShortAnswer:
			if strings.EqualFold(answer, strings.TrimSpace(question.CorrectAnswer)) {
				score += question.Points
			}
		default:
			for _, opt := range question.Options {
				if opt.IsCorrect && opt.Text == answer {
					score += question.Points
					break
				}
			}
		}
	}
	return score
}

// TotalPoints sums the per-question points.
func (q *Quiz) TotalPoints() float64 {
	var total float64
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// swagger:model QuizSubmission
type QuizSubmission struct {
	BaseModel
	QuizID uint  `gorm:"index;not null" json:"quizId"`
	UserID uint  `gorm:"index;not null" json:"userId"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Answers     []string  `gorm:"serializer:json" json:"answers"`
	Score       float64   `json:"score"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}
