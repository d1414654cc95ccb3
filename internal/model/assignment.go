package model

import (
	"time"
)

type SubmissionType string

const (
	SubmitFile SubmissionType = "file"
	SubmitText SubmissionType = "text"
	SubmitLink SubmissionType = "link"
)

type RubricItem struct {
	Criterion   string  `json:"criterion"`
	Points      float64 `json:"points"`
	Description string  `json:"description"`
}

// swagger:model Assignment
type Assignment struct {
	BaseModel
	Title            string         `gorm:"size:200;not null" json:"title"`
	CourseID         uint           `gorm:"index;not null" json:"courseId"`
	Description      string         `gorm:"type:text" json:"description"`
	DueDate          time.Time      `gorm:"not null" json:"dueDate"`
	Points           float64        `gorm:"not null" json:"points"`
	Instructions     string         `gorm:"type:text" json:"instructions"`
	Attachments      []Attachment   `gorm:"serializer:json" json:"attachments"`
	SubmissionType   SubmissionType `gorm:"size:10;not null" json:"submissionType"`
	AllowedFileTypes []string       `gorm:"serializer:json" json:"allowedFileTypes"`
	MaxFileSize      int64          `json:"maxFileSize"` // bytes
	Rubric           []RubricItem   `gorm:"serializer:json" json:"rubric"`
}

func (Assignment) TableName() string {
	return "assignments"
}

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
	SubmissionLate      SubmissionStatus = "late"
)

// swagger:model AssignmentSubmission
type AssignmentSubmission struct {
	BaseModel
	AssignmentID uint  `gorm:"uniqueIndex:idx_submission_assignment_user;not null" json:"assignmentId"`
	UserID       uint  `gorm:"uniqueIndex:idx_submission_assignment_user;not null" json:"userId"`
	User         *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Content     string    `gorm:"type:text" json:"content"`
	FileURL     string    `gorm:"size:255" json:"fileUrl"`
	Link        string    `gorm:"size:255" json:"link"`
	SubmittedAt time.Time `json:"submittedAt"`

	Status   SubmissionStatus `gorm:"size:20;default:'submitted'" json:"status"`
	Score    *float64         `json:"score,omitempty"`
	Feedback string           `gorm:"type:text" json:"feedback"`
	GradedBy *uint            `json:"gradedBy,omitempty"`
	GradedAt *time.Time       `json:"gradedAt,omitempty"`
}

func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}
