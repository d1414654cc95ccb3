package model

import (
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID   uint    `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"userId"`
	CourseID uint    `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"courseId"`
	User     *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course   *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`

	Status          EnrollmentStatus `gorm:"size:20;default:'active'" json:"status"`
	PercentComplete float64          `gorm:"default:0" json:"percentComplete"`
	LastAccessed    time.Time        `json:"lastAccessed"`

	CompletedLessons []CompletedLesson `gorm:"foreignKey:EnrollmentID" json:"completedLessons,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// CompletedLesson is one entry in an enrollment's completed set. The unique
// index makes "complete lesson" idempotent even under concurrent requests.
type CompletedLesson struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EnrollmentID uint      `gorm:"uniqueIndex:idx_completed_enrollment_lesson;not null" json:"enrollmentId"`
	LessonID     uint      `gorm:"uniqueIndex:idx_completed_enrollment_lesson;not null" json:"lessonId"`
	CompletedAt  time.Time `json:"completedAt"`
}

func (CompletedLesson) TableName() string {
	return "completed_lessons"
}

// HasCompleted reports whether the lesson is already in the completed set.
func (e *Enrollment) HasCompleted(lessonID uint) bool {
	for _, cl := range e.CompletedLessons {
		if cl.LessonID == lessonID {
			return true
		}
	}
	return false
}

// Progress recomputes the completion percentage against the course's lesson
// count. Zero lessons means zero percent rather than a division by zero.
func (e *Enrollment) Progress(totalLessons int) float64 {
	if totalLessons <= 0 {
		return 0
	}
	return float64(len(e.CompletedLessons)) / float64(totalLessons) * 100
}
