package util

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks caller-input failures so the response layer can map
	// them to 400 without enumerating every message.
	ErrValidation = errors.New("invalid input")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrUserDisabled       = errors.New("user account disabled")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseNotPublished = errors.New("course is not open for enrollment")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrNotInstructor      = errors.New("instructor must have instructor or admin role")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	ErrLiveClassNotFound  = errors.New("live class not found")
	ErrLiveClassActive    = errors.New("cannot delete an active live class")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrAlreadySubmitted   = errors.New("already submitted")
	ErrSubmissionNotFound = errors.New("submission not found")
)

// Invalidf builds a message-bearing error with ErrValidation in its chain.
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
