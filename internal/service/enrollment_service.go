package service

import (
	"errors"
	"strings"
	"time"

	"educloud_backend/internal/model"
	"educloud_backend/internal/repository"
	"educloud_backend/internal/util"
	"educloud_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	LessonRepo     *repository.LessonRepository
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository, lessonRepo *repository.LessonRepository) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		LessonRepo:     lessonRepo,
	}
}

// Enroll creates an active enrollment and bumps the course counter. A second
// enroll for the same pair is a conflict, caught either by the lookup or by
// the unique index when two requests race.
func (s *EnrollmentService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.Status != model.CoursePublished {
		return nil, util.ErrCourseNotPublished
	}

	if _, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:       userID,
		CourseID:     courseID,
		Status:       model.EnrollmentActive,
		LastAccessed: time.Now(),
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		if isDuplicateKey(err) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}

	if err := s.CourseRepo.AdjustEnrollmentCount(courseID, 1); err != nil {
		logger.Log.Error("Failed to bump enrollment count",
			zap.Uint("courseId", courseID), zap.Error(err))
	}

	return enrollment, nil
}

// isDuplicateKey matches the unique index violation across mysql and sqlite.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// Unenroll removes the row outright so the user can re-enroll later, and
// decrements the course counter.
func (s *EnrollmentService) Unenroll(userID, courseID uint) error {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEnrollmentNotFound
		}
		return err
	}

	if err := s.EnrollmentRepo.Delete(enrollment.ID); err != nil {
		return err
	}

	if err := s.CourseRepo.AdjustEnrollmentCount(courseID, -1); err != nil {
		logger.Log.Error("Failed to decrement enrollment count",
			zap.Uint("courseId", courseID), zap.Error(err))
	}
	return nil
}

func (s *EnrollmentService) ListByUser(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.FindByUser(userID)
}

// ListByCourse is the instructor's roster view.
func (s *EnrollmentService) ListByCourse(actor *util.Claims, courseID uint) ([]model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !canManage(course, actor) {
		return nil, util.ErrPermissionDenied
	}
	return s.EnrollmentRepo.FindByCourse(courseID)
}

func (s *EnrollmentService) Get(userID, courseID uint) (*model.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return enrollment, nil
}

type UpdateProgressInput struct {
	Status          model.EnrollmentStatus `json:"status" binding:"omitempty,oneof=active completed dropped"`
	PercentComplete *float64               `json:"percentComplete" binding:"omitempty,gte=0,lte=100"`
}

// UpdateStudentProgress lets the course owner or an admin override a student's
// enrollment status or percentage, e.g. to credit offline work.
func (s *EnrollmentService) UpdateStudentProgress(actor *util.Claims, courseID, userID uint, input UpdateProgressInput) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !canManage(course, actor) {
		return nil, util.ErrPermissionDenied
	}

	enrollment, err := s.Get(userID, courseID)
	if err != nil {
		return nil, err
	}

	if input.Status != "" {
		enrollment.Status = input.Status
	}
	if input.PercentComplete != nil {
		enrollment.PercentComplete = *input.PercentComplete
	}

	if err := s.EnrollmentRepo.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// CompleteLesson marks a lesson done and recomputes the percentage. Completing
// the same lesson twice changes nothing. At 100 percent the enrollment flips
// to completed.
func (s *EnrollmentService) CompleteLesson(userID, courseID, lessonID uint) (*model.Enrollment, error) {
	enrollment, err := s.Get(userID, courseID)
	if err != nil {
		return nil, err
	}

	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if lesson.CourseID != courseID {
		return nil, util.ErrLessonNotFound
	}

	now := time.Now()
	if !enrollment.HasCompleted(lessonID) {
		cl := &model.CompletedLesson{
			EnrollmentID: enrollment.ID,
			LessonID:     lessonID,
			CompletedAt:  now,
		}
		if err := s.EnrollmentRepo.AddCompletedLesson(cl); err != nil {
			// A concurrent request already recorded it; the unique index
			// keeps the set consistent.
			if !isDuplicateKey(err) {
				return nil, err
			}
		} else {
			enrollment.CompletedLessons = append(enrollment.CompletedLessons, *cl)
		}
	}

	total, err := s.CourseRepo.CountLessons(courseID)
	if err != nil {
		return nil, err
	}

	enrollment.PercentComplete = enrollment.Progress(int(total))
	enrollment.LastAccessed = now
	if enrollment.PercentComplete >= 100 {
		enrollment.Status = model.EnrollmentCompleted
	}

	if err := s.EnrollmentRepo.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}
