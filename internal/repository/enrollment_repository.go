package repository

import (
	"educloud_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Preload("CompletedLessons").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) FindByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").Preload("Course.Instructor").Preload("CompletedLessons").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) FindByCourse(courseID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("User").Preload("CompletedLessons").
		Where("course_id = ?", courseID).
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) Update(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}

func (r *EnrollmentRepository) Delete(id uint) error {
	return r.DB.Unscoped().Delete(&model.Enrollment{}, id).Error
}

func (r *EnrollmentRepository) AddCompletedLesson(cl *model.CompletedLesson) error {
	return r.DB.Create(cl).Error
}

// Rollup queries backing the dashboard.

func (r *EnrollmentRepository) CountByCourses(courseIDs []uint) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id IN ? AND status IN ?", courseIDs, []model.EnrollmentStatus{model.EnrollmentActive, model.EnrollmentCompleted}).
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) CountDistinctStudents(courseIDs []uint) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id IN ? AND status IN ?", courseIDs, []model.EnrollmentStatus{model.EnrollmentActive, model.EnrollmentCompleted}).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) CountByCourseAndStatus(courseID uint, status model.EnrollmentStatus) (int64, error) {
	var count int64
	query := r.DB.Model(&model.Enrollment{}).Where("course_id = ?", courseID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) RecentByCourses(courseIDs []uint, limit int) ([]model.Enrollment, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	var enrollments []model.Enrollment
	err := r.DB.Preload("User").Preload("Course").
		Where("course_id IN ?", courseIDs).
		Order("created_at DESC").
		Limit(limit).
		Find(&enrollments).Error
	return enrollments, err
}
