package repository

import (
	"educloud_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(a *model.Assignment) error {
	return r.DB.Create(a).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *AssignmentRepository) FindByCourse(courseID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.Where("course_id = ?", courseID).Order("due_date").Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepository) Update(a *model.Assignment) error {
	return r.DB.Save(a).Error
}

func (r *AssignmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Assignment{}, id).Error
}

func (r *AssignmentRepository) CreateSubmission(s *model.AssignmentSubmission) error {
	return r.DB.Create(s).Error
}

func (r *AssignmentRepository) FindSubmission(assignmentID, userID uint) (*model.AssignmentSubmission, error) {
	var s model.AssignmentSubmission
	err := r.DB.Where("assignment_id = ? AND user_id = ?", assignmentID, userID).First(&s).Error
	return &s, err
}

func (r *AssignmentRepository) FindSubmissionByID(id uint) (*model.AssignmentSubmission, error) {
	var s model.AssignmentSubmission
	err := r.DB.Preload("User").First(&s, id).Error
	return &s, err
}

func (r *AssignmentRepository) FindSubmissions(assignmentID uint) ([]model.AssignmentSubmission, error) {
	var submissions []model.AssignmentSubmission
	err := r.DB.Preload("User").Where("assignment_id = ?", assignmentID).Find(&submissions).Error
	return submissions, err
}

func (r *AssignmentRepository) UpdateSubmission(s *model.AssignmentSubmission) error {
	return r.DB.Save(s).Error
}
