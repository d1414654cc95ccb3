package repository

import (
	"educloud_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(q *model.Quiz) error {
	return r.DB.Create(q).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var q model.Quiz
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *QuizRepository) FindByCourse(courseID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("course_id = ?", courseID).Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Update(q *model.Quiz) error {
	return r.DB.Save(q).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Quiz{}, id).Error
}

func (r *QuizRepository) CreateSubmission(s *model.QuizSubmission) error {
	return r.DB.Create(s).Error
}

func (r *QuizRepository) FindSubmissions(quizID uint) ([]model.QuizSubmission, error) {
	var submissions []model.QuizSubmission
	err := r.DB.Preload("User").Where("quiz_id = ?", quizID).Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}

func (r *QuizRepository) FindUserSubmissions(quizID, userID uint) ([]model.QuizSubmission, error) {
	var submissions []model.QuizSubmission
	err := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}
