package repository

import (
	"educloud_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) FindByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).Order("lesson_order").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}

// OrderTaken checks the best-effort per-course order uniqueness. excludeID
// skips the lesson being updated.
func (r *LessonRepository) OrderTaken(courseID uint, order int, excludeID uint) (bool, error) {
	var count int64
	query := r.DB.Model(&model.Lesson{}).
		Where("course_id = ? AND lesson_order = ?", courseID, order)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *LessonRepository) NextOrder(courseID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.Lesson{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(lesson_order), 0)").
		Scan(&max).Error
	return max + 1, err
}
