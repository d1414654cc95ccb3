package repository

import (
	"educloud_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type LiveClassRepository struct {
	DB *gorm.DB
}

func NewLiveClassRepository(db *gorm.DB) *LiveClassRepository {
	return &LiveClassRepository{DB: db}
}

func (r *LiveClassRepository) Create(lc *model.LiveClass) error {
	return r.DB.Create(lc).Error
}

func (r *LiveClassRepository) FindByID(id uint) (*model.LiveClass, error) {
	var lc model.LiveClass
	err := r.DB.Preload("Instructor").Preload("Course").Preload("Participants").
		First(&lc, id).Error
	return &lc, err
}

func (r *LiveClassRepository) FindByCourse(courseID uint, status model.LiveClassStatus) ([]model.LiveClass, error) {
	query := r.DB.Preload("Instructor").Where("course_id = ?", courseID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var classes []model.LiveClass
	err := query.Order("scheduled_start_time DESC").Find(&classes).Error
	return classes, err
}

// Upcoming lists scheduled classes for a course that have not reached their
// scheduled start yet.
func (r *LiveClassRepository) Upcoming(courseID uint) ([]model.LiveClass, error) {
	var classes []model.LiveClass
	err := r.DB.Preload("Instructor").
		Where("course_id = ? AND status = ? AND scheduled_start_time > ?",
			courseID, model.LiveClassScheduled, time.Now()).
		Order("scheduled_start_time").
		Find(&classes).Error
	return classes, err
}

func (r *LiveClassRepository) Active() ([]model.LiveClass, error) {
	var classes []model.LiveClass
	err := r.DB.Preload("Instructor").Preload("Course").
		Where("status = ?", model.LiveClassActive).
		Find(&classes).Error
	return classes, err
}

// UpdateStatus persists only the lifecycle fields; participants are written
// through their own methods below.
func (r *LiveClassRepository) UpdateStatus(lc *model.LiveClass) error {
	return r.DB.Model(&model.LiveClass{}).
		Where("id = ?", lc.ID).
		Updates(map[string]interface{}{
			"status":            lc.Status,
			"actual_start_time": lc.ActualStartTime,
			"actual_end_time":   lc.ActualEndTime,
		}).Error
}

func (r *LiveClassRepository) Update(lc *model.LiveClass) error {
	return r.DB.Omit("Participants", "Instructor", "Course").Save(lc).Error
}

func (r *LiveClassRepository) Delete(id uint) error {
	return r.DB.Delete(&model.LiveClass{}, id).Error
}

func (r *LiveClassRepository) CreateParticipant(p *model.LiveClassParticipant) error {
	return r.DB.Create(p).Error
}

// CloseParticipant stamps leftAt on the user's open attendance record.
func (r *LiveClassRepository) CloseParticipant(liveClassID, userID uint, leftAt time.Time) error {
	return r.DB.Model(&model.LiveClassParticipant{}).
		Where("live_class_id = ? AND user_id = ? AND left_at IS NULL", liveClassID, userID).
		Update("left_at", leftAt).
		Error
}
