package service

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"

	"educloud_backend/internal/model"
	"educloud_backend/internal/repository"
	"educloud_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	UserRepo       *repository.UserRepository
	StorageService *StorageService
}

func NewCourseService(courseRepo *repository.CourseRepository, userRepo *repository.UserRepository, storage *StorageService) *CourseService {
	return &CourseService{CourseRepo: courseRepo, UserRepo: userRepo, StorageService: storage}
}

// canManage is the single ownership rule for courses: the owning instructor
// or an admin.
func canManage(course *model.Course, actor *util.Claims) bool {
	return actor.Role == model.Admin || course.InstructorID == actor.UserID
}

type CreateCourseInput struct {
	Title         string            `json:"title" binding:"required,max=200"`
	Description   string            `json:"description"`
	Category      string            `json:"category" binding:"required,max=50"`
	Level         model.CourseLevel `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	Price         float64           `json:"price" binding:"gte=0"`
	Duration      int               `json:"duration" binding:"gte=0"`
	Prerequisites []string          `json:"prerequisites"`
	Objectives    []string          `json:"objectives"`
}

func (s *CourseService) Create(actor *util.Claims, input CreateCourseInput) (*model.Course, error) {
	instructor, err := s.UserRepo.FindByID(actor.UserID)
	if err != nil {
		return nil, err
	}
	if !instructor.CanTeach() {
		return nil, util.ErrNotInstructor
	}

	course := &model.Course{
		Title:         input.Title,
		Description:   input.Description,
		InstructorID:  actor.UserID,
		Category:      input.Category,
		Level:         input.Level,
		Price:         input.Price,
		Duration:      input.Duration,
		Prerequisites: input.Prerequisites,
		Objectives:    input.Objectives,
		Status:        model.CourseDraft,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetByID(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) List(filter repository.CourseFilter, page, limit int) ([]model.Course, int64, error) {
	return s.CourseRepo.List(filter, page, limit)
}

type UpdateCourseInput struct {
	Title         string             `json:"title" binding:"omitempty,max=200"`
	Description   *string            `json:"description"`
	Category      string             `json:"category" binding:"omitempty,max=50"`
	Level         model.CourseLevel  `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Price         *float64           `json:"price" binding:"omitempty,gte=0"`
	Duration      *int               `json:"duration" binding:"omitempty,gte=0"`
	Prerequisites []string           `json:"prerequisites"`
	Objectives    []string           `json:"objectives"`
	Status        model.CourseStatus `json:"status" binding:"omitempty,oneof=draft published archived"`
}

func (s *CourseService) Update(actor *util.Claims, id uint, input UpdateCourseInput) (*model.Course, error) {
	course, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !canManage(course, actor) {
		return nil, util.ErrPermissionDenied
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Category != "" {
		course.Category = input.Category
	}
	if input.Level != "" {
		course.Level = input.Level
	}
	if input.Price != nil {
		course.Price = *input.Price
	}
	if input.Duration != nil {
		course.Duration = *input.Duration
	}
	if input.Prerequisites != nil {
		course.Prerequisites = input.Prerequisites
	}
	if input.Objectives != nil {
		course.Objectives = input.Objectives
	}
	if input.Status != "" {
		course.Status = input.Status
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(actor *util.Claims, id uint) error {
	course, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if !canManage(course, actor) {
		return util.ErrPermissionDenied
	}
	return s.CourseRepo.Delete(id)
}

// UploadThumbnail stores the image and updates the course's thumbnail URL.
func (s *CourseService) UploadThumbnail(ctx context.Context, actor *util.Claims, courseID uint, fileHeader *multipart.FileHeader) (*model.Course, error) {
	course, err := s.GetByID(courseID)
	if err != nil {
		return nil, err
	}
	if !canManage(course, actor) {
		return nil, util.ErrPermissionDenied
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return nil, err
	}

	filename := "courses/" + model.GenerateUUID() + filepath.Ext(fileHeader.Filename)
	url, err := s.StorageService.Upload(ctx, filename, file, fileHeader.Size, mimeType)
	if err != nil {
		return nil, err
	}

	course.Thumbnail = url
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}
