package service

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"educloud_backend/internal/model"
	"educloud_backend/internal/repository"
	"educloud_backend/internal/util"
	"educloud_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrOrderTaken = errors.New("lesson order already taken in this course")

type LessonService struct {
	LessonRepo     *repository.LessonRepository
	CourseRepo     *repository.CourseRepository
	StorageService *StorageService
}

func NewLessonService(lessonRepo *repository.LessonRepository, courseRepo *repository.CourseRepository, storage *StorageService) *LessonService {
	return &LessonService{LessonRepo: lessonRepo, CourseRepo: courseRepo, StorageService: storage}
}

func (s *LessonService) courseForManage(actor *util.Claims, courseID uint) (*model.Course, error) {
	var course model.Course
	if err := s.CourseRepo.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !canManage(&course, actor) {
		return nil, util.ErrPermissionDenied
	}
	return &course, nil
}

type CreateLessonInput struct {
	Title       string `json:"title" binding:"required,max=200"`
	Order       int    `json:"order" binding:"gte=0"`
	Content     string `json:"content"`
	Duration    int    `json:"duration" binding:"gte=0"`
	IsPublished bool   `json:"isPublished"`
}

// Create appends a lesson to a course. A zero order means "next free slot";
// an explicit order must not already be taken.
func (s *LessonService) Create(actor *util.Claims, courseID uint, input CreateLessonInput) (*model.Lesson, error) {
	if _, err := s.courseForManage(actor, courseID); err != nil {
		return nil, err
	}

	order := input.Order
	if order == 0 {
		next, err := s.LessonRepo.NextOrder(courseID)
		if err != nil {
			return nil, err
		}
		order = next
	} else {
		taken, err := s.LessonRepo.OrderTaken(courseID, order, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrOrderTaken
		}
	}

	lesson := &model.Lesson{
		Title:       input.Title,
		CourseID:    courseID,
		Order:       order,
		Content:     input.Content,
		Duration:    input.Duration,
		IsPublished: input.IsPublished,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) GetByID(id uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) ListByCourse(courseID uint) ([]model.Lesson, error) {
	if err := s.CourseRepo.DB.First(&model.Course{}, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.LessonRepo.FindByCourse(courseID)
}

type UpdateLessonInput struct {
	Title       string  `json:"title" binding:"omitempty,max=200"`
	Order       *int    `json:"order" binding:"omitempty,gt=0"`
	Content     *string `json:"content"`
	Duration    *int    `json:"duration" binding:"omitempty,gte=0"`
	IsPublished *bool   `json:"isPublished"`
}

func (s *LessonService) Update(actor *util.Claims, id uint, input UpdateLessonInput) (*model.Lesson, error) {
	lesson, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.courseForManage(actor, lesson.CourseID); err != nil {
		return nil, err
	}

	if input.Order != nil && *input.Order != lesson.Order {
		taken, err := s.LessonRepo.OrderTaken(lesson.CourseID, *input.Order, lesson.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrOrderTaken
		}
		lesson.Order = *input.Order
	}
	if input.Title != "" {
		lesson.Title = input.Title
	}
	if input.Content != nil {
		lesson.Content = *input.Content
	}
	if input.Duration != nil {
		lesson.Duration = *input.Duration
	}
	if input.IsPublished != nil {
		lesson.IsPublished = *input.IsPublished
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Delete(actor *util.Claims, id uint) error {
	lesson, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if _, err := s.courseForManage(actor, lesson.CourseID); err != nil {
		return err
	}
	return s.LessonRepo.Delete(id)
}

// UploadVideo stores a lesson video. The temp file written by gin is probed
// for duration before the upload so the lesson length stays accurate.
func (s *LessonService) UploadVideo(ctx context.Context, actor *util.Claims, lessonID uint, fileHeader *multipart.FileHeader, tempPath string) (*model.Lesson, error) {
	lesson, err := s.GetByID(lessonID)
	if err != nil {
		return nil, err
	}
	if _, err := s.courseForManage(actor, lesson.CourseID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowed := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, util.Invalidf("unsupported video extension %s", ext)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	mimeType, err := util.ValidateMimeType(file, []string{util.MimeVideo, util.MimeOctetStream})
	file.Close()
	if err != nil {
		return nil, err
	}

	filename := "lessons/" + model.GenerateUUID() + ext
	url, err := s.StorageService.UploadFile(ctx, filename, tempPath, mimeType)
	if err != nil {
		return nil, err
	}

	lesson.VideoURL = url
	if info, err := util.ProbeMedia(tempPath); err == nil {
		lesson.Duration = int(info.Duration / 60)
	} else {
		logger.Log.Warn("Video probe failed, keeping stored duration",
			zap.Uint("lessonId", lesson.ID), zap.Error(err))
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// AddAttachment uploads a supporting file and appends it to the lesson.
func (s *LessonService) AddAttachment(ctx context.Context, actor *util.Claims, lessonID uint, fileHeader *multipart.FileHeader) (*model.Lesson, error) {
	lesson, err := s.GetByID(lessonID)
	if err != nil {
		return nil, err
	}
	if _, err := s.courseForManage(actor, lesson.CourseID); err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage, util.MimeVideo, util.MimePDF, "text/", util.MimeOctetStream})
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return nil, err
	}

	filename := "attachments/" + model.GenerateUUID() + filepath.Ext(fileHeader.Filename)
	url, err := s.StorageService.Upload(ctx, filename, file, fileHeader.Size, mimeType)
	if err != nil {
		return nil, err
	}

	lesson.Attachments = append(lesson.Attachments, model.Attachment{
		Name: fileHeader.Filename,
		URL:  url,
		Type: mimeType,
	})
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}
