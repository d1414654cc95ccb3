package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"educloud_backend/internal/model"
	"educloud_backend/internal/repository"
	"educloud_backend/internal/util"
	"educloud_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrScheduleLocked       = errors.New("scheduled times cannot change after the class has started")
	ErrRecordingUnavailable = errors.New("recordings can only be attached to an ended class")
)

// Broadcaster is the slice of the realtime hub the live class flow needs.
type Broadcaster interface {
	BroadcastToRoom(room, event string, data map[string]interface{})
}

type LiveClassService struct {
	LiveClassRepo  *repository.LiveClassRepository
	CourseRepo     *repository.CourseRepository
	StorageService *StorageService
	Hub            Broadcaster
}

func NewLiveClassService(liveClassRepo *repository.LiveClassRepository, courseRepo *repository.CourseRepository, storage *StorageService, hub Broadcaster) *LiveClassService {
	return &LiveClassService{
		LiveClassRepo:  liveClassRepo,
		CourseRepo:     courseRepo,
		StorageService: storage,
		Hub:            hub,
	}
}

func courseRoom(courseID uint) string {
	return fmt.Sprintf("course:%d", courseID)
}

// notify pushes a lifecycle event to the course room. Fire and forget; a
// failed or absent hub never blocks the state change.
func (s *LiveClassService) notify(lc *model.LiveClass, event string, data map[string]interface{}) {
	if s.Hub == nil {
		return
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	data["liveClassId"] = lc.ID
	data["status"] = lc.Status
	s.Hub.BroadcastToRoom(courseRoom(lc.CourseID), event, data)
}

type CreateLiveClassInput struct {
	Title              string                   `json:"title" binding:"required,max=200"`
	Description        string                   `json:"description"`
	ScheduledStartTime time.Time                `json:"scheduledStartTime" binding:"required"`
	ScheduledEndTime   time.Time                `json:"scheduledEndTime" binding:"required"`
	Settings           *model.LiveClassSettings `json:"settings"`
}

func (s *LiveClassService) Create(actor *util.Claims, courseID uint, input CreateLiveClassInput) (*model.LiveClass, error) {
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

	if !input.ScheduledEndTime.After(input.ScheduledStartTime) {
		return nil, util.Invalidf("scheduled end must be after scheduled start")
	}

	settings := model.DefaultLiveClassSettings()
	if input.Settings != nil {
		settings = *input.Settings
	}

	lc := &model.LiveClass{
		Title:              input.Title,
		Description:        input.Description,
		CourseID:           courseID,
		InstructorID:       course.InstructorID,
		ScheduledStartTime: input.ScheduledStartTime,
		ScheduledEndTime:   input.ScheduledEndTime,
		Status:             model.LiveClassScheduled,
		Settings:           settings,
	}
	if err := s.LiveClassRepo.Create(lc); err != nil {
		return nil, err
	}
	return lc, nil
}

func (s *LiveClassService) GetByID(id uint) (*model.LiveClass, error) {
	lc, err := s.LiveClassRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLiveClassNotFound
		}
		return nil, err
	}
	return lc, nil
}

func (s *LiveClassService) ListByCourse(courseID uint, status model.LiveClassStatus) ([]model.LiveClass, error) {
	return s.LiveClassRepo.FindByCourse(courseID, status)
}

func (s *LiveClassService) Upcoming(courseID uint) ([]model.LiveClass, error) {
	return s.LiveClassRepo.Upcoming(courseID)
}

func (s *LiveClassService) Active() ([]model.LiveClass, error) {
	return s.LiveClassRepo.Active()
}

func (s *LiveClassService) getForManage(actor *util.Claims, id uint) (*model.LiveClass, error) {
	lc, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.Admin && lc.InstructorID != actor.UserID {
		return nil, util.ErrPermissionDenied
	}
	return lc, nil
}

type UpdateLiveClassInput struct {
	Title              string                   `json:"title" binding:"omitempty,max=200"`
	Description        *string                  `json:"description"`
	ScheduledStartTime *time.Time               `json:"scheduledStartTime"`
	ScheduledEndTime   *time.Time               `json:"scheduledEndTime"`
	Settings           *model.LiveClassSettings `json:"settings"`
}

// Update edits class metadata. Once the class has started the schedule is
// history and can no longer be rewritten.
func (s *LiveClassService) Update(actor *util.Claims, id uint, input UpdateLiveClassInput) (*model.LiveClass, error) {
	lc, err := s.getForManage(actor, id)
	if err != nil {
		return nil, err
	}

	if input.ScheduledStartTime != nil || input.ScheduledEndTime != nil {
		if lc.Status != model.LiveClassScheduled {
			return nil, ErrScheduleLocked
		}
		if input.ScheduledStartTime != nil {
			lc.ScheduledStartTime = *input.ScheduledStartTime
		}
		if input.ScheduledEndTime != nil {
			lc.ScheduledEndTime = *input.ScheduledEndTime
		}
		if !lc.ScheduledEndTime.After(lc.ScheduledStartTime) {
			return nil, util.Invalidf("scheduled end must be after scheduled start")
		}
	}

	if input.Title != "" {
		lc.Title = input.Title
	}
	if input.Description != nil {
		lc.Description = *input.Description
	}
	if input.Settings != nil {
		lc.Settings = *input.Settings
	}

	if err := s.LiveClassRepo.Update(lc); err != nil {
		return nil, err
	}
	return lc, nil
}

func (s *LiveClassService) Delete(actor *util.Claims, id uint) error {
	lc, err := s.getForManage(actor, id)
	if err != nil {
		return err
	}
	if lc.Status == model.LiveClassActive {
		return util.ErrLiveClassActive
	}
	return s.LiveClassRepo.Delete(id)
}

// Start moves the class to active and tells the course room.
func (s *LiveClassService) Start(actor *util.Claims, id uint) (*model.LiveClass, error) {
	lc, err := s.getForManage(actor, id)
	if err != nil {
		return nil, err
	}

	if err := lc.Start(time.Now()); err != nil {
		return nil, err
	}
	if err := s.LiveClassRepo.UpdateStatus(lc); err != nil {
		return nil, err
	}

	s.notify(lc, "live_class:started", nil)
	return lc, nil
}

// End moves the class to ended and tells the course room.
func (s *LiveClassService) End(actor *util.Claims, id uint) (*model.LiveClass, error) {
	lc, err := s.getForManage(actor, id)
	if err != nil {
		return nil, err
	}

	if err := lc.End(time.Now()); err != nil {
		return nil, err
	}
	if err := s.LiveClassRepo.UpdateStatus(lc); err != nil {
		return nil, err
	}

	s.notify(lc, "live_class:ended", nil)
	return lc, nil
}

func (s *LiveClassService) Cancel(actor *util.Claims, id uint) (*model.LiveClass, error) {
	lc, err := s.getForManage(actor, id)
	if err != nil {
		return nil, err
	}

	if err := lc.Cancel(); err != nil {
		return nil, err
	}
	if err := s.LiveClassRepo.UpdateStatus(lc); err != nil {
		return nil, err
	}

	s.notify(lc, "live_class:cancelled", nil)
	return lc, nil
}

// Join records attendance for any authenticated user while the class is
// active. Joining twice without leaving changes nothing.
func (s *LiveClassService) Join(userID, id uint) (*model.LiveClass, error) {
	lc, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	joined, err := lc.AddParticipant(userID, now)
	if err != nil {
		return nil, err
	}
	if !joined {
		return lc, nil
	}

	p := &lc.Participants[len(lc.Participants)-1]
	if err := s.LiveClassRepo.CreateParticipant(p); err != nil {
		return nil, err
	}

	s.notify(lc, "live_class:user_joined", map[string]interface{}{
		"userId":       userID,
		"participants": lc.ActiveParticipantCount(),
	})
	return lc, nil
}

// Leave closes the user's open attendance record. Leaving without having
// joined is a no-op.
func (s *LiveClassService) Leave(userID, id uint) (*model.LiveClass, error) {
	lc, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !lc.RemoveParticipant(userID, now) {
		return lc, nil
	}

	if err := s.LiveClassRepo.CloseParticipant(lc.ID, userID, now); err != nil {
		return nil, err
	}

	s.notify(lc, "live_class:user_left", map[string]interface{}{
		"userId":       userID,
		"participants": lc.ActiveParticipantCount(),
	})
	return lc, nil
}

// UploadRecording stores the recording of an ended class and probes it for
// duration and size.
func (s *LiveClassService) UploadRecording(ctx context.Context, actor *util.Claims, id uint, fileHeader *multipart.FileHeader, tempPath string) (*model.LiveClass, error) {
	lc, err := s.getForManage(actor, id)
	if err != nil {
		return nil, err
	}
	if lc.Status != model.LiveClassEnded {
		return nil, ErrRecordingUnavailable
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

	filename := "recordings/" + model.GenerateUUID() + filepath.Ext(fileHeader.Filename)
	url, err := s.StorageService.UploadFile(ctx, filename, tempPath, mimeType)
	if err != nil {
		return nil, err
	}

	recording := &model.Recording{
		URL:       url,
		Size:      fileHeader.Size,
		CreatedAt: time.Now(),
	}
	if info, err := util.ProbeMedia(tempPath); err == nil {
		recording.Duration = info.Duration
		recording.Size = info.Size
	} else {
		logger.Log.Warn("Recording probe failed",
			zap.Uint("liveClassId", lc.ID), zap.Error(err))
	}

	lc.Recording = recording
	if err := s.LiveClassRepo.Update(lc); err != nil {
		return nil, err
	}
	return lc, nil
}
