package service

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"time"

	"educloud_backend/internal/model"
	"educloud_backend/internal/repository"
	"educloud_backend/internal/util"

	"gorm.io/gorm"
)

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	StorageService *StorageService
}

func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, storage *StorageService) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		StorageService: storage,
	}
}

func (s *AssignmentService) courseForManage(actor *util.Claims, courseID uint) (*model.Course, error) {
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
	return course, nil
}

type CreateAssignmentInput struct {
	Title            string               `json:"title" binding:"required,max=200"`
	Description      string               `json:"description"`
	DueDate          time.Time            `json:"dueDate" binding:"required"`
	Points           float64              `json:"points" binding:"gte=0"`
	Instructions     string               `json:"instructions"`
	SubmissionType   model.SubmissionType `json:"submissionType" binding:"required,oneof=file text link"`
	AllowedFileTypes []string             `json:"allowedFileTypes"`
	MaxFileSize      int64                `json:"maxFileSize" binding:"gte=0"`
	Rubric           []model.RubricItem   `json:"rubric"`
}

func (s *AssignmentService) Create(actor *util.Claims, courseID uint, input CreateAssignmentInput) (*model.Assignment, error) {
	if _, err := s.courseForManage(actor, courseID); err != nil {
		return nil, err
	}

	assignment := &model.Assignment{
		Title:            input.Title,
		CourseID:         courseID,
		Description:      input.Description,
		DueDate:          input.DueDate,
		Points:           input.Points,
		Instructions:     input.Instructions,
		SubmissionType:   input.SubmissionType,
		AllowedFileTypes: input.AllowedFileTypes,
		MaxFileSize:      input.MaxFileSize,
		Rubric:           input.Rubric,
	}
	if err := s.AssignmentRepo.Create(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) GetByID(id uint) (*model.Assignment, error) {
	assignment, err := s.AssignmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) ListByCourse(courseID uint) ([]model.Assignment, error) {
	return s.AssignmentRepo.FindByCourse(courseID)
}

type UpdateAssignmentInput struct {
	Title        string             `json:"title" binding:"omitempty,max=200"`
	Description  *string            `json:"description"`
	DueDate      *time.Time         `json:"dueDate"`
	Points       *float64           `json:"points" binding:"omitempty,gte=0"`
	Instructions *string            `json:"instructions"`
	Rubric       []model.RubricItem `json:"rubric"`
}

func (s *AssignmentService) Update(actor *util.Claims, id uint, input UpdateAssignmentInput) (*model.Assignment, error) {
	assignment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.courseForManage(actor, assignment.CourseID); err != nil {
		return nil, err
	}

	if input.Title != "" {
		assignment.Title = input.Title
	}
	if input.Description != nil {
		assignment.Description = *input.Description
	}
	if input.DueDate != nil {
		assignment.DueDate = *input.DueDate
	}
	if input.Points != nil {
		assignment.Points = *input.Points
	}
	if input.Instructions != nil {
		assignment.Instructions = *input.Instructions
	}
	if input.Rubric != nil {
		assignment.Rubric = input.Rubric
	}

	if err := s.AssignmentRepo.Update(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) Delete(actor *util.Claims, id uint) error {
	assignment, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if _, err := s.courseForManage(actor, assignment.CourseID); err != nil {
		return err
	}
	return s.AssignmentRepo.Delete(id)
}

type SubmitAssignmentInput struct {
	Content string `json:"content"`
	Link    string `json:"link" binding:"omitempty,url"`
}

// Submit records a student's submission. One submission per assignment; it is
// marked late when it lands past the due date.
func (s *AssignmentService) Submit(ctx context.Context, userID uint, assignmentID uint, input SubmitAssignmentInput, fileHeader *multipart.FileHeader) (*model.AssignmentSubmission, error) {
	assignment, err := s.GetByID(assignmentID)
	if err != nil {
		return nil, err
	}

	// Only enrolled students may submit.
	if _, err := s.EnrollmentRepo.FindByUserAndCourse(userID, assignment.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	if _, err := s.AssignmentRepo.FindSubmission(assignmentID, userID); err == nil {
		return nil, util.ErrAlreadySubmitted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	submission := &model.AssignmentSubmission{
		AssignmentID: assignmentID,
		UserID:       userID,
		Content:      input.Content,
		Link:         input.Link,
		SubmittedAt:  now,
		Status:       model.SubmissionSubmitted,
	}
	if now.After(assignment.DueDate) {
		submission.Status = model.SubmissionLate
	}

	if assignment.SubmissionType == model.SubmitFile {
		if fileHeader == nil {
			return nil, util.Invalidf("a file is required for this assignment")
		}
		if assignment.MaxFileSize > 0 && fileHeader.Size > assignment.MaxFileSize {
			return nil, util.Invalidf("file exceeds the assignment size limit")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer file.Close()

		allowed := assignment.AllowedFileTypes
		if len(allowed) == 0 {
			allowed = []string{util.MimeImage, util.MimeVideo, util.MimePDF, "text/", util.MimeOctetStream}
		}
		mimeType, err := util.ValidateMimeType(file, allowed)
		if err != nil {
			return nil, err
		}
		if _, err := file.Seek(0, 0); err != nil {
			return nil, err
		}

		filename := "submissions/" + model.GenerateUUID() + filepath.Ext(fileHeader.Filename)
		url, err := s.StorageService.Upload(ctx, filename, file, fileHeader.Size, mimeType)
		if err != nil {
			return nil, err
		}
		submission.FileURL = url
	}

	if err := s.AssignmentRepo.CreateSubmission(submission); err != nil {
		if isDuplicateKey(err) {
			return nil, util.ErrAlreadySubmitted
		}
		return nil, err
	}
	return submission, nil
}

func (s *AssignmentService) ListSubmissions(actor *util.Claims, assignmentID uint) ([]model.AssignmentSubmission, error) {
	assignment, err := s.GetByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.courseForManage(actor, assignment.CourseID); err != nil {
		return nil, err
	}
	return s.AssignmentRepo.FindSubmissions(assignmentID)
}

type GradeSubmissionInput struct {
	Score    float64 `json:"score" binding:"gte=0"`
	Feedback string  `json:"feedback"`
}

// Grade stamps score and feedback on a submission.
func (s *AssignmentService) Grade(actor *util.Claims, submissionID uint, input GradeSubmissionInput) (*model.AssignmentSubmission, error) {
	submission, err := s.AssignmentRepo.FindSubmissionByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}

	assignment, err := s.GetByID(submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.courseForManage(actor, assignment.CourseID); err != nil {
		return nil, err
	}

	if input.Score > assignment.Points {
		return nil, util.Invalidf("score exceeds the assignment's points")
	}

	now := time.Now()
	submission.Score = &input.Score
	submission.Feedback = input.Feedback
	submission.Status = model.SubmissionGraded
	submission.GradedBy = &actor.UserID
	submission.GradedAt = &now

	if err := s.AssignmentRepo.UpdateSubmission(submission); err != nil {
		return nil, err
	}
	return submission, nil
}
