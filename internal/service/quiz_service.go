package service

import (
	"errors"
	"time"

	"educloud_backend/internal/model"
	"educloud_backend/internal/repository"
	"educloud_backend/internal/util"

	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo       *repository.QuizRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewQuizService(quizRepo *repository.QuizRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *QuizService {
	return &QuizService{QuizRepo: quizRepo, CourseRepo: courseRepo, EnrollmentRepo: enrollmentRepo}
}

func (s *QuizService) courseForManage(actor *util.Claims, courseID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if !canManage(course, actor) {
		return util.ErrPermissionDenied
	}
	return nil
}

type CreateQuizInput struct {
	Title            string               `json:"title" binding:"required,max=200"`
	Description      string               `json:"description"`
	TimeLimit        int                  `json:"timeLimit" binding:"gte=0"`
	PassingScore     float64              `json:"passingScore" binding:"gte=0"`
	Questions        []model.QuizQuestion `json:"questions" binding:"required,min=1"`
	ShuffleQuestions bool                 `json:"shuffleQuestions"`
}

func (s *QuizService) Create(actor *util.Claims, courseID uint, input CreateQuizInput) (*model.Quiz, error) {
	if err := s.courseForManage(actor, courseID); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		Title:            input.Title,
		CourseID:         courseID,
		Description:      input.Description,
		TimeLimit:        input.TimeLimit,
		PassingScore:     input.PassingScore,
		Questions:        input.Questions,
		ShuffleQuestions: input.ShuffleQuestions,
	}
	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) GetByID(id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListByCourse(courseID uint) ([]model.Quiz, error) {
	return s.QuizRepo.FindByCourse(courseID)
}

type UpdateQuizInput struct {
	Title            string               `json:"title" binding:"omitempty,max=200"`
	Description      *string              `json:"description"`
	TimeLimit        *int                 `json:"timeLimit" binding:"omitempty,gte=0"`
	PassingScore     *float64             `json:"passingScore" binding:"omitempty,gte=0"`
	Questions        []model.QuizQuestion `json:"questions"`
	ShuffleQuestions *bool                `json:"shuffleQuestions"`
}

func (s *QuizService) Update(actor *util.Claims, id uint, input UpdateQuizInput) (*model.Quiz, error) {
	quiz, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.courseForManage(actor, quiz.CourseID); err != nil {
		return nil, err
	}

	if input.Title != "" {
		quiz.Title = input.Title
	}
	if input.Description != nil {
		quiz.Description = *input.Description
	}
	if input.TimeLimit != nil {
		quiz.TimeLimit = *input.TimeLimit
	}
	if input.PassingScore != nil {
		quiz.PassingScore = *input.PassingScore
	}
	if input.Questions != nil {
		quiz.Questions = input.Questions
	}
	if input.ShuffleQuestions != nil {
		quiz.ShuffleQuestions = *input.ShuffleQuestions
	}

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Delete(actor *util.Claims, id uint) error {
	quiz, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.courseForManage(actor, quiz.CourseID); err != nil {
		return err
	}
	return s.QuizRepo.Delete(id)
}

// Submit grades an attempt server side. The client never supplies a score.
func (s *QuizService) Submit(userID, quizID uint, answers []string) (*model.QuizSubmission, error) {
	quiz, err := s.GetByID(quizID)
	if err != nil {
		return nil, err
	}

	if _, err := s.EnrollmentRepo.FindByUserAndCourse(userID, quiz.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	score := quiz.Grade(answers)
	submission := &model.QuizSubmission{
		QuizID:      quizID,
		UserID:      userID,
		Answers:     answers,
		Score:       score,
		Passed:      score >= quiz.PassingScore,
		SubmittedAt: time.Now(),
	}
	if err := s.QuizRepo.CreateSubmission(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// ListSubmissions is the instructor's view of all attempts.
func (s *QuizService) ListSubmissions(actor *util.Claims, quizID uint) ([]model.QuizSubmission, error) {
	quiz, err := s.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if err := s.courseForManage(actor, quiz.CourseID); err != nil {
		return nil, err
	}
	return s.QuizRepo.FindSubmissions(quizID)
}

// MyAttempts lists the caller's own attempts.
func (s *QuizService) MyAttempts(userID, quizID uint) ([]model.QuizSubmission, error) {
	if _, err := s.GetByID(quizID); err != nil {
		return nil, err
	}
	return s.QuizRepo.FindUserSubmissions(quizID, userID)
}
