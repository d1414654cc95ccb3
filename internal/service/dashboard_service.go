package service

import (
	"time"

	"educloud_backend/internal/model"
	"educloud_backend/internal/repository"
	"educloud_backend/internal/util"
)

type DashboardService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewDashboardService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *DashboardService {
	return &DashboardService{CourseRepo: courseRepo, EnrollmentRepo: enrollmentRepo}
}

type CourseCompletion struct {
	CourseID       uint    `json:"courseId"`
	Title          string  `json:"title"`
	Enrollments    int64   `json:"enrollments"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completionRate"`
}

type RecentActivity struct {
	UserID      uint      `json:"userId"`
	UserName    string    `json:"userName"`
	CourseID    uint      `json:"courseId"`
	CourseTitle string    `json:"courseTitle"`
	EnrolledAt  time.Time `json:"enrolledAt"`
}

type InstructorStats struct {
	TotalStudents    int64              `json:"totalStudents"`
	TotalCourses     int                `json:"totalCourses"`
	TotalEnrollments int64              `json:"totalEnrollments"`
	Courses          []CourseCompletion `json:"courses"`
	RecentActivities []RecentActivity   `json:"recentActivities"`
}

type StudentCourseProgress struct {
	CourseID        uint    `json:"courseId"`
	Title           string  `json:"title"`
	Status          string  `json:"status"`
	PercentComplete float64 `json:"percentComplete"`
}

type StudentStats struct {
	TotalEnrollments int                     `json:"totalEnrollments"`
	Completed        int                     `json:"completed"`
	InProgress       int                     `json:"inProgress"`
	Courses          []StudentCourseProgress `json:"courses"`
}

// InstructorStats aggregates across the instructor's courses. Pure reads,
// no caching; the dashboard tolerates slightly stale numbers anyway.
func (s *DashboardService) InstructorStats(instructorID uint) (*InstructorStats, error) {
	courses, err := s.CourseRepo.FindByInstructor(instructorID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}

	totalStudents, err := s.EnrollmentRepo.CountDistinctStudents(ids)
	if err != nil {
		return nil, err
	}
	totalEnrollments, err := s.EnrollmentRepo.CountByCourses(ids)
	if err != nil {
		return nil, err
	}

	completions := make([]CourseCompletion, 0, len(courses))
	for _, c := range courses {
		total, err := s.EnrollmentRepo.CountByCourseAndStatus(c.ID, "")
		if err != nil {
			return nil, err
		}
		completed, err := s.EnrollmentRepo.CountByCourseAndStatus(c.ID, model.EnrollmentCompleted)
		if err != nil {
			return nil, err
		}
		rate := 0.0
		if total > 0 {
			rate = float64(completed) / float64(total) * 100
		}
		completions = append(completions, CourseCompletion{
			CourseID:       c.ID,
			Title:          c.Title,
			Enrollments:    total,
			Completed:      completed,
			CompletionRate: rate,
		})
	}

	recent, err := s.EnrollmentRepo.RecentByCourses(ids, 10)
	if err != nil {
		return nil, err
	}
	activities := make([]RecentActivity, 0, len(recent))
	for _, e := range recent {
		a := RecentActivity{
			UserID:     e.UserID,
			CourseID:   e.CourseID,
			EnrolledAt: e.CreatedAt,
		}
		if e.User != nil {
			a.UserName = e.User.Name
		}
		if e.Course != nil {
			a.CourseTitle = e.Course.Title
		}
		activities = append(activities, a)
	}

	return &InstructorStats{
		TotalStudents:    totalStudents,
		TotalCourses:     len(courses),
		TotalEnrollments: totalEnrollments,
		Courses:          completions,
		RecentActivities: activities,
	}, nil
}

// StudentStats summarizes the student's own enrollments.
func (s *DashboardService) StudentStats(userID uint) (*StudentStats, error) {
	enrollments, err := s.EnrollmentRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	stats := &StudentStats{
		TotalEnrollments: len(enrollments),
		Courses:          make([]StudentCourseProgress, 0, len(enrollments)),
	}
	for _, e := range enrollments {
		switch e.Status {
		case model.EnrollmentCompleted:
			stats.Completed++
		case model.EnrollmentActive:
			stats.InProgress++
		}
		p := StudentCourseProgress{
			CourseID:        e.CourseID,
			Status:          string(e.Status),
			PercentComplete: e.PercentComplete,
		}
		if e.Course != nil {
			p.Title = e.Course.Title
		}
		stats.Courses = append(stats.Courses, p)
	}
	return stats, nil
}

// Stats picks the view by role: instructors and admins get the teaching
// rollup, students their own progress.
func (s *DashboardService) Stats(actor *util.Claims) (interface{}, error) {
	if actor.Role == model.Instructor || actor.Role == model.Admin {
		return s.InstructorStats(actor.UserID)
	}
	return s.StudentStats(actor.UserID)
}
