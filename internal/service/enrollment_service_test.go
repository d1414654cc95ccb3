package service

import (
	"testing"

	"educloud_backend/internal/model"
	"educloud_backend/internal/repository"
	"educloud_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEnrollmentService(db *gorm.DB) *EnrollmentService {
	return NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewLessonRepository(db),
	)
}

func courseCount(t *testing.T, db *gorm.DB, courseID uint) int {
	t.Helper()
	var course model.Course
	require.NoError(t, db.First(&course, courseID).Error)
	return course.EnrollmentCount
}

func TestEnrollBumpsCounter(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, model.CoursePublished)

	enrollment, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)
	assert.Equal(t, 1, courseCount(t, db, course.ID))
}

func TestEnrollTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, model.CoursePublished)

	_, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	// The conflict must not touch the counter.
	assert.Equal(t, 1, courseCount(t, db, course.ID))
}

func TestEnrollRequiresPublishedCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	draft := seedCourse(t, db, instructor.ID, model.CourseDraft)

	_, err := svc.Enroll(student.ID, draft.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotPublished)

	_, err = svc.Enroll(student.ID, 9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestUnenrollAndReenroll(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, model.CoursePublished)

	_, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Unenroll(student.ID, course.ID))
	assert.Equal(t, 0, courseCount(t, db, course.ID))

	_, err = svc.Get(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)

	assert.ErrorIs(t, svc.Unenroll(student.ID, course.ID), util.ErrEnrollmentNotFound)

	// Dropping out is not a ban.
	_, err = svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, courseCount(t, db, course.ID))
}

func TestCompleteLessonIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, model.CoursePublished)
	first := seedLesson(t, db, course.ID, 1)
	second := seedLesson(t, db, course.ID, 2)

	_, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	enrollment, err := svc.CompleteLesson(student.ID, course.ID, first.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, enrollment.PercentComplete, 0.001)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)

	// Completing the same lesson again changes nothing.
	enrollment, err = svc.CompleteLesson(student.ID, course.ID, first.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, enrollment.PercentComplete, 0.001)

	var rows int64
	require.NoError(t, db.Model(&model.CompletedLesson{}).
		Where("enrollment_id = ?", enrollment.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	enrollment, err = svc.CompleteLesson(student.ID, course.ID, second.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, enrollment.PercentComplete, 0.001)
	assert.Equal(t, model.EnrollmentCompleted, enrollment.Status)
}

func TestCompleteLessonChecksCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, model.CoursePublished)
	other := seedCourse(t, db, instructor.ID, model.CoursePublished)
	foreign := seedLesson(t, db, other.ID, 1)

	_, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	// A lesson from another course never counts here.
	_, err = svc.CompleteLesson(student.ID, course.ID, foreign.ID)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)

	_, err = svc.CompleteLesson(student.ID, course.ID, 9999)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)

	// Not enrolled at all.
	stranger := seedUser(t, db, model.Student)
	_, err = svc.CompleteLesson(stranger.ID, course.ID, foreign.ID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestUpdateStudentProgressOverride(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	owner := seedUser(t, db, model.Instructor)
	rival := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, owner.ID, model.CoursePublished)

	_, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	percent := 75.0
	_, err = svc.UpdateStudentProgress(claimsFor(rival), course.ID, student.ID,
		UpdateProgressInput{PercentComplete: &percent})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := svc.UpdateStudentProgress(claimsFor(owner), course.ID, student.ID,
		UpdateProgressInput{Status: model.EnrollmentCompleted, PercentComplete: &percent})
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentCompleted, updated.Status)
	assert.Equal(t, 75.0, updated.PercentComplete)

	_, err = svc.UpdateStudentProgress(claimsFor(owner), course.ID, 9999, UpdateProgressInput{})
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestRosterRequiresOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	owner := seedUser(t, db, model.Instructor)
	rival := seedUser(t, db, model.Instructor)
	admin := seedUser(t, db, model.Admin)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, owner.ID, model.CoursePublished)

	_, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	roster, err := svc.ListByCourse(claimsFor(owner), course.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)

	_, err = svc.ListByCourse(claimsFor(rival), course.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	roster, err = svc.ListByCourse(claimsFor(admin), course.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}
