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

func newCourseService(db *gorm.DB) *CourseService {
	return NewCourseService(
		repository.NewCourseRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
}

func TestCreateCourseRequiresTeachingRole(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)
	student := seedUser(t, db, model.Student)
	instructor := seedUser(t, db, model.Instructor)

	input := CreateCourseInput{
		Title:    "Go from scratch",
		Category: "programming",
		Level:    model.LevelBeginner,
	}

	_, err := svc.Create(claimsFor(student), input)
	assert.ErrorIs(t, err, util.ErrNotInstructor)

	course, err := svc.Create(claimsFor(instructor), input)
	require.NoError(t, err)
	assert.Equal(t, model.CourseDraft, course.Status)
	assert.Equal(t, instructor.ID, course.InstructorID)
}

func TestPublishCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)
	owner := seedUser(t, db, model.Instructor)
	rival := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, owner.ID, model.CourseDraft)

	_, err := svc.Update(claimsFor(rival), course.ID, UpdateCourseInput{Status: model.CoursePublished})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	published, err := svc.Update(claimsFor(owner), course.ID, UpdateCourseInput{Status: model.CoursePublished})
	require.NoError(t, err)
	assert.Equal(t, model.CoursePublished, published.Status)

	stored, err := svc.GetByID(course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CoursePublished, stored.Status)
}

func TestCourseListFilters(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)
	owner := seedUser(t, db, model.Instructor)
	seedCourse(t, db, owner.ID, model.CoursePublished)
	seedCourse(t, db, owner.ID, model.CoursePublished)
	seedCourse(t, db, owner.ID, model.CourseDraft)

	courses, total, err := svc.List(repository.CourseFilter{Status: model.CoursePublished}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, courses, 2)

	courses, total, err = svc.List(repository.CourseFilter{InstructorID: owner.ID}, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, courses, 2)
}

func TestDeleteCourseOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)
	owner := seedUser(t, db, model.Instructor)
	rival := seedUser(t, db, model.Instructor)
	admin := seedUser(t, db, model.Admin)
	course := seedCourse(t, db, owner.ID, model.CourseDraft)

	assert.ErrorIs(t, svc.Delete(claimsFor(rival), course.ID), util.ErrPermissionDenied)
	require.NoError(t, svc.Delete(claimsFor(admin), course.ID))

	_, err := svc.GetByID(course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
