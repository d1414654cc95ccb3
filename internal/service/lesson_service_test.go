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

func newLessonService(db *gorm.DB) *LessonService {
	return NewLessonService(
		repository.NewLessonRepository(db),
		repository.NewCourseRepository(db),
		nil,
	)
}

func TestCreateLessonAssignsNextOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)
	owner := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, owner.ID, model.CourseDraft)
	actor := claimsFor(owner)

	first, err := svc.Create(actor, course.ID, CreateLessonInput{Title: "Intro"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Order)

	second, err := svc.Create(actor, course.ID, CreateLessonInput{Title: "Setup"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Order)
}

func TestCreateLessonRejectsTakenOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)
	owner := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, owner.ID, model.CourseDraft)
	actor := claimsFor(owner)

	_, err := svc.Create(actor, course.ID, CreateLessonInput{Title: "Intro", Order: 1})
	require.NoError(t, err)

	_, err = svc.Create(actor, course.ID, CreateLessonInput{Title: "Clash", Order: 1})
	assert.ErrorIs(t, err, ErrOrderTaken)

	// The same position in another course is fine.
	other := seedCourse(t, db, owner.ID, model.CourseDraft)
	_, err = svc.Create(actor, other.ID, CreateLessonInput{Title: "Intro", Order: 1})
	assert.NoError(t, err)
}

func TestUpdateLessonReorder(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)
	owner := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, owner.ID, model.CourseDraft)
	actor := claimsFor(owner)

	first, err := svc.Create(actor, course.ID, CreateLessonInput{Title: "Intro", Order: 1})
	require.NoError(t, err)
	_, err = svc.Create(actor, course.ID, CreateLessonInput{Title: "Setup", Order: 2})
	require.NoError(t, err)

	clash := 2
	_, err = svc.Update(actor, first.ID, UpdateLessonInput{Order: &clash})
	assert.ErrorIs(t, err, ErrOrderTaken)

	free := 5
	updated, err := svc.Update(actor, first.ID, UpdateLessonInput{Order: &free})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Order)

	// Keeping the current order is not a conflict.
	updated, err = svc.Update(actor, first.ID, UpdateLessonInput{Order: &free, Title: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestLessonManagementRequiresOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)
	owner := seedUser(t, db, model.Instructor)
	rival := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, owner.ID, model.CourseDraft)

	_, err := svc.Create(claimsFor(rival), course.ID, CreateLessonInput{Title: "Intro"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	lesson, err := svc.Create(claimsFor(owner), course.ID, CreateLessonInput{Title: "Intro"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(claimsFor(rival), lesson.ID), util.ErrPermissionDenied)
	assert.NoError(t, svc.Delete(claimsFor(owner), lesson.ID))

	_, err = svc.GetByID(lesson.ID)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestListByCourseChecksCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)

	_, err := svc.ListByCourse(9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
