package service

import (
	"sync"
	"testing"
	"time"

	"educloud_backend/internal/model"
	"educloud_backend/internal/repository"
	"educloud_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// captureHub records lifecycle broadcasts instead of pushing them to sockets.
type captureHub struct {
	mu     sync.Mutex
	rooms  []string
	events []string
	data   []map[string]interface{}
}

func (c *captureHub) BroadcastToRoom(room, event string, data map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms = append(c.rooms, room)
	c.events = append(c.events, event)
	c.data = append(c.data, data)
}

func newLiveClassService(db *gorm.DB, hub Broadcaster) *LiveClassService {
	return NewLiveClassService(
		repository.NewLiveClassRepository(db),
		repository.NewCourseRepository(db),
		nil,
		hub,
	)
}

func createScheduledClass(t *testing.T, svc *LiveClassService, actor *util.Claims, courseID uint) *model.LiveClass {
	t.Helper()
	lc, err := svc.Create(actor, courseID, CreateLiveClassInput{
		Title:              "Live session",
		ScheduledStartTime: time.Now().Add(time.Hour),
		ScheduledEndTime:   time.Now().Add(2 * time.Hour),
	})
	require.NoError(t, err)
	return lc
}

func TestCreateLiveClassRequiresOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newLiveClassService(db, nil)
	owner := seedUser(t, db, model.Instructor)
	rival := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, owner.ID, model.CoursePublished)

	_, err := svc.Create(claimsFor(rival), course.ID, CreateLiveClassInput{
		Title:              "Not yours",
		ScheduledStartTime: time.Now().Add(time.Hour),
		ScheduledEndTime:   time.Now().Add(2 * time.Hour),
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	lc := createScheduledClass(t, svc, claimsFor(owner), course.ID)
	assert.Equal(t, model.LiveClassScheduled, lc.Status)
	assert.Equal(t, owner.ID, lc.InstructorID)
	assert.Equal(t, 100, lc.Settings.MaxParticipants)
}

func TestCreateLiveClassRejectsInvertedSchedule(t *testing.T) {
	db := newTestDB(t)
	svc := newLiveClassService(db, nil)
	owner := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, owner.ID, model.CoursePublished)

	_, err := svc.Create(claimsFor(owner), course.ID, CreateLiveClassInput{
		Title:              "Backwards",
		ScheduledStartTime: time.Now().Add(2 * time.Hour),
		ScheduledEndTime:   time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestStartAuthorization(t *testing.T) {
	db := newTestDB(t)
	hub := &captureHub{}
	svc := newLiveClassService(db, hub)
	owner := seedUser(t, db, model.Instructor)
	rival := seedUser(t, db, model.Instructor)
	admin := seedUser(t, db, model.Admin)
	course := seedCourse(t, db, owner.ID, model.CoursePublished)
	lc := createScheduledClass(t, svc, claimsFor(owner), course.ID)

	_, err := svc.Start(claimsFor(rival), lc.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// The denied attempt must not leak a state change or an event.
	stored, err := svc.GetByID(lc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LiveClassScheduled, stored.Status)
	assert.Empty(t, hub.events)

	// Admins can manage anyone's class.
	started, err := svc.Start(claimsFor(admin), lc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LiveClassActive, started.Status)
}

func TestLiveClassLifecyclePersists(t *testing.T) {
	db := newTestDB(t)
	hub := &captureHub{}
	svc := newLiveClassService(db, hub)
	owner := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, owner.ID, model.CoursePublished)
	actor := claimsFor(owner)
	lc := createScheduledClass(t, svc, actor, course.ID)

	started, err := svc.Start(actor, lc.ID)
	require.NoError(t, err)
	assert.NotNil(t, started.ActualStartTime)

	stored, err := svc.GetByID(lc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LiveClassActive, stored.Status)

	_, err = svc.Start(actor, lc.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = svc.Cancel(actor, lc.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	ended, err := svc.End(actor, lc.ID)
	require.NoError(t, err)
	assert.NotNil(t, ended.ActualEndTime)

	stored, err = svc.GetByID(lc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LiveClassEnded, stored.Status)

	_, err = svc.End(actor, lc.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	assert.Equal(t, []string{"live_class:started", "live_class:ended"}, hub.events)
	for _, room := range hub.rooms {
		assert.Equal(t, courseRoom(course.ID), room)
	}
}

func TestCancelScheduledClass(t *testing.T) {
	db := newTestDB(t)
	hub := &captureHub{}
	svc := newLiveClassService(db, hub)
	owner := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, owner.ID, model.CoursePublished)
	actor := claimsFor(owner)
	lc := createScheduledClass(t, svc, actor, course.ID)

	cancelled, err := svc.Cancel(actor, lc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LiveClassCancelled, cancelled.Status)
	assert.Equal(t, []string{"live_class:cancelled"}, hub.events)

	_, err = svc.Start(actor, lc.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestDeleteActiveClassRefused(t *testing.T) {
	db := newTestDB(t)
	svc := newLiveClassService(db, nil)
	owner := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, owner.ID, model.CoursePublished)
	actor := claimsFor(owner)
	lc := createScheduledClass(t, svc, actor, course.ID)

	_, err := svc.Start(actor, lc.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(actor, lc.ID), util.ErrLiveClassActive)

	_, err = svc.End(actor, lc.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(actor, lc.ID))

	_, err = svc.GetByID(lc.ID)
	assert.ErrorIs(t, err, util.ErrLiveClassNotFound)
}

func TestUpdateScheduleLockedAfterStart(t *testing.T) {
	db := newTestDB(t)
	svc := newLiveClassService(db, nil)
	owner := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, owner.ID, model.CoursePublished)
	actor := claimsFor(owner)
	lc := createScheduledClass(t, svc, actor, course.ID)

	// Metadata edits work while scheduled.
	later := time.Now().Add(3 * time.Hour)
	updated, err := svc.Update(actor, lc.ID, UpdateLiveClassInput{
		Title:            "Renamed",
		ScheduledEndTime: &later,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	_, err = svc.Start(actor, lc.ID)
	require.NoError(t, err)

	_, err = svc.Update(actor, lc.ID, UpdateLiveClassInput{ScheduledEndTime: &later})
	assert.ErrorIs(t, err, ErrScheduleLocked)

	// Title edits are still fine after start.
	updated, err = svc.Update(actor, lc.ID, UpdateLiveClassInput{Title: "Renamed again"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed again", updated.Title)
}

func TestJoinIsIdempotentWhileConnected(t *testing.T) {
	db := newTestDB(t)
	hub := &captureHub{}
	svc := newLiveClassService(db, hub)
	owner := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, owner.ID, model.CoursePublished)
	actor := claimsFor(owner)
	lc := createScheduledClass(t, svc, actor, course.ID)

	// Joining before the class starts is refused.
	_, err := svc.Join(student.ID, lc.ID)
	assert.ErrorIs(t, err, model.ErrClassNotActive)

	_, err = svc.Start(actor, lc.ID)
	require.NoError(t, err)

	joined, err := svc.Join(student.ID, lc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, joined.ActiveParticipantCount())

	// Second join without leaving adds nothing and announces nothing.
	joined, err = svc.Join(student.ID, lc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, joined.ActiveParticipantCount())

	var rows int64
	require.NoError(t, db.Model(&model.LiveClassParticipant{}).
		Where("live_class_id = ?", lc.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	assert.Equal(t, []string{"live_class:started", "live_class:user_joined"}, hub.events)
}

func TestLeaveAndRejoin(t *testing.T) {
	db := newTestDB(t)
	hub := &captureHub{}
	svc := newLiveClassService(db, hub)
	owner := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, owner.ID, model.CoursePublished)
	actor := claimsFor(owner)
	lc := createScheduledClass(t, svc, actor, course.ID)

	_, err := svc.Start(actor, lc.ID)
	require.NoError(t, err)

	// Leaving before joining is a quiet no-op.
	left, err := svc.Leave(student.ID, lc.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, left.ActiveParticipantCount())

	_, err = svc.Join(student.ID, lc.ID)
	require.NoError(t, err)

	left, err = svc.Leave(student.ID, lc.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, left.ActiveParticipantCount())

	var open int64
	require.NoError(t, db.Model(&model.LiveClassParticipant{}).
		Where("live_class_id = ? AND left_at IS NULL", lc.ID).Count(&open).Error)
	assert.EqualValues(t, 0, open)

	// Rejoining opens a second attendance record.
	rejoined, err := svc.Join(student.ID, lc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rejoined.ActiveParticipantCount())

	var rows int64
	require.NoError(t, db.Model(&model.LiveClassParticipant{}).
		Where("live_class_id = ?", lc.ID).Count(&rows).Error)
	assert.EqualValues(t, 2, rows)

	assert.Equal(t, []string{
		"live_class:started",
		"live_class:user_joined",
		"live_class:user_left",
		"live_class:user_joined",
	}, hub.events)
}
