package service

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"educloud_backend/internal/model"
	"educloud_backend/internal/util"
	"educloud_backend/pkg/database"
	"educloud_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// newTestDB opens a per-test in-memory database and runs the production
// migrations against it. cache=shared keeps the pooled connections on the
// same database; the test name keeps tests apart.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

var seedSeq int

func seedUser(t *testing.T, db *gorm.DB, role model.UserRole) *model.User {
	t.Helper()
	seedSeq++
	user := &model.User{
		Name:     fmt.Sprintf("%s %d", role, seedSeq),
		Email:    fmt.Sprintf("%s%d@educloud.test", role, seedSeq),
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, instructorID uint, status model.CourseStatus) *model.Course {
	t.Helper()
	seedSeq++
	course := &model.Course{
		Title:        fmt.Sprintf("Course %d", seedSeq),
		InstructorID: instructorID,
		Category:     "programming",
		Level:        model.LevelBeginner,
		Status:       status,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func seedLesson(t *testing.T, db *gorm.DB, courseID uint, order int) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{
		Title:    fmt.Sprintf("Lesson %d", order),
		CourseID: courseID,
		Order:    order,
		Content:  "content",
	}
	require.NoError(t, db.Create(lesson).Error)
	return lesson
}

func claimsFor(user *model.User) *util.Claims {
	return &util.Claims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
	}
}
