package service

import (
	"testing"
	"time"

	"educloud_backend/internal/config"
	"educloud_backend/internal/model"
	"educloud_backend/internal/repository"
	"educloud_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-with-at-least-32-characters"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(RegisterInput{
		Name:     "Ada",
		Email:    "ada@educloud.test",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
	assert.NotEqual(t, "correct horse", user.Password)

	token, logged, err := svc.Login("ada@educloud.test", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := util.ParseJWT(token, "test-secret-with-at-least-32-characters")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(RegisterInput{Name: "Ada", Email: "ada@educloud.test", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Name: "Imposter", Email: "ada@educloud.test", Password: "different"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(RegisterInput{Name: "Ada", Email: "ada@educloud.test", Password: "correct horse"})
	require.NoError(t, err)

	_, _, err = svc.Login("ada@educloud.test", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	// Unknown emails look the same as wrong passwords.
	_, _, err = svc.Login("nobody@educloud.test", "correct horse")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(RegisterInput{Name: "Ada", Email: "ada@educloud.test", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("disabled", true).Error)

	_, _, err = svc.Login("ada@educloud.test", "correct horse")
	assert.ErrorIs(t, err, util.ErrUserDisabled)
}

func TestRegisterInstructorRole(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(RegisterInput{
		Name:     "Grace",
		Email:    "grace@educloud.test",
		Password: "correct horse",
		Role:     model.Instructor,
	})
	require.NoError(t, err)
	assert.Equal(t, model.Instructor, user.Role)
	assert.True(t, user.CanTeach())
}
