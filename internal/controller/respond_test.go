package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"educloud_backend/internal/model"
	"educloud_backend/internal/service"
	"educloud_backend/internal/util"
	"educloud_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func statusFor(err error) int {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	respondError(ctx, err)
	return w.Code
}

func TestRespondErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"missing entity", util.ErrCourseNotFound, http.StatusNotFound},
		{"gorm not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"duplicate enrollment", util.ErrAlreadyEnrolled, http.StatusConflict},
		{"duplicate email", util.ErrEmailRegistered, http.StatusConflict},
		{"bad credentials", util.ErrInvalidCredentials, http.StatusUnauthorized},
		{"disabled account", util.ErrUserDisabled, http.StatusForbidden},
		{"not the owner", util.ErrPermissionDenied, http.StatusForbidden},
		{"bad transition", model.ErrInvalidTransition, http.StatusBadRequest},
		{"class full", model.ErrClassFull, http.StatusBadRequest},
		{"order clash", service.ErrOrderTaken, http.StatusBadRequest},
		{"schedule locked", service.ErrScheduleLocked, http.StatusBadRequest},
		{"inverted schedule", util.Invalidf("scheduled end must be after scheduled start"), http.StatusBadRequest},
		{"bad upload type", util.Invalidf("unexpected file type %s", "application/zip"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("grading: %w", util.ErrValidation), http.StatusBadRequest},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}
