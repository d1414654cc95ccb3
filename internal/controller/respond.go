package controller

import (
	"errors"
	"net/http"

	"educloud_backend/internal/model"
	"educloud_backend/internal/service"
	"educloud_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError maps service errors onto the taxonomy in one place so the
// handlers stay declarative. Anything unmapped is a logged 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrEnrollmentNotFound),
		errors.Is(err, util.ErrLiveClassNotFound),
		errors.Is(err, util.ErrAssignmentNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrSubmissionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())

	case errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrAlreadyEnrolled),
		errors.Is(err, util.ErrAlreadySubmitted):
		util.Conflict(ctx, err.Error())

	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())

	case errors.Is(err, util.ErrUserDisabled),
		errors.Is(err, util.ErrPermissionDenied),
		errors.Is(err, util.ErrNotInstructor):
		util.Error(ctx, http.StatusForbidden, err.Error())

	case errors.Is(err, util.ErrValidation),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrClassNotActive),
		errors.Is(err, model.ErrClassFull),
		errors.Is(err, util.ErrCourseNotPublished),
		errors.Is(err, util.ErrLiveClassActive),
		errors.Is(err, service.ErrOrderTaken),
		errors.Is(err, service.ErrScheduleLocked),
		errors.Is(err, service.ErrRecordingUnavailable):
		util.BadRequest(ctx, err.Error())

	default:
		util.LogInternalError(ctx, err)
	}
}
