package controller

import (
	"educloud_backend/internal/model"
	"educloud_backend/internal/service"
	"educloud_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LiveClassController struct {
	LiveClassService *service.LiveClassService
}

func NewLiveClassController(liveClassService *service.LiveClassService) *LiveClassController {
	return &LiveClassController{LiveClassService: liveClassService}
}

// Create godoc
// @Summary Schedule a live class
// @Tags live-classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param body body service.CreateLiveClassInput true "Class fields"
// @Success 201 {object} util.Response{data=model.LiveClass}
// @Failure 403 {object} util.Response
// @Router /api/courses/{id}/live-classes [post]
func (c *LiveClassController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.CreateLiveClassInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lc, err := c.LiveClassService.Create(claims, util.ParseID(ctx.Param("id")), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, lc)
}

// ListByCourse godoc
// @Summary List a course's live classes
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param status query string false "Status filter"
// @Success 200 {object} util.Response{data=[]model.LiveClass}
// @Router /api/courses/{id}/live-classes [get]
func (c *LiveClassController) ListByCourse(ctx *gin.Context) {
	classes, err := c.LiveClassService.ListByCourse(
		util.ParseID(ctx.Param("id")),
		model.LiveClassStatus(ctx.Query("status")),
	)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, classes)
}

// Upcoming godoc
// @Summary Upcoming scheduled classes for a course
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=[]model.LiveClass}
// @Router /api/courses/{id}/live-classes/upcoming [get]
func (c *LiveClassController) Upcoming(ctx *gin.Context) {
	classes, err := c.LiveClassService.Upcoming(util.ParseID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, classes)
}

// Active godoc
// @Summary All currently active classes
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.LiveClass}
// @Router /api/live-classes [get]
func (c *LiveClassController) Active(ctx *gin.Context) {
	classes, err := c.LiveClassService.Active()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, classes)
}

// Get godoc
// @Summary Get a live class
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Failure 404 {object} util.Response
// @Router /api/live-classes/{id} [get]
func (c *LiveClassController) Get(ctx *gin.Context) {
	lc, err := c.LiveClassService.GetByID(util.ParseID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lc)
}

// Update godoc
// @Summary Update a live class
// @Description Scheduled times are locked once the class has started
// @Tags live-classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Param body body service.UpdateLiveClassInput true "Fields"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Failure 400 {object} util.Response "Schedule locked"
// @Router /api/live-classes/{id} [put]
func (c *LiveClassController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.UpdateLiveClassInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lc, err := c.LiveClassService.Update(claims, util.ParseID(ctx.Param("id")), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lc)
}

// Delete godoc
// @Summary Delete a live class
// @Description Forbidden while the class is active
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "Class is active"
// @Router /api/live-classes/{id} [delete]
func (c *LiveClassController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.LiveClassService.Delete(claims, util.ParseID(ctx.Param("id"))); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Start godoc
// @Summary Start a scheduled class
// @Description Only the owning instructor; broadcasts to the course room
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Failure 400 {object} util.Response "Invalid transition"
// @Failure 403 {object} util.Response
// @Router /api/live-classes/{id}/start [post]
func (c *LiveClassController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lc, err := c.LiveClassService.Start(claims, util.ParseID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lc)
}

// End godoc
// @Summary End an active class
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Failure 400 {object} util.Response "Invalid transition"
// @Router /api/live-classes/{id}/end [post]
func (c *LiveClassController) End(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lc, err := c.LiveClassService.End(claims, util.ParseID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lc)
}

// Cancel godoc
// @Summary Cancel a scheduled class
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Failure 400 {object} util.Response "Invalid transition"
// @Router /api/live-classes/{id}/cancel [post]
func (c *LiveClassController) Cancel(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lc, err := c.LiveClassService.Cancel(claims, util.ParseID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lc)
}

// Join godoc
// @Summary Join an active class
// @Description Idempotent while joined; only active classes accept joins
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Failure 400 {object} util.Response "Class not active or full"
// @Router /api/live-classes/{id}/join [post]
func (c *LiveClassController) Join(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lc, err := c.LiveClassService.Join(claims.UserID, util.ParseID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lc)
}

// Leave godoc
// @Summary Leave a class
// @Description Leaving without an open attendance record is a no-op
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Router /api/live-classes/{id}/leave [post]
func (c *LiveClassController) Leave(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lc, err := c.LiveClassService.Leave(claims.UserID, util.ParseID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lc)
}

// UploadRecording godoc
// @Summary Attach a recording to an ended class
// @Tags live-classes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Param file formData file true "Recording file"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Failure 400 {object} util.Response "Class has not ended"
// @Router /api/live-classes/{id}/recording [post]
func (c *LiveClassController) UploadRecording(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	tempPath, cleanup, err := saveTemp(ctx, "recording")
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer cleanup()

	lc, err := c.LiveClassService.UploadRecording(ctx.Request.Context(), claims, util.ParseID(ctx.Param("id")), fileHeader, tempPath)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lc)
}
