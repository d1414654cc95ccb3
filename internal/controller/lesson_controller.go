package controller

import (
	"os"
	"path/filepath"

	"educloud_backend/internal/model"
	"educloud_backend/internal/service"
	"educloud_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// Create godoc
// @Summary Add a lesson to a course
// @Description Order 0 appends to the end; an explicit order must be free
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param body body service.CreateLessonInput true "Lesson fields"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response "Order already taken"
// @Router /api/courses/{id}/lessons [post]
func (c *LessonController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.CreateLessonInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Create(claims, util.ParseID(ctx.Param("id")), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// ListByCourse godoc
// @Summary List a course's lessons in order
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Router /api/courses/{id}/lessons [get]
func (c *LessonController) ListByCourse(ctx *gin.Context) {
	lessons, err := c.LessonService.ListByCourse(util.ParseID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// Get godoc
// @Summary Get a lesson
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) Get(ctx *gin.Context) {
	lesson, err := c.LessonService.GetByID(util.ParseID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// Update godoc
// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param body body service.UpdateLessonInput true "Fields"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/lessons/{id} [put]
func (c *LessonController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.UpdateLessonInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Update(claims, util.ParseID(ctx.Param("id")), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// Delete godoc
// @Summary Delete a lesson
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [delete]
func (c *LessonController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.LessonService.Delete(claims, util.ParseID(ctx.Param("id"))); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// saveTemp spools the upload to disk so it can be probed before storage.
func saveTemp(ctx *gin.Context, pattern string) (string, func(), error) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return "", nil, err
	}
	tempPath := filepath.Join(os.TempDir(), pattern+"-"+model.GenerateUUID()+filepath.Ext(fileHeader.Filename))
	if err := ctx.SaveUploadedFile(fileHeader, tempPath); err != nil {
		return "", nil, err
	}
	return tempPath, func() { os.Remove(tempPath) }, nil
}

// UploadVideo godoc
// @Summary Upload a lesson video
// @Description The video is probed for duration before storage
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param file formData file true "Video file"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response "Unsupported format"
// @Router /api/lessons/{id}/video [post]
func (c *LessonController) UploadVideo(ctx *gin.Context) {
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

	tempPath, cleanup, err := saveTemp(ctx, "lesson-video")
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer cleanup()

	lesson, err := c.LessonService.UploadVideo(ctx.Request.Context(), claims, util.ParseID(ctx.Param("id")), fileHeader, tempPath)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// AddAttachment godoc
// @Summary Attach a file to a lesson
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param file formData file true "Attachment"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/lessons/{id}/attachments [post]
func (c *LessonController) AddAttachment(ctx *gin.Context) {
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

	lesson, err := c.LessonService.AddAttachment(ctx.Request.Context(), claims, util.ParseID(ctx.Param("id")), fileHeader)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}
