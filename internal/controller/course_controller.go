package controller

import (
	"educloud_backend/internal/model"
	"educloud_backend/internal/repository"
	"educloud_backend/internal/service"
	"educloud_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// Create godoc
// @Summary Create a course
// @Description Instructors create courses in draft status
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateCourseInput true "Course fields"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.CreateCourseInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(claims, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// List godoc
// @Summary List courses
// @Description Published courses by default; instructors can list their own in any status with mine=true
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param category query string false "Category"
// @Param level query string false "Level"
// @Param search query string false "Title/description search"
// @Param mine query bool false "Own courses only"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	filter := repository.CourseFilter{
		Category: ctx.Query("category"),
		Level:    model.CourseLevel(ctx.Query("level")),
		Search:   ctx.Query("search"),
		Status:   model.CoursePublished,
	}
	if ctx.Query("mine") == "true" && claims != nil {
		filter.InstructorID = claims.UserID
		filter.Status = model.CourseStatus(ctx.Query("status"))
	}

	courses, total, err := c.CourseService.List(filter, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  courses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Get godoc
// @Summary Get a course with its lessons
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	course, err := c.CourseService.GetByID(util.ParseID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Update godoc
// @Summary Update a course
// @Description Owner or admin; status changes (publish/archive) go through here
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param body body service.UpdateCourseInput true "Fields"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response
// @Router /api/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.UpdateCourseInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(claims, util.ParseID(ctx.Param("id")), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Delete godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CourseService.Delete(claims, util.ParseID(ctx.Param("id"))); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadThumbnail godoc
// @Summary Upload a course thumbnail
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param file formData file true "Image file"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id}/thumbnail [post]
func (c *CourseController) UploadThumbnail(ctx *gin.Context) {
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

	course, err := c.CourseService.UploadThumbnail(ctx.Request.Context(), claims, util.ParseID(ctx.Param("id")), fileHeader)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}
