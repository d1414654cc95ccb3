package controller

import (
	"educloud_backend/internal/service"
	"educloud_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

// Create godoc
// @Summary Create an assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param body body service.CreateAssignmentInput true "Assignment fields"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Failure 403 {object} util.Response
// @Router /api/courses/{id}/assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.CreateAssignmentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.Create(claims, util.ParseID(ctx.Param("id")), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, assignment)
}

// ListByCourse godoc
// @Summary List a course's assignments
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=[]model.Assignment}
// @Router /api/courses/{id}/assignments [get]
func (c *AssignmentController) ListByCourse(ctx *gin.Context) {
	assignments, err := c.AssignmentService.ListByCourse(util.ParseID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// Get godoc
// @Summary Get an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id} [get]
func (c *AssignmentController) Get(ctx *gin.Context) {
	assignment, err := c.AssignmentService.GetByID(util.ParseID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// Update godoc
// @Summary Update an assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param body body service.UpdateAssignmentInput true "Fields"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Router /api/assignments/{id} [put]
func (c *AssignmentController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.UpdateAssignmentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.Update(claims, util.ParseID(ctx.Param("id")), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// Delete godoc
// @Summary Delete an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AssignmentService.Delete(claims, util.ParseID(ctx.Param("id"))); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Submit godoc
// @Summary Submit an assignment
// @Description Multipart for file assignments, JSON fields for text/link; one submission per student
// @Tags assignments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param content formData string false "Text content"
// @Param link formData string false "Link submission"
// @Param file formData file false "File submission"
// @Success 201 {object} util.Response{data=model.AssignmentSubmission}
// @Failure 409 {object} util.Response "Already submitted"
// @Router /api/assignments/{id}/submit [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	input := service.SubmitAssignmentInput{
		Content: ctx.PostForm("content"),
		Link:    ctx.PostForm("link"),
	}
	fileHeader, _ := ctx.FormFile("file")

	submission, err := c.AssignmentService.Submit(ctx.Request.Context(), claims.UserID, util.ParseID(ctx.Param("id")), input, fileHeader)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, submission)
}

// ListSubmissions godoc
// @Summary List submissions for grading
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} util.Response{data=[]model.AssignmentSubmission}
// @Failure 403 {object} util.Response
// @Router /api/assignments/{id}/submissions [get]
func (c *AssignmentController) ListSubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	submissions, err := c.AssignmentService.ListSubmissions(claims, util.ParseID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}

// Grade godoc
// @Summary Grade a submission
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param body body service.GradeSubmissionInput true "Score and feedback"
// @Success 200 {object} util.Response{data=model.AssignmentSubmission}
// @Failure 403 {object} util.Response
// @Router /api/submissions/{id}/grade [post]
func (c *AssignmentController) Grade(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.GradeSubmissionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.AssignmentService.Grade(claims, util.ParseID(ctx.Param("id")), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}
