package controller

import (
	"educloud_backend/internal/service"
	"educloud_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// Stats godoc
// @Summary Role-based dashboard statistics
// @Description Instructors get the teaching rollup, students their own progress
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/dashboard/stats [get]
func (c *DashboardController) Stats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.DashboardService.Stats(claims)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
