package controller

import (
	"educloud_backend/internal/service"
	"educloud_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RealtimeController struct {
	Hub *service.RealtimeHub
}

func NewRealtimeController(hub *service.RealtimeHub) *RealtimeController {
	return &RealtimeController{Hub: hub}
}

// Connect godoc
// @Summary Open the realtime websocket
// @Description Authenticated via the token query parameter; speaks the room event protocol
// @Tags realtime
// @Security BearerAuth
// @Param token query string true "JWT"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} util.Response
// @Router /api/realtime/ws [get]
func (c *RealtimeController) Connect(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, claims)
}
