package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")
	group.Use(authMiddleware)
	{
		group.POST("/:id/feedback", h.Submit)
		group.GET("/:id/feedback", h.Get)
	}
}
