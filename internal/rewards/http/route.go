package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/rewards")
	group.Use(authMiddleware)
	{
		group.GET("/me", h.Me)
	}
}
