package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/pets")

	// === Public Routes ===
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.GET("/:id/photo", h.Photo)

	// === Staff Routes ===
	staff := group.Group("")
	staff.Use(authMiddleware, staffMiddleware)
	{
		staff.POST("", h.Create)
		staff.PATCH("/:id/availability", h.UpdateAvailability)
		staff.POST("/:id/photo", h.UploadPhoto)
	}
}
