package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	// Availability is public; booking requires identity.
	g.GET("/shelters/:id/slots", h.Slots)

	bookings := g.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.ListMine)
		bookings.GET("/:id", h.Get)
		bookings.POST("/:id/confirm", h.Confirm)
		bookings.POST("/:id/cancel", h.Cancel)
	}

	staff := g.Group("/staff")
	staff.Use(authMiddleware, staffMiddleware)
	{
		staff.GET("/bookings", h.ListForStaff)
		staff.POST("/visits/:id/status", h.SetVisitStatus)
		staff.POST("/visits/:id/note", h.SetNote)
	}
}
