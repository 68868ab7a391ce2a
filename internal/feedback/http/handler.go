package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawmates/shelter-visit-backend/internal/auth"
	"github.com/pawmates/shelter-visit-backend/internal/feedback"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/request"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/response"
)

type Handler struct {
	service feedback.Service
}

func NewHandler(service feedback.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Submit(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	f, err := h.service.Submit(c.Request.Context(), feedback.SubmitRequest{
		BookingID: uri.ID,
		UserID:    auth.GetUserID(c),
		Rating:    body.Rating,
		Comment:   body.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewFeedbackResponse(f))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	f, err := h.service.GetByBookingID(c.Request.Context(), uri.ID, auth.GetUserID(c), auth.IsStaff(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewFeedbackResponse(f))
}
