package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawmates/shelter-visit-backend/internal/auth"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/response"
	"github.com/pawmates/shelter-visit-backend/internal/rewards"
)

type Handler struct {
	service rewards.Service
}

func NewHandler(service rewards.Service) *Handler {
	return &Handler{service: service}
}

// Me returns the authenticated user's ledger with its earning history.
func (h *Handler) Me(c *gin.Context) {
	userID := auth.GetUserID(c)

	l, err := h.service.GetLedger(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	entries, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewLedgerResponse(l, entries))
}
