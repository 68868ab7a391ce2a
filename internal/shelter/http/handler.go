package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/request"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/response"
	"github.com/pawmates/shelter-visit-backend/internal/shelter"
)

type Handler struct {
	service shelter.Service
}

func NewHandler(service shelter.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListSheltersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := shelter.Filter{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	if req.Lat != nil && req.Lng != nil {
		filter.Origin = &shelter.Coordinate{Latitude: *req.Lat, Longitude: *req.Lng}
	} else if req.Lat != nil || req.Lng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng must be provided together"})
		return
	}

	shelters, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ShelterResponse, len(shelters))
	for i, s := range shelters {
		items[i] = NewShelterResponse(s)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewShelterResponse(s))
}
