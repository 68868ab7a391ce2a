package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawmates/shelter-visit-backend/internal/pet"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/request"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/response"
)

type Handler struct {
	service pet.Service
}

func NewHandler(service pet.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListPetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := pet.Filter{
		ShelterID:    req.ShelterID,
		Species:      req.Species,
		Availability: pet.Availability(req.Availability),
		Search:       req.Search,
		Page:         req.Page,
		PageSize:     req.PageSize,
	}

	pets, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PetResponse, len(pets))
	for i, p := range pets {
		items[i] = NewPetResponse(p)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPetResponse(p))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreatePetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	p, err := h.service.Create(c.Request.Context(), pet.CreateRequest{
		ShelterID:   body.ShelterID,
		Name:        body.Name,
		Species:     body.Species,
		Breed:       body.Breed,
		AgeMonths:   body.AgeMonths,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPetResponse(p))
}

func (h *Handler) UpdateAvailability(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	p, err := h.service.UpdateAvailability(c.Request.Context(), uri.ID, pet.Availability(body.Availability))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPetResponse(p))
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	header, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	p, err := h.service.AttachPhoto(c.Request.Context(), uri.ID, header)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPetResponse(p))
}

func (h *Handler) Photo(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	thumbnail := c.Query("thumbnail") == "true"

	rc, err := h.service.Photo(c.Request.Context(), uri.ID, thumbnail)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}
