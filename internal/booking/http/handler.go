package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pawmates/shelter-visit-backend/internal/auth"
	"github.com/pawmates/shelter-visit-backend/internal/booking"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/request"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Slots(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var req SlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required in YYYY-MM-DD format"})
		return
	}
	date, _ := time.Parse(dateLayout, req.Date)

	slots, err := h.service.AvailableSlots(c.Request.Context(), uri.ID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, SlotsResponse{
		ShelterID: uri.ID,
		Date:      req.Date,
		Slots:     slots,
	})
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	visitDate, _ := time.Parse(dateLayout, body.VisitDate)

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		UserID:    auth.GetUserID(c),
		UserName:  auth.GetUserName(c),
		PetID:     body.PetID,
		ShelterID: body.ShelterID,
		VisitDate: visitDate,
		TimeSlot:  body.TimeSlot,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) ListMine(c *gin.Context) {
	bookings, err := h.service.ListByUser(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID, auth.GetUserID(c), auth.IsStaff(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Confirm(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.Confirm(c.Request.Context(), uri.ID, auth.GetUserID(c), auth.IsStaff(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), uri.ID, auth.GetUserID(c), auth.IsStaff(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) ListForStaff(c *gin.Context) {
	var req StaffBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	dateFrom, _ := time.Parse(dateLayout, req.DateFrom)
	dateTo, _ := time.Parse(dateLayout, req.DateTo)

	statuses := make([]booking.Status, len(req.Statuses))
	for i, s := range req.Statuses {
		statuses[i] = booking.Status(s)
	}

	filter := booking.Filter{
		ShelterID: req.ShelterID,
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		Statuses:  statuses,
		Search:    req.Search,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}

	bookings, total, err := h.service.ListForStaff(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) SetVisitStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body VisitStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.AdvanceVisit(c.Request.Context(), uri.ID, booking.VisitStatus(body.Status), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) SetNote(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body VisitNoteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.AddNote(c.Request.Context(), uri.ID, body.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}
