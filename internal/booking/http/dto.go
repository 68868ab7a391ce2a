package http

import (
	"time"

	"github.com/pawmates/shelter-visit-backend/internal/booking"
	petHttp "github.com/pawmates/shelter-visit-backend/internal/pet/http"
	shelterHttp "github.com/pawmates/shelter-visit-backend/internal/shelter/http"
)

const dateLayout = "2006-01-02"

// SlotsRequest defines query parameters for the availability endpoint.
type SlotsRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

type SlotsResponse struct {
	ShelterID string   `json:"shelter_id"`
	Date      string   `json:"date"`
	Slots     []string `json:"slots"`
}

type CreateBookingRequest struct {
	PetID     string `json:"pet_id" binding:"required,uuid"`
	ShelterID string `json:"shelter_id" binding:"required,uuid"`
	VisitDate string `json:"visit_date" binding:"required,datetime=2006-01-02"`
	TimeSlot  string `json:"time_slot" binding:"required"`
}

// StaffBookingsRequest defines query parameters for the staff booking query.
// date_from and date_to are required; unscoped queries are rejected.
type StaffBookingsRequest struct {
	DateFrom  string   `form:"date_from" binding:"required,datetime=2006-01-02"`
	DateTo    string   `form:"date_to" binding:"required,datetime=2006-01-02"`
	Statuses  []string `form:"status" binding:"omitempty,dive,oneof=pending confirmed cancelled"`
	Search    string   `form:"search"`
	ShelterID string   `form:"shelter_id" binding:"omitempty,uuid"`
	Page      int      `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize  int      `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type VisitStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=CHECKED_OUT RETURNED NO_SHOW"`
}

type VisitNoteRequest struct {
	Text string `json:"text" binding:"required,max=500"`
}

type BookingResponse struct {
	ID          string                  `json:"id"`
	Pet         petHttp.PetTag          `json:"pet"`
	Shelter     shelterHttp.ShelterTag  `json:"shelter"`
	UserID      string                  `json:"user_id"`
	UserName    string                  `json:"user_name"`
	VisitDate   string                  `json:"visit_date"`
	TimeSlot    string                  `json:"time_slot"`
	Status      string                  `json:"status"`
	VisitStatus *booking.VisitStatus    `json:"visit_status,omitempty"`
	StaffNote   string                  `json:"staff_note,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		Pet:         petHttp.PetTag{ID: b.PetID, Name: b.PetName},
		Shelter:     shelterHttp.ShelterTag{ID: b.ShelterID, Name: b.ShelterName},
		UserID:      b.UserID,
		UserName:    b.UserName,
		VisitDate:   b.VisitDate.Format(dateLayout),
		TimeSlot:    b.TimeSlot,
		Status:      string(b.Status),
		VisitStatus: b.VisitStatus,
		StaffNote:   b.StaffNote,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
