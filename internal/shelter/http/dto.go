package http

import (
	"time"

	"github.com/pawmates/shelter-visit-backend/internal/shelter"
)

// ListSheltersRequest defines query parameters for listing shelters.
// lat and lng must be provided together to enable distance sorting.
type ListSheltersRequest struct {
	Search   string   `form:"search"`
	Lat      *float64 `form:"lat" binding:"omitempty,gte=-90,lte=90"`
	Lng      *float64 `form:"lng" binding:"omitempty,gte=-180,lte=180"`
	Page     int      `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int      `form:"page_size,default=50" binding:"omitempty,min=1,max=100"`
}

type ShelterResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Address   string            `json:"address"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Hours     map[string]string `json:"hours"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewShelterResponse(s *shelter.Shelter) ShelterResponse {
	return ShelterResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		Hours:     s.Hours,
		CreatedAt: s.CreatedAt,
	}
}

// ShelterTag is the compact representation embedded in other responses.
type ShelterTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
