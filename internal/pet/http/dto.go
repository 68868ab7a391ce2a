package http

import (
	"time"

	"github.com/pawmates/shelter-visit-backend/internal/pet"
)

// ListPetsRequest defines query parameters for listing pets.
type ListPetsRequest struct {
	ShelterID    string `form:"shelter_id" binding:"omitempty,uuid"`
	Species      string `form:"species"`
	Availability string `form:"availability" binding:"omitempty,oneof=AVAILABLE HOLD ADOPTED"`
	Search       string `form:"search"`
	Page         int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type CreatePetRequest struct {
	ShelterID   string `json:"shelter_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required"`
	Species     string `json:"species" binding:"required"`
	Breed       string `json:"breed"`
	AgeMonths   int    `json:"age_months" binding:"omitempty,min=0"`
	Description string `json:"description"`
}

type UpdateAvailabilityRequest struct {
	Availability string `json:"availability" binding:"required,oneof=AVAILABLE HOLD ADOPTED"`
}

type PetResponse struct {
	ID           string    `json:"id"`
	ShelterID    string    `json:"shelter_id"`
	Name         string    `json:"name"`
	Species      string    `json:"species"`
	Breed        string    `json:"breed"`
	AgeMonths    int       `json:"age_months"`
	Description  string    `json:"description"`
	Availability string    `json:"availability"`
	HasPhoto     bool      `json:"has_photo"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewPetResponse(p *pet.Pet) PetResponse {
	return PetResponse{
		ID:           p.ID,
		ShelterID:    p.ShelterID,
		Name:         p.Name,
		Species:      p.Species,
		Breed:        p.Breed,
		AgeMonths:    p.AgeMonths,
		Description:  p.Description,
		Availability: string(p.Availability),
		HasPhoto:     p.PhotoPath != nil,
		CreatedAt:    p.CreatedAt,
	}
}

// PetTag is the compact representation embedded in other responses.
type PetTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
