package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateLocationRequest struct {
	Name      string   `json:"name" validate:"required,max=255"`
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
	IsDefault bool     `json:"isDefault"`
}

// UpdateLocationRequest flips the default flag and/or renames a location.
type UpdateLocationRequest struct {
	ID        string  `json:"id" validate:"required"`
	IsDefault *bool   `json:"isDefault"`
	Name      *string `json:"name" validate:"omitempty,max=255"`
}

type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}
