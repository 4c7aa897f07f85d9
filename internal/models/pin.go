package models

import (
	"time"

	"github.com/google/uuid"
)

// Pin is an ephemeral user-dropped marker, independent of zones.
type Pin struct {
	ID        uuid.UUID `json:"id"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	CreatedAt time.Time `json:"created_at"`
}
