package models

import (
	"time"

	"github.com/google/uuid"
)

type ZoneKind string

const (
	ZoneSafe   ZoneKind = "safe"
	ZoneDanger ZoneKind = "danger"
)

// SafeRatingThreshold splits founding ratings into safe (>= 3) and danger (< 3)
// zones. The kind is fixed at creation and never re-classified.
const SafeRatingThreshold = 3

// Zone is a circular safe or danger area. Rating is the running mean of all
// ratings submitted for the zone.
type Zone struct {
	ID            uuid.UUID `json:"id"`
	Kind          ZoneKind  `json:"kind"`
	Latitude      float64   `json:"lat"`
	Longitude     float64   `json:"lng"`
	Name          string    `json:"name"`
	Rating        float64   `json:"rating"`
	RadiusMeters  int       `json:"radius_meters"`
	IsUserCreated bool      `json:"is_user_created"`
	RatingCount   int       `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// KindForRating returns the zone kind founded by a 1..5 rating.
func KindForRating(rating int) ZoneKind {
	if rating >= SafeRatingThreshold {
		return ZoneSafe
	}
	return ZoneDanger
}
