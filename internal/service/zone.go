package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/guardaid/safety-backend/internal/geo"
	"github.com/guardaid/safety-backend/internal/metrics"
	"github.com/guardaid/safety-backend/internal/models"
)

// defaultZoneName is used when a rating carries no label.
const defaultZoneName = "Rated Area"

// ZoneRepository is the persistence contract for safety zones, including the
// cached full list.
type ZoneRepository interface {
	Create(ctx context.Context, zone *models.Zone) error
	List(ctx context.Context, kind *models.ZoneKind) ([]*models.Zone, error)
	AddRating(ctx context.Context, id uuid.UUID, rating int) (*models.Zone, error)
	GetZoneListFromCache(ctx context.Context) ([]*models.Zone, error)
	SetZoneListCache(ctx context.Context, zones []*models.Zone) error
	InvalidateZoneListCache(ctx context.Context) error
}

// PinRepository is the persistence contract for dropped pins.
type PinRepository interface {
	Create(ctx context.Context, pin *models.Pin) error
	List(ctx context.Context) ([]*models.Pin, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ZoneService is the zone registry plus the pin store: ratings found zones,
// zones can be re-rated, pins come and go.
type ZoneService interface {
	Rate(ctx context.Context, lat, lng float64, rating, radiusMeters int, name string) (*models.Zone, error)
	RateZone(ctx context.Context, id uuid.UUID, rating int) (*models.Zone, error)
	ListZones(ctx context.Context, kind *models.ZoneKind) ([]*models.Zone, error)
	CheckLocation(ctx context.Context, point models.Coord) ([]*models.Zone, error)
	CreatePin(ctx context.Context, pin *models.Pin) error
	ListPins(ctx context.Context) ([]*models.Pin, error)
	DeletePin(ctx context.Context, id uuid.UUID) error
}

type zoneService struct {
	zones  ZoneRepository
	pins   PinRepository
	logger *logrus.Logger
}

func NewZoneService(zones ZoneRepository, pins PinRepository, logger *logrus.Logger) ZoneService {
	return &zoneService{
		zones:  zones,
		pins:   pins,
		logger: logger,
	}
}

// Rate founds a new zone at the given coordinates. A rating >= 3 founds a safe
// zone, anything lower a danger zone; the kind is fixed for the zone's
// lifetime. Every rating at fresh coordinates creates a brand-new record, so
// overlapping zones are expected.
func (s *zoneService) Rate(ctx context.Context, lat, lng float64, rating, radiusMeters int, name string) (*models.Zone, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "zone",
		"method":  "Rate",
		"rating":  rating,
	})
	log.Info("Promoting a rating into a zone")

	if name == "" {
		name = defaultZoneName
	}
	zone := &models.Zone{
		Kind:          models.KindForRating(rating),
		Latitude:      lat,
		Longitude:     lng,
		Name:          name,
		Rating:        float64(rating),
		RadiusMeters:  radiusMeters,
		IsUserCreated: true,
		RatingCount:   1,
	}

	if err := s.zones.Create(ctx, zone); err != nil {
		log.WithError(err).Error("Failed to create zone in repository")
		return nil, fmt.Errorf("service: could not create zone: %w", err)
	}
	if err := s.zones.InvalidateZoneListCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate zone list cache")
	}

	log.WithFields(logrus.Fields{"zone_id": zone.ID, "kind": zone.Kind}).Info("Zone created successfully")
	return zone, nil
}

// RateZone folds another rating into an existing zone's running mean. The
// zone's kind never changes, only its mean and count.
func (s *zoneService) RateZone(ctx context.Context, id uuid.UUID, rating int) (*models.Zone, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "zone",
		"method":  "RateZone",
		"zone_id": id,
	})
	log.Info("Adding rating to existing zone")

	zone, err := s.zones.AddRating(ctx, id, rating)
	if err != nil {
		log.WithError(err).Error("Failed to add zone rating")
		return nil, fmt.Errorf("service: could not rate zone: %w", err)
	}
	if err := s.zones.InvalidateZoneListCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate zone list cache")
	}
	return zone, nil
}

// ListZones returns zones, serving the unfiltered list from cache when
// possible.
func (s *zoneService) ListZones(ctx context.Context, kind *models.ZoneKind) ([]*models.Zone, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "zone",
		"method":  "ListZones",
	})

	if kind == nil {
		cached, err := s.zones.GetZoneListFromCache(ctx)
		if err != nil {
			log.WithError(err).Warn("Failed to read zone list cache")
		} else if cached != nil {
			metrics.ZoneCacheHitsTotal.Inc()
			return cached, nil
		}
		metrics.ZoneCacheMissesTotal.Inc()
	}

	zones, err := s.zones.List(ctx, kind)
	if err != nil {
		log.WithError(err).Error("Failed to list zones from repository")
		return nil, fmt.Errorf("service: could not list zones: %w", err)
	}

	if kind == nil {
		if err := s.zones.SetZoneListCache(ctx, zones); err != nil {
			log.WithError(err).Warn("Failed to set zone list cache")
		}
	}
	return zones, nil
}

// CheckLocation returns the danger zones whose circle contains the point.
func (s *zoneService) CheckLocation(ctx context.Context, point models.Coord) ([]*models.Zone, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "zone",
		"method":  "CheckLocation",
	})

	kind := models.ZoneDanger
	zones, err := s.zones.List(ctx, &kind)
	if err != nil {
		log.WithError(err).Error("Failed to list danger zones")
		return nil, fmt.Errorf("service: could not check location: %w", err)
	}

	inside := make([]*models.Zone, 0)
	for _, z := range zones {
		center := models.Coord{Lat: z.Latitude, Lng: z.Longitude}
		if geo.WithinCircle(point, center, float64(z.RadiusMeters), 0) {
			inside = append(inside, z)
		}
	}
	log.WithField("is_danger", len(inside) > 0).Info("Location check completed")
	return inside, nil
}

func (s *zoneService) CreatePin(ctx context.Context, pin *models.Pin) error {
	if err := s.pins.Create(ctx, pin); err != nil {
		s.logger.WithError(err).Error("Failed to create pin in repository")
		return fmt.Errorf("service: could not create pin: %w", err)
	}
	return nil
}

func (s *zoneService) ListPins(ctx context.Context) ([]*models.Pin, error) {
	pins, err := s.pins.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list pins from repository")
		return nil, fmt.Errorf("service: could not list pins: %w", err)
	}
	return pins, nil
}

func (s *zoneService) DeletePin(ctx context.Context, id uuid.UUID) error {
	if err := s.pins.Delete(ctx, id); err != nil {
		s.logger.WithError(err).WithField("pin_id", id).Warn("Failed to delete pin")
		return fmt.Errorf("service: could not delete pin: %w", err)
	}
	return nil
}
