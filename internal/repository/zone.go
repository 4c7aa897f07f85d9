package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/guardaid/safety-backend/internal/models"
	"github.com/guardaid/safety-backend/internal/service"
)

const zoneListCacheKey = "zones:all"

type ZoneRepository struct {
	db          Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewZoneRepository(db Pool, redisClient *redis.Client, cacheTTL time.Duration) service.ZoneRepository {
	return &ZoneRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create inserts a zone record. Every rating at fresh coordinates founds a new
// zone; overlapping zones are expected.
func (r *ZoneRepository) Create(ctx context.Context, zone *models.Zone) error {
	query := `
		INSERT INTO safety_zones (kind, lat, lng, name, rating, radius_meters, is_user_created, rating_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		zone.Kind,
		zone.Latitude,
		zone.Longitude,
		zone.Name,
		zone.Rating,
		zone.RadiusMeters,
		zone.IsUserCreated,
		zone.RatingCount,
	).Scan(&zone.ID, &zone.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create zone: %w", err)
	}
	return nil
}

// List returns zones newest first, optionally filtered by kind.
func (r *ZoneRepository) List(ctx context.Context, kind *models.ZoneKind) ([]*models.Zone, error) {
	query := `
		SELECT id, kind, lat, lng, name, rating, radius_meters, is_user_created, rating_count, created_at
		FROM safety_zones
	`
	args := []any{}
	if kind != nil {
		query += ` WHERE kind = $1`
		args = append(args, *kind)
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	defer rows.Close()

	zones := make([]*models.Zone, 0)
	for rows.Next() {
		zone := &models.Zone{}
		err := rows.Scan(
			&zone.ID,
			&zone.Kind,
			&zone.Latitude,
			&zone.Longitude,
			&zone.Name,
			&zone.Rating,
			&zone.RadiusMeters,
			&zone.IsUserCreated,
			&zone.RatingCount,
			&zone.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan zone row: %w", err)
		}
		zones = append(zones, zone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating zone rows: %w", err)
	}
	return zones, nil
}

// AddRating folds one more 1..5 rating into the zone's running mean. The kind
// is fixed at creation and never re-classified here.
func (r *ZoneRepository) AddRating(ctx context.Context, id uuid.UUID, rating int) (*models.Zone, error) {
	zone := &models.Zone{}
	query := `
		UPDATE safety_zones
		SET rating = (rating * rating_count + $2) / (rating_count + 1),
		    rating_count = rating_count + 1
		WHERE id = $1
		RETURNING id, kind, lat, lng, name, rating, radius_meters, is_user_created, rating_count, created_at;
	`
	err := r.db.QueryRow(ctx, query, id, rating).Scan(
		&zone.ID,
		&zone.Kind,
		&zone.Latitude,
		&zone.Longitude,
		&zone.Name,
		&zone.Rating,
		&zone.RadiusMeters,
		&zone.IsUserCreated,
		&zone.RatingCount,
		&zone.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("zone %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to add zone rating: %w", err)
	}
	return zone, nil
}

// GetZoneListFromCache returns the cached full zone list, or nil on a miss.
func (r *ZoneRepository) GetZoneListFromCache(ctx context.Context) ([]*models.Zone, error) {
	val, err := r.redisClient.Get(ctx, zoneListCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get zone list from cache: %w", err)
	}

	zones := make([]*models.Zone, 0)
	if err := json.Unmarshal(val, &zones); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached zone list: %w", err)
	}
	return zones, nil
}

// SetZoneListCache stores the full zone list with the configured TTL.
func (r *ZoneRepository) SetZoneListCache(ctx context.Context, zones []*models.Zone) error {
	val, err := json.Marshal(zones)
	if err != nil {
		return fmt.Errorf("failed to marshal zone list for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, zoneListCacheKey, val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set zone list cache: %w", err)
	}
	return nil
}

// InvalidateZoneListCache drops the cached list after any zone write.
func (r *ZoneRepository) InvalidateZoneListCache(ctx context.Context) error {
	if err := r.redisClient.Del(ctx, zoneListCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate zone list cache: %w", err)
	}
	return nil
}
