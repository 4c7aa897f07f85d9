package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/guardaid/safety-backend/internal/models"
	"github.com/guardaid/safety-backend/internal/service"
)

type PinRepository struct {
	db Pool
}

func NewPinRepository(db Pool) service.PinRepository {
	return &PinRepository{db: db}
}

func (r *PinRepository) Create(ctx context.Context, pin *models.Pin) error {
	query := `
		INSERT INTO dropped_pins (lat, lng) VALUES ($1, $2) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query, pin.Latitude, pin.Longitude).Scan(&pin.ID, &pin.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create pin: %w", err)
	}
	return nil
}

func (r *PinRepository) List(ctx context.Context) ([]*models.Pin, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, lat, lng, created_at FROM dropped_pins ORDER BY created_at DESC;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pins: %w", err)
	}
	defer rows.Close()

	pins := make([]*models.Pin, 0)
	for rows.Next() {
		pin := &models.Pin{}
		if err := rows.Scan(&pin.ID, &pin.Latitude, &pin.Longitude, &pin.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pin row: %w", err)
		}
		pins = append(pins, pin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pin rows: %w", err)
	}
	return pins, nil
}

func (r *PinRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM dropped_pins WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pin: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("pin %s: %w", id, ErrNotFound)
	}
	return nil
}
