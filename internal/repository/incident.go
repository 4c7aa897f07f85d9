package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/guardaid/safety-backend/internal/models"
	"github.com/guardaid/safety-backend/internal/service"
)

type IncidentRepository struct {
	db Pool
}

func NewIncidentRepository(db Pool) service.IncidentRepository {
	return &IncidentRepository{db: db}
}

// incidentColumns selects an incident together with its recomputed approval
// and rejection counts.
const incidentColumns = `
	SELECT
		i.id,
		i.type,
		i.lat,
		i.lng,
		i.description,
		i.severity,
		i.status,
		i.reporter_id,
		i.approved_by,
		i.resolved_by,
		COUNT(*) FILTER (WHERE ia.action = 'approve') AS approval_count,
		COUNT(*) FILTER (WHERE ia.action = 'reject') AS rejection_count,
		i.created_at,
		i.updated_at
	FROM incidents i
	LEFT JOIN incident_approvals ia ON ia.incident_id = i.id
`

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.Type,
		&incident.Latitude,
		&incident.Longitude,
		&incident.Description,
		&incident.Severity,
		&incident.Status,
		&incident.ReporterID,
		&incident.ApprovedBy,
		&incident.ResolvedBy,
		&incident.ApprovalCount,
		&incident.RejectionCount,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// Create inserts a new incident report.
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (type, lat, lng, description, severity, status, reporter_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.Type,
		incident.Latitude,
		incident.Longitude,
		incident.Description,
		incident.Severity,
		incident.Status,
		incident.ReporterID,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID returns an incident with its aggregate counts.
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := incidentColumns + `
	WHERE i.id = $1
	GROUP BY i.id;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// List returns incidents newest first, optionally filtered by status.
func (r *IncidentRepository) List(ctx context.Context, status *models.IncidentStatus) ([]*models.Incident, error) {
	query := incidentColumns
	args := []any{}
	if status != nil {
		query += ` WHERE i.status = $1`
		args = append(args, *status)
	}
	query += `
	GROUP BY i.id
	ORDER BY i.created_at DESC;
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating incident rows: %w", err)
	}
	return incidents, nil
}

// ApplyAction upserts the volunteer's approval row, recomputes the quorum
// counts and applies the decided transition, all in one transaction with the
// incident row locked. It returns the updated incident and its prior status.
func (r *IncidentRepository) ApplyAction(ctx context.Context, action *models.IncidentAction, decide service.QuorumFunc) (*models.Incident, models.IncidentStatus, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to begin action transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	incident := &models.Incident{}
	err = tx.QueryRow(ctx, `
		SELECT id, type, lat, lng, description, severity, status, reporter_id,
		       approved_by, resolved_by, created_at, updated_at
		FROM incidents
		WHERE id = $1
		FOR UPDATE;
	`, action.IncidentID).Scan(
		&incident.ID,
		&incident.Type,
		&incident.Latitude,
		&incident.Longitude,
		&incident.Description,
		&incident.Severity,
		&incident.Status,
		&incident.ReporterID,
		&incident.ApprovedBy,
		&incident.ResolvedBy,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("incident %s: %w", action.IncidentID, ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to lock incident: %w", err)
	}
	previous := incident.Status

	// Last write wins per volunteer: the unique key makes this an upsert.
	_, err = tx.Exec(ctx, `
		INSERT INTO incident_approvals (incident_id, volunteer_id, action, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (incident_id, volunteer_id)
		DO UPDATE SET action = EXCLUDED.action, comment = EXCLUDED.comment, created_at = NOW();
	`, action.IncidentID, action.VolunteerID, action.Action, action.Comment)
	if err != nil {
		return nil, "", fmt.Errorf("failed to upsert approval: %w", err)
	}

	var approvals, rejections int
	err = tx.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE action = 'approve'),
			COUNT(*) FILTER (WHERE action = 'reject')
		FROM incident_approvals
		WHERE incident_id = $1;
	`, action.IncidentID).Scan(&approvals, &rejections)
	if err != nil {
		return nil, "", fmt.Errorf("failed to count approvals: %w", err)
	}
	incident.ApprovalCount = approvals
	incident.RejectionCount = rejections

	next := decide(previous, approvals, rejections)
	if next != previous {
		switch next {
		case models.StatusResolved:
			err = tx.QueryRow(ctx, `
				UPDATE incidents SET status = $1, resolved_by = $2, updated_at = NOW()
				WHERE id = $3 RETURNING updated_at;
			`, next, action.VolunteerID, action.IncidentID).Scan(&incident.UpdatedAt)
			incident.ResolvedBy = &action.VolunteerID
		case models.StatusApproved:
			err = tx.QueryRow(ctx, `
				UPDATE incidents SET status = $1, approved_by = $2, updated_at = NOW()
				WHERE id = $3 RETURNING updated_at;
			`, next, action.VolunteerID, action.IncidentID).Scan(&incident.UpdatedAt)
			incident.ApprovedBy = &action.VolunteerID
		default:
			err = tx.QueryRow(ctx, `
				UPDATE incidents SET status = $1, updated_at = NOW()
				WHERE id = $2 RETURNING updated_at;
			`, next, action.IncidentID).Scan(&incident.UpdatedAt)
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to update incident status: %w", err)
		}
		incident.Status = next
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, "", fmt.Errorf("failed to commit action transaction: %w", err)
	}
	return incident, previous, nil
}
