package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/guardaid/safety-backend/internal/metrics"
	"github.com/guardaid/safety-backend/internal/models"
	"github.com/guardaid/safety-backend/internal/webhook"
)

// ApprovalQuorum is the number of distinct volunteers whose matching votes
// transition a pending incident. Fixed, not configurable.
const ApprovalQuorum = 3

// QuorumFunc decides the incident status from its current status and the
// recomputed per-volunteer approval and rejection counts. The repository calls
// it inside the action transaction.
type QuorumFunc func(current models.IncidentStatus, approvals, rejections int) models.IncidentStatus

// IncidentRepository is the persistence contract for incidents and their
// approval rows.
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	List(ctx context.Context, status *models.IncidentStatus) ([]*models.Incident, error)
	ApplyAction(ctx context.Context, action *models.IncidentAction, decide QuorumFunc) (*models.Incident, models.IncidentStatus, error)
}

// IncidentService is the incident lifecycle engine: reports come in pending,
// volunteer actions drive the quorum state machine.
type IncidentService interface {
	Report(ctx context.Context, incident *models.Incident) error
	Act(ctx context.Context, action *models.IncidentAction) (*models.Incident, error)
	List(ctx context.Context, status *models.IncidentStatus) ([]*models.Incident, error)
}

type incidentService struct {
	repo      IncidentRepository
	logger    *logrus.Logger
	publisher webhook.Publisher
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, publisher webhook.Publisher) IncidentService {
	return &incidentService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

// nextStatus is the quorum rule. Approval is checked before rejection, so
// approval wins an exact tie. A resolved incident never changes again; resolve
// itself applies from any state. The status is only ever recomputed here,
// inside an act() call, so a volunteer switching their vote does not revert an
// earlier transition on its own.
func nextStatus(action models.ApprovalAction) QuorumFunc {
	return func(current models.IncidentStatus, approvals, rejections int) models.IncidentStatus {
		if current == models.StatusResolved {
			return models.StatusResolved
		}
		if action == models.ActionResolve {
			return models.StatusResolved
		}
		if approvals >= ApprovalQuorum {
			return models.StatusApproved
		}
		if rejections >= ApprovalQuorum {
			return models.StatusRejected
		}
		return current
	}
}

// Report stores a new incident in the pending state. Severity defaults to
// medium and the reporter to the anonymous sentinel.
func (s *incidentService) Report(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "Report",
		"type":    incident.Type,
	})
	log.Info("Reporting a new incident")

	incident.Status = models.StatusPending
	if incident.Severity == "" {
		incident.Severity = models.SeverityMedium
	}
	if incident.ReporterID == "" {
		incident.ReporterID = models.AnonymousReporter
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not report incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident reported successfully")
	return nil
}

// Act records a volunteer disposition and applies the quorum transition. The
// upsert, recount and status update happen atomically in the repository.
func (s *incidentService) Act(ctx context.Context, action *models.IncidentAction) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "incident",
		"method":       "Act",
		"incident_id":  action.IncidentID,
		"volunteer_id": action.VolunteerID,
		"action":       action.Action,
	})
	log.Info("Applying volunteer action")

	incident, previous, err := s.repo.ApplyAction(ctx, action, nextStatus(action.Action))
	if err != nil {
		log.WithError(err).Error("Failed to apply volunteer action")
		return nil, fmt.Errorf("service: could not apply action: %w", err)
	}

	if incident.Status != previous {
		metrics.IncidentTransitionsTotal.WithLabelValues(string(incident.Status)).Inc()
		log.WithFields(logrus.Fields{
			"from": previous,
			"to":   incident.Status,
		}).Info("Incident status transitioned")

		event := webhook.Event{
			IncidentID: incident.ID,
			Status:     incident.Status,
			Previous:   previous,
			ActorID:    action.VolunteerID,
			Latitude:   incident.Latitude,
			Longitude:  incident.Longitude,
			Timestamp:  time.Now().UTC(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			// Delivery is best effort, the transition itself is committed.
			log.WithError(err).Warn("Failed to publish incident transition event")
		}
	}

	return incident, nil
}

// List returns incidents newest first with their aggregate counts, optionally
// filtered by status.
func (s *incidentService) List(ctx context.Context, status *models.IncidentStatus) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "List",
	})

	incidents, err := s.repo.List(ctx, status)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}
