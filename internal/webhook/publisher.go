package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/guardaid/safety-backend/internal/models"
)

const eventQueueKey = "incident_events"

// Event describes an incident status transition pushed to subscribers.
type Event struct {
	IncidentID uuid.UUID             `json:"incident_id"`
	Status     models.IncidentStatus `json:"status"`
	Previous   models.IncidentStatus `json:"previous"`
	ActorID    string                `json:"actor_id"`
	Latitude   float64               `json:"latitude"`
	Longitude  float64               `json:"longitude"`
	Timestamp  time.Time             `json:"timestamp"`
}

// Publisher enqueues incident transition events for asynchronous delivery.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher implements Publisher over a Redis list used as a queue.
type RedisPublisher struct {
	redisClient *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{redisClient: client}
}

// Publish pushes the event onto the delivery queue.
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}
	if err := p.redisClient.LPush(ctx, eventQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
