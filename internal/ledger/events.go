package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Qualiasolutions/chainwise-advisor/pkg/kafka"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/logging"
)

const usageTopic = "chainwise.credit.usage"

// UsageEvent records one committed credit spend for downstream analytics.
type UsageEvent struct {
	UserID        string    `json:"user_id"`
	ReservationID string    `json:"reservation_id"`
	Credits       int       `json:"credits"`
	Reason        string    `json:"reason"`
	Timestamp     time.Time `json:"timestamp"`
}

// UsageEventPublisher emits usage events to Kafka. Publishing is
// best-effort: a broker failure is logged, never surfaced to the request.
type UsageEventPublisher struct {
	producer *kafka.Producer
	logger   logging.Logger
}

func NewUsageEventPublisher(producer *kafka.Producer, logger logging.Logger) *UsageEventPublisher {
	return &UsageEventPublisher{producer: producer, logger: logger}
}

// PublishUsage sends one usage event keyed by user id. Safe on a nil
// publisher or nil producer.
func (p *UsageEventPublisher) PublishUsage(ctx context.Context, event UsageEvent) {
	if p == nil || p.producer == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Error("Failed to marshal usage event")
		return
	}
	if err := p.producer.Produce(usageTopic, []byte(event.UserID), payload, map[string]string{
		"event_type": "credit_usage",
	}); err != nil {
		p.logger.WithError(err).WithField("user_id", event.UserID).Warn("Failed to publish usage event")
	}
}
