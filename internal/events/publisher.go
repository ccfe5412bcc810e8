package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
)

const subjectPrefix = "board."

const (
	FeaturedCreated  = "featured.created"
	FeaturedExtended = "featured.extended"
	FeaturedRemoved  = "featured.removed"
	JobPosted        = "job.posted"
	JobDeleted       = "job.deleted"
	UserRegistered   = "user.registered"
	UserRoleSelected = "user.role_selected"
	PaymentRecorded  = "payment.recorded"
	ReportSubmitted  = "report.submitted"
	ReportClosed     = "report.closed"
)

// Event is a domain change notification
type Event struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewNATSPublisher connects to NATS; subjects are "board.<event type>"
func NewNATSPublisher(url string, timeout time.Duration, logger *zap.Logger) (Publisher, error) {
	opts := []nats.Option{
		nats.Name("ceylon-work-force"),
		nats.Timeout(timeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, apperrors.Unavailable("connecting to NATS", err)
	}

	return &natsPublisher{conn: conn, logger: logger}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return apperrors.Internal("marshaling event", err)
	}

	subject := subjectPrefix + event.Type
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("type", event.Type),
			zap.String("id", event.ID),
			zap.Error(err))
		return apperrors.Unavailable("publishing to NATS", err)
	}

	p.logger.Debug("published event",
		zap.String("subject", subject),
		zap.String("id", event.ID))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Drain()
	}
}

// Noop drops every event
type Noop struct{}

func (Noop) Publish(ctx context.Context, event Event) error { return nil }

func (Noop) Close() {}

// Emitter publishes events without failing the caller. Publish errors are
// logged and dropped.
type Emitter struct {
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewEmitter(publisher Publisher, logger *zap.Logger) *Emitter {
	if publisher == nil {
		publisher = Noop{}
	}
	return &Emitter{publisher: publisher, logger: logger, now: time.Now}
}

func (e *Emitter) Emit(ctx context.Context, eventType, id string, attrs map[string]string) {
	event := Event{
		Type:       eventType,
		ID:         id,
		OccurredAt: e.now().UTC(),
		Attributes: attrs,
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn("event dropped",
			zap.String("type", eventType),
			zap.String("id", id),
			zap.Error(err))
	}
}
