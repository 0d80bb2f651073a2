package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"emergency-referral/internal/domain/entity"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

var ErrEventNotAcked = errors.New("broker did not acknowledge referral event")

// ReferralEvent is published after a referral status change commits.
type ReferralEvent struct {
	EventID       uuid.UUID  `json:"event_id"`
	Type          string     `json:"type"`
	ReferralID    uuid.UUID  `json:"referral_id"`
	ReferenceCode string     `json:"reference_code"`
	Kind          string     `json:"kind"`
	OldStatus     string     `json:"old_status"`
	NewStatus     string     `json:"new_status"`
	ActorID       *uuid.UUID `json:"actor_id,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// NewReferralEvent builds an event from a persisted history entry.
func NewReferralEvent(eventType string, referral *entity.Referral, history *entity.ReferralStatusHistory) ReferralEvent {
	return ReferralEvent{
		EventID:       uuid.New(),
		Type:          eventType,
		ReferralID:    referral.ID,
		ReferenceCode: referral.ReferenceCode,
		Kind:          history.Kind,
		OldStatus:     history.OldStatus,
		NewStatus:     history.NewStatus,
		ActorID:       history.ChangedByID,
		OccurredAt:    time.Now().UTC(),
	}
}

// EventPublisher delivers referral events to downstream consumers.
// Publishing is best effort: the state change is already committed.
type EventPublisher interface {
	Publish(ctx context.Context, event ReferralEvent) error
	Close() error
}

type rabbitEventPublisher struct {
	mu      sync.Mutex
	channel *amqp091.Channel
	queue   string
	log     *logrus.Logger
}

// NewRabbitEventPublisher opens a channel in confirm mode and declares a durable
// queue for referral events.
func NewRabbitEventPublisher(conn *amqp091.Connection, queue string, log *logrus.Logger) (EventPublisher, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		channel.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		channel.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	return &rabbitEventPublisher{
		channel: channel,
		queue:   queue,
		log:     log,
	}, nil
}

func (p *rabbitEventPublisher) Publish(ctx context.Context, event ReferralEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	message := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		MessageId:    event.EventID.String(),
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Headers: amqp091.Table{
			"referral_id": event.ReferralID.String(),
		},
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	confirmation, err := p.channel.PublishWithDeferredConfirmWithContext(ctx, "", p.queue, false, false, message)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("wait for publish confirm: %w", err)
	}
	if !acked {
		return ErrEventNotAcked
	}

	p.log.Debugf("Published %s for referral %s", event.Type, event.ReferenceCode)
	return nil
}

func (p *rabbitEventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.Close()
}

type noopEventPublisher struct{}

// NewNoopEventPublisher is used when RabbitMQ is disabled.
func NewNoopEventPublisher() EventPublisher {
	return noopEventPublisher{}
}

func (noopEventPublisher) Publish(context.Context, ReferralEvent) error { return nil }

func (noopEventPublisher) Close() error { return nil }
