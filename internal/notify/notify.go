// Package notify publishes RSVP lifecycle notifications to a message broker.
package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Brajesh31/TEC-DEV-CL/config"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

type Publisher interface {
	Publish(ctx context.Context, n entity.RSVPNotification) error
	Close() error
}

// New builds the publisher selected by cfg.Driver.
func New(cfg config.NotifyConfig) (Publisher, error) {
	switch cfg.Driver {
	case "", "log":
		return NewLogPublisher(logrus.StandardLogger()), nil
	case "none":
		return Nop{}, nil
	case "kafka":
		p, err := NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		return withRetry(p, cfg), nil
	case "rabbitmq":
		p, err := NewRabbitMQPublisher(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return withRetry(p, cfg), nil
	}
	return nil, fmt.Errorf("unknown notify driver %q", cfg.Driver)
}

func withRetry(p Publisher, cfg config.NotifyConfig) Publisher {
	if cfg.MaxRetries <= 0 {
		return p
	}
	return WithRetry(p, cfg.MaxRetries, cfg.RetryDelay)
}

type Nop struct{}

func (Nop) Publish(context.Context, entity.RSVPNotification) error { return nil }
func (Nop) Close() error                                           { return nil }

// LogPublisher writes notifications to the application log.
type LogPublisher struct {
	log logrus.FieldLogger
}

func NewLogPublisher(log logrus.FieldLogger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, n entity.RSVPNotification) error {
	p.log.WithFields(logrus.Fields{
		"notification_id": n.ID,
		"type":            n.Type,
		"rsvp_id":         n.RSVP.ID,
		"event_id":        n.RSVP.EventID,
		"user_email":      n.RSVP.UserEmail,
		"status":          n.RSVP.Status,
	}).Info("rsvp notification")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
