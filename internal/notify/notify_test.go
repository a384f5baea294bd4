package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brajesh31/TEC-DEV-CL/config"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

var sample = entity.RSVPNotification{
	ID:         "n1",
	Type:       entity.NotificationRSVPCreated,
	RSVP:       entity.RSVP{ID: "r1", EventID: "e1", UserEmail: "alice@example.com", Status: entity.RSVPStatusPending},
	OccurredAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeChannel struct {
	key string
	msg amqp.Publishing
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	c.key = key
	c.msg = msg
	return nil
}

func (c *fakeChannel) Close() error { return nil }

func TestKafkaPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, topic: "rsvp-events"}

	require.NoError(t, p.Publish(context.Background(), sample))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("e1"), w.msgs[0].Key)
	assert.Equal(t, sample.OccurredAt, w.msgs[0].Time)

	var got entity.RSVPNotification
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, sample, got)

	w.err = errors.New("broker down")
	assert.Error(t, p.Publish(context.Background(), sample))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(config.KafkaConfig{Topic: "rsvp-events"})
	assert.Error(t, err)
}

func TestRabbitMQPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p := &RabbitMQPublisher{channel: ch, queue: "rsvp_notifications"}

	require.NoError(t, p.Publish(context.Background(), sample))
	assert.Equal(t, "rsvp_notifications", ch.key)
	assert.Equal(t, "n1", ch.msg.MessageId)
	assert.Equal(t, "rsvp_created", ch.msg.Type)
	assert.Equal(t, uint8(amqp.Persistent), ch.msg.DeliveryMode)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.NoError(t, p.Close())
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	require.NoError(t, NewLogPublisher(logger).Publish(context.Background(), sample))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "rsvp notification", line["msg"])
	assert.Equal(t, "r1", line["rsvp_id"])
	assert.Equal(t, "rsvp_created", line["type"])
}

func TestNew(t *testing.T) {
	p, err := New(config.NotifyConfig{Driver: "none"})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, p)

	p, err = New(config.NotifyConfig{Driver: "log"})
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, p)

	p, err = New(config.NotifyConfig{Driver: "kafka", Kafka: config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}})
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, p)
	assert.NoError(t, p.Close())

	p, err = New(config.NotifyConfig{
		Driver: "kafka", MaxRetries: 2, RetryDelay: time.Millisecond,
		Kafka: config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"},
	})
	require.NoError(t, err)
	assert.IsType(t, &RetryingPublisher{}, p)
	assert.NoError(t, p.Close())

	_, err = New(config.NotifyConfig{Driver: "carrier-pigeon"})
	assert.Error(t, err)
}

type flakyPublisher struct {
	failures int
	err      error
	calls    int
}

func (p *flakyPublisher) Publish(context.Context, entity.RSVPNotification) error {
	p.calls++
	if p.calls <= p.failures {
		return p.err
	}
	return nil
}

func (p *flakyPublisher) Close() error { return nil }

func noSleep(context.Context, time.Duration) error { return nil }

func TestRetryingPublisher(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		err      error
		calls    int
		wantErr  bool
	}{
		{"succeeds first time", 0, nil, 1, false},
		{"recovers after transient failures", 2, errors.New("broker unavailable"), 3, false},
		{"gives up after max retries", 5, errors.New("broker unavailable"), 3, true},
		{"does not retry permanent failures", 5, ErrPermanent, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &flakyPublisher{failures: tt.failures, err: tt.err}
			p := WithRetry(next, 2, time.Millisecond)
			p.sleep = noSleep

			err := p.Publish(context.Background(), sample)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.calls, next.calls)
		})
	}
}

func TestRetryStopsWhenContextDone(t *testing.T) {
	next := &flakyPublisher{failures: 10, err: errors.New("broker unavailable")}
	p := WithRetry(next, 5, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, sample)
	require.Error(t, err)
	assert.Equal(t, 1, next.calls)
}

func TestBackoffIsCapped(t *testing.T) {
	p := WithRetry(Nop{}, 10, 10*time.Millisecond)

	for attempt := 0; attempt < 10; attempt++ {
		d := p.backoff(attempt)
		assert.Greater(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 160*time.Millisecond)
	}
}

func TestBackoffDoesNotOverflow(t *testing.T) {
	p := WithRetry(Nop{}, 1000, 100*time.Millisecond)

	for _, attempt := range []int{31, 40, 63, 64, 100, 999} {
		d := p.backoff(attempt)
		assert.GreaterOrEqual(t, d, 1200*time.Millisecond, "attempt %d", attempt)
		assert.LessOrEqual(t, d, 1600*time.Millisecond, "attempt %d", attempt)
	}
}
