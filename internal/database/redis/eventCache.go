package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Brajesh31/TEC-DEV-CL/internal/database"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

// EventCache is a read-through cache of event documents in front of another
// EventRepository. Redis errors are logged and the wrapped store is used.
// Attendee counts are never cached.
//
// A fill runs under WATCH on the event key and Update overwrites that key,
// so a fill that read the store before a concurrent update is discarded
// instead of caching the old document.
type EventCache struct {
	next   database.EventRepository
	client *redis.Client
	ttl    time.Duration
}

func NewEventCache(next database.EventRepository, client *redis.Client, ttl time.Duration) *EventCache {
	return &EventCache{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

func eventKey(id string) string {
	return "event:" + id
}

func (c *EventCache) Create(ctx context.Context, event *entity.Event) error {
	return c.next.Create(ctx, event)
}

func (c *EventCache) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	if event, ok := c.get(ctx, id); ok {
		return event, nil
	}

	return c.fill(ctx, id)
}

func (c *EventCache) fill(ctx context.Context, id string) (*entity.Event, error) {
	key := eventKey(id)
	var (
		event    *entity.Event
		storeErr error
	)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		event, storeErr = c.next.GetByID(ctx, id)
		if storeErr != nil {
			return storeErr
		}
		data, err := encodeEvent(event)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case storeErr != nil:
		return nil, storeErr
	case event == nil:
		// WATCH itself failed, the store was never read
		logrus.WithError(err).WithField("event_id", id).Warn("event cache unavailable")
		return c.next.GetByID(ctx, id)
	case errors.Is(err, redis.TxFailedErr):
		logrus.WithField("event_id", id).Debug("event changed during cache fill, not cached")
	case err != nil:
		logrus.WithError(err).WithField("event_id", id).Warn("event cache write failed")
	}
	return event, nil
}

func (c *EventCache) List(ctx context.Context, q entity.EventQuery) ([]*entity.Event, error) {
	return c.next.List(ctx, q)
}

func (c *EventCache) Update(ctx context.Context, event *entity.Event) error {
	if err := c.next.Update(ctx, event); err != nil {
		return err
	}
	key := eventKey(event.ID)
	data, err := encodeEvent(event)
	if err == nil {
		err = c.client.Set(ctx, key, data, c.ttl).Err()
	}
	if err != nil {
		if delErr := c.client.Del(ctx, key).Err(); delErr != nil {
			logrus.WithError(delErr).WithField("event_id", event.ID).Error("failed to invalidate cached event")
		}
	}
	return nil
}

func (c *EventCache) get(ctx context.Context, id string) (*entity.Event, bool) {
	data, err := c.client.Get(ctx, eventKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logrus.WithError(err).WithField("event_id", id).Warn("event cache read failed")
		return nil, false
	}

	var event entity.Event
	if err := json.Unmarshal(data, &event); err != nil {
		logrus.WithError(err).WithField("event_id", id).Warn("dropping undecodable cached event")
		c.client.Del(ctx, eventKey(id))
		return nil, false
	}
	event.CurrentAttendees = 0
	return &event, true
}

func encodeEvent(event *entity.Event) ([]byte, error) {
	cached := *event
	cached.CurrentAttendees = 0
	return json.Marshal(&cached)
}
