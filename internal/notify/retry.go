package notify

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

// ErrPermanent marks a publish failure that retrying cannot fix.
var ErrPermanent = errors.New("permanent publish failure")

// RetryingPublisher re-sends a notification with exponential backoff and
// jitter. Delays are capped at 16x the base delay.
type RetryingPublisher struct {
	next       Publisher
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func WithRetry(next Publisher, maxRetries int, baseDelay time.Duration) *RetryingPublisher {
	return &RetryingPublisher{
		next:       next,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   baseDelay * 16,
		sleep:      sleepCtx,
	}
}

func (p *RetryingPublisher) Publish(ctx context.Context, n entity.RSVPNotification) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = p.next.Publish(ctx, n)
		if err == nil || errors.Is(err, ErrPermanent) || attempt >= p.maxRetries {
			return err
		}

		delay := p.backoff(attempt)
		logrus.WithFields(logrus.Fields{
			"notification_id": n.ID,
			"attempt":         attempt + 1,
			"delay":           delay,
		}).WithError(err).Warn("publish failed, retrying")

		if serr := p.sleep(ctx, delay); serr != nil {
			return err
		}
	}
}

func (p *RetryingPublisher) Close() error {
	return p.next.Close()
}

// backoff is base * 2^attempt, shifted by up to +-25% and capped at maxDelay.
func (p *RetryingPublisher) backoff(attempt int) time.Duration {
	if p.baseDelay <= 0 {
		return 0
	}
	d := p.baseDelay
	for i := 0; i < attempt && d < p.maxDelay; i++ {
		d *= 2
	}
	if quarter := int64(d / 4); quarter > 0 {
		d += time.Duration(rand.Int63n(2*quarter+1) - quarter)
	}
	if d > p.maxDelay {
		d = p.maxDelay
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
