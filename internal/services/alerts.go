package services

import (
	"context"
	"time"

	"finsafe/internal/cache"
	"finsafe/internal/core"
	"finsafe/internal/log"
	"finsafe/internal/metrics"
)

// BalanceWatcher raises a low-balance alert when a fetched balance falls
// below the user's threshold, at most once per user per day.
type BalanceWatcher struct {
	publisher AlertPublisher
	sent      *cache.LRUCache[bool]
	logger    *log.Logger
	now       func() time.Time
}

// NewBalanceWatcher returns a watcher publishing through publisher. The
// sent cache remembers which users were alerted today.
func NewBalanceWatcher(publisher AlertPublisher, sent *cache.LRUCache[bool], logger *log.Logger) *BalanceWatcher {
	if logger == nil {
		logger = log.Discard()
	}
	if sent == nil {
		sent = cache.NewLRUCache[bool](1000, 24*time.Hour)
	}
	return &BalanceWatcher{
		publisher: publisher,
		sent:      sent,
		logger:    logger.WithComponent(log.ComponentAMQP),
		now:       time.Now,
	}
}

// Below reports whether b breaches the threshold of u.
func Below(u *core.User, b core.Balance) bool {
	return u != nil && u.MinBalance > 0 && b.NetBalance < u.MinBalance
}

// Check publishes an alert for u when b is below the threshold and no alert
// was sent today. Publish failures are logged, never returned; the day is
// only marked once a publish succeeds.
func (w *BalanceWatcher) Check(ctx context.Context, u *core.User, b core.Balance) bool {
	if w == nil || w.publisher == nil || !Below(u, b) {
		return false
	}

	now := w.now()
	key := u.ID + ":" + now.UTC().Format(core.DateLayout)
	if _, done := w.sent.Get(key); done {
		return false
	}

	alert := core.BalanceAlert{
		UserID:     u.ID,
		UserName:   u.Name,
		Email:      u.Email,
		NetBalance: b.NetBalance,
		MinBalance: u.MinBalance,
		ObservedAt: now,
	}
	err := w.publisher.PublishBalanceAlert(ctx, alert)
	metrics.AlertsPublishedTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to publish balance alert",
			log.FieldOperation, log.OpPublish, log.FieldUserID, u.ID, log.FieldError, err)
		return false
	}

	w.sent.SetWithTTL(key, true, nextUTCDay(now).Sub(now))
	w.logger.InfoContext(ctx, "Balance alert published",
		log.FieldUserID, u.ID, "net_balance", b.NetBalance, "min_balance", u.MinBalance)
	return true
}

func nextUTCDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}
