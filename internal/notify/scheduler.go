// Package notify schedules deferred, best-effort advisory alerts.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/NikhilGolait/KisanMitra/internal/domain"
	"github.com/NikhilGolait/KisanMitra/internal/observability"
)

// Sender delivers a fired notification to the platform collaborator.
type Sender interface {
	Send(ctx context.Context, n domain.AdvisoryNotification) error
}

// Scheduler fires each advisory notification once after a fixed delay.
// Delivery is best-effort: an undetermined permission triggers a request
// first; a denied permission makes the fire a silent no-op; a send failure
// is not retried.
type Scheduler struct {
	sender  Sender
	gate    Gate
	delay   time.Duration
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewScheduler creates a Scheduler firing after the given delay.
func NewScheduler(sender Sender, gate Gate, delay time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{
		sender:  sender,
		gate:    gate,
		delay:   delay,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Delay returns the configured fire delay.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Handle identifies a scheduled notification and exposes cancellation.
// Timers are otherwise uncoordinated; a newly scheduled advisory does not
// cancel a still-pending one, so the caller must cancel explicitly when
// replacing an advisory.
type Handle struct {
	id     string
	cancel chan struct{}
	done   chan struct{}
	once   sync.Once
	fired  atomic.Bool
}

// ID returns the handle's unique identifier.
func (h *Handle) ID() string { return h.id }

// Done is closed once the notification has fired, been cancelled, or been
// suppressed.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Fired reports whether the delay elapsed and the fire path ran.
func (h *Handle) Fired() bool { return h.fired.Load() }

// Cancel stops a pending notification. It blocks until the scheduling
// goroutine has settled and reports whether the fire was prevented.
func (h *Handle) Cancel() bool {
	h.once.Do(func() { close(h.cancel) })
	<-h.done
	return !h.fired.Load()
}

// Schedule arms a fire-once timer for the notification and returns its
// handle. The notification's FireAt is stamped from the scheduler clock.
func (s *Scheduler) Schedule(ctx context.Context, n domain.AdvisoryNotification) *Handle {
	n.FireAt = s.clock.Now().Add(s.delay)

	h := &Handle{
		id:     uuid.NewString(),
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}

	s.metrics.NotificationsScheduled.Inc()
	s.logger.Debug("advisory notification scheduled",
		"handle_id", h.id, "title", n.Title, "fire_at", n.FireAt)

	go s.run(ctx, n, h)
	return h
}

func (s *Scheduler) run(ctx context.Context, n domain.AdvisoryNotification, h *Handle) {
	defer close(h.done)

	timer := s.clock.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.Chan():
	case <-h.cancel:
		s.metrics.NotificationsCancelled.Inc()
		s.logger.Debug("advisory notification cancelled", "handle_id", h.id)
		return
	case <-ctx.Done():
		s.metrics.NotificationsCancelled.Inc()
		return
	}

	h.fired.Store(true)
	s.fire(ctx, n, h)
}

func (s *Scheduler) fire(ctx context.Context, n domain.AdvisoryNotification, h *Handle) {
	perm := s.gate.Status()
	if perm == PermissionUndetermined {
		requested, err := s.gate.Request(ctx)
		if err != nil {
			s.metrics.NotificationsSuppressed.Inc()
			s.logger.Warn("notification permission request failed",
				"handle_id", h.id, "error", err)
			return
		}
		perm = requested
	}

	if perm != PermissionGranted {
		s.metrics.NotificationsSuppressed.Inc()
		s.logger.Debug("advisory notification suppressed", "handle_id", h.id)
		return
	}

	if err := s.sender.Send(ctx, n); err != nil {
		// Best-effort: no retry on delivery failure.
		s.metrics.NotificationsSuppressed.Inc()
		s.logger.Warn("advisory notification delivery failed",
			"handle_id", h.id, "error", err)
		return
	}

	s.metrics.NotificationsDelivered.Inc()
	s.logger.Info("advisory notification delivered",
		"handle_id", h.id, "title", n.Title)
}
