package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/NikhilGolait/KisanMitra/internal/advisor"
	"github.com/NikhilGolait/KisanMitra/internal/domain"
	"github.com/NikhilGolait/KisanMitra/internal/notify"
	"github.com/NikhilGolait/KisanMitra/internal/observability"
)

// SensorSource blocks until the next raw sensor event arrives.
type SensorSource interface {
	Fetch(ctx context.Context) (domain.SensorEvent, error)
}

// Advisor applies sensor readings and recomputes the advisory for the
// currently selected location.
type Advisor interface {
	UpdateReadings(readings domain.SensorReadings)
	Recompute(ctx context.Context) (domain.Advisory, error)
}

// AdvisoryPublisher writes a computed advisory to the destination.
type AdvisoryPublisher interface {
	Publish(ctx context.Context, advisory domain.Advisory) error
}

// Notifier schedules a deferred notification and returns a handle that can
// cancel it before it fires.
type Notifier interface {
	Schedule(ctx context.Context, n domain.AdvisoryNotification) *notify.Handle
}

// Pipeline orchestrates the consume-recompute-publish-notify loop.
type Pipeline struct {
	source    SensorSource
	advisor   Advisor
	publisher AdvisoryPublisher
	notifier  Notifier
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool

	// pending is the handle for the most recently scheduled notification.
	// Only the Run goroutine touches it.
	pending *notify.Handle
}

// New creates a Pipeline with the given stages and observability.
func New(source SensorSource, adv Advisor, publisher AdvisoryPublisher, notifier Notifier, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:    source,
		advisor:   adv,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil if the pipeline has processed at least one sensor
// event, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any sensor events yet")
	}
	return nil
}

// Run executes the sensor loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started")
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processEvent(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processEvent runs one consume-recompute-publish cycle. Returns false if the
// pipeline should stop.
func (p *Pipeline) processEvent(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	event, err := p.source.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("fetch sensor event failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	*backoff = 200 * time.Millisecond

	readings, err := domain.ParseSensorEvent(event)
	if err != nil {
		p.logger.Warn("malformed sensor event, skipping",
			"error", err,
			"topic", event.Topic,
			"partition", event.Partition,
			"offset", event.Offset,
		)
		p.commitOffset(ctx, event)
		return true
	}

	p.metrics.SensorReadings.Inc()
	p.advisor.UpdateReadings(readings)

	advisory, err := p.advisor.Recompute(ctx)
	if err != nil {
		switch {
		case errors.Is(err, advisor.ErrNoLocation):
			// Readings are stored; a recompute happens once a location is set.
			p.commitOffset(ctx, event)
			return true
		case errors.Is(err, advisor.ErrStaleLocation):
			// The location changed mid-flight and the result was discarded.
			// The readings still apply to the new location's next recompute.
			p.commitOffset(ctx, event)
			return true
		default:
			if ctx.Err() != nil {
				return false
			}
			p.logger.Error("recompute advisory failed", "error", err)
			return p.backoffOrStop(ctx, backoff, maxBackoff)
		}
	}

	if err := p.publisher.Publish(ctx, advisory); err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("publish advisory failed", "error", err, "advisory_id", advisory.ID)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}
	p.metrics.AdvisoriesPublished.Inc()

	p.reschedule(ctx, advisory)
	p.commitOffset(ctx, event)
	p.ready.Store(true)
	return true
}

// reschedule cancels any pending notification and schedules a fresh one for
// the new advisory. A handle that already fired is left alone.
func (p *Pipeline) reschedule(ctx context.Context, advisory domain.Advisory) {
	if p.notifier == nil {
		return
	}
	if p.pending != nil {
		if p.pending.Cancel() {
			p.logger.Debug("cancelled pending notification", "handle_id", p.pending.ID())
		}
	}
	// Schedule stamps the definitive FireAt from its own clock.
	n := advisor.ComposeNotification(advisory, time.Time{})
	p.pending = p.notifier.Schedule(ctx, n)
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the event offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, event domain.SensorEvent) {
	if event.Commit == nil {
		return
	}
	if err := event.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", event.Topic, "partition", event.Partition, "offset", event.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
