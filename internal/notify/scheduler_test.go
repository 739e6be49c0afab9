package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikhilGolait/KisanMitra/internal/domain"
	"github.com/NikhilGolait/KisanMitra/internal/observability"
)

// --- mocks ---

type recordingSender struct {
	mu   sync.Mutex
	sent []domain.AdvisoryNotification
	err  error
}

func (s *recordingSender) Send(_ context.Context, n domain.AdvisoryNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type promptGate struct {
	mu        sync.Mutex
	status    Permission
	onRequest Permission
	requests  int
}

func (g *promptGate) Status() Permission {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *promptGate) Request(_ context.Context) (Permission, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests++
	g.status = g.onRequest
	return g.onRequest, nil
}

func testScheduler(sender Sender, gate Gate, clock clockwork.Clock) *Scheduler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewScheduler(sender, gate, 120*time.Second, clock, logger, observability.NewMetricsForTesting())
}

func testNotification() domain.AdvisoryNotification {
	return domain.AdvisoryNotification{Title: "Crop Advisory", Body: "Recommended crops: Rice."}
}

// --- tests ---

func TestScheduler_FiresAfterDelay(t *testing.T) {
	fc := clockwork.NewFakeClock()
	sender := &recordingSender{}
	s := testScheduler(sender, NewStaticGate(PermissionGranted), fc)

	h := s.Schedule(context.Background(), testNotification())

	fc.BlockUntil(1)
	assert.Equal(t, 0, sender.count(), "must not fire before the delay")

	fc.Advance(120 * time.Second)
	<-h.Done()

	assert.True(t, h.Fired())
	require.Equal(t, 1, sender.count())
	assert.Equal(t, "Crop Advisory", sender.sent[0].Title)
}

func TestScheduler_StampsFireAt(t *testing.T) {
	fc := clockwork.NewFakeClock()
	sender := &recordingSender{}
	s := testScheduler(sender, NewStaticGate(PermissionGranted), fc)
	want := fc.Now().Add(120 * time.Second)

	h := s.Schedule(context.Background(), testNotification())
	fc.BlockUntil(1)
	fc.Advance(120 * time.Second)
	<-h.Done()

	require.Equal(t, 1, sender.count())
	assert.Equal(t, want, sender.sent[0].FireAt)
}

func TestScheduler_CancelPreventsFire(t *testing.T) {
	fc := clockwork.NewFakeClock()
	sender := &recordingSender{}
	s := testScheduler(sender, NewStaticGate(PermissionGranted), fc)

	h := s.Schedule(context.Background(), testNotification())
	fc.BlockUntil(1)

	assert.True(t, h.Cancel())
	assert.False(t, h.Fired())

	fc.Advance(120 * time.Second)
	assert.Equal(t, 0, sender.count())
}

func TestScheduler_CancelAfterFireReportsFalse(t *testing.T) {
	fc := clockwork.NewFakeClock()
	sender := &recordingSender{}
	s := testScheduler(sender, NewStaticGate(PermissionGranted), fc)

	h := s.Schedule(context.Background(), testNotification())
	fc.BlockUntil(1)
	fc.Advance(120 * time.Second)
	<-h.Done()

	assert.False(t, h.Cancel())
	assert.Equal(t, 1, sender.count())
}

func TestScheduler_DeniedPermissionIsSilentNoop(t *testing.T) {
	fc := clockwork.NewFakeClock()
	sender := &recordingSender{}
	s := testScheduler(sender, NewStaticGate(PermissionDenied), fc)

	h := s.Schedule(context.Background(), testNotification())
	fc.BlockUntil(1)
	fc.Advance(120 * time.Second)
	<-h.Done()

	assert.True(t, h.Fired())
	assert.Equal(t, 0, sender.count())
}

func TestScheduler_UndeterminedPermissionRequestsFirst(t *testing.T) {
	t.Run("granted on request delivers", func(t *testing.T) {
		fc := clockwork.NewFakeClock()
		sender := &recordingSender{}
		gate := &promptGate{status: PermissionUndetermined, onRequest: PermissionGranted}
		s := testScheduler(sender, gate, fc)

		h := s.Schedule(context.Background(), testNotification())
		fc.BlockUntil(1)
		fc.Advance(120 * time.Second)
		<-h.Done()

		assert.Equal(t, 1, gate.requests)
		assert.Equal(t, 1, sender.count())
	})

	t.Run("denied on request suppresses", func(t *testing.T) {
		fc := clockwork.NewFakeClock()
		sender := &recordingSender{}
		gate := &promptGate{status: PermissionUndetermined, onRequest: PermissionDenied}
		s := testScheduler(sender, gate, fc)

		h := s.Schedule(context.Background(), testNotification())
		fc.BlockUntil(1)
		fc.Advance(120 * time.Second)
		<-h.Done()

		assert.Equal(t, 1, gate.requests)
		assert.Equal(t, 0, sender.count())
	})
}

func TestScheduler_SendFailureIsNotRetried(t *testing.T) {
	fc := clockwork.NewFakeClock()
	sender := &recordingSender{err: errors.New("platform down")}
	s := testScheduler(sender, NewStaticGate(PermissionGranted), fc)

	h := s.Schedule(context.Background(), testNotification())
	fc.BlockUntil(1)
	fc.Advance(120 * time.Second)
	<-h.Done()

	assert.True(t, h.Fired())
	assert.Equal(t, 0, sender.count())
}

func TestScheduler_IndependentTimers(t *testing.T) {
	// A newly scheduled advisory does not cancel a still-pending one;
	// the caller decides.
	fc := clockwork.NewFakeClock()
	sender := &recordingSender{}
	s := testScheduler(sender, NewStaticGate(PermissionGranted), fc)

	h1 := s.Schedule(context.Background(), testNotification())
	fc.BlockUntil(1)
	h2 := s.Schedule(context.Background(), testNotification())
	fc.BlockUntil(2)

	fc.Advance(120 * time.Second)
	<-h1.Done()
	<-h2.Done()

	assert.Equal(t, 2, sender.count())
}

func TestScheduler_ContextCancellation(t *testing.T) {
	fc := clockwork.NewFakeClock()
	sender := &recordingSender{}
	s := testScheduler(sender, NewStaticGate(PermissionGranted), fc)

	ctx, cancel := context.WithCancel(context.Background())
	h := s.Schedule(ctx, testNotification())
	fc.BlockUntil(1)
	cancel()
	<-h.Done()

	assert.False(t, h.Fired())
	assert.Equal(t, 0, sender.count())
}
