package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genepreston69/uplift-frame/internal/models"
)

// manualClock drives the state machine deterministically. Tests advance
// it and call tick directly instead of waiting on real timers.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *manualClock) NewTicker(d time.Duration) Ticker {
	return &manualTicker{}
}

type manualTicker struct{}

func (t *manualTicker) C() <-chan time.Time { return nil }
func (t *manualTicker) Stop()               {}

type fakeStore struct {
	mu          sync.Mutex
	createErr   error
	finalizeErr error
	createCalls int
	finalized   []FinalizeParams
	finalizeCh  chan FinalizeParams
}

func newFakeStore() *fakeStore {
	return &fakeStore{finalizeCh: make(chan FinalizeParams, 4)}
}

func (s *fakeStore) CreateSession(ctx context.Context) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		return uuid.Nil, s.createErr
	}
	return uuid.New(), nil
}

func (s *fakeStore) FinalizeSession(ctx context.Context, p FinalizeParams) error {
	s.mu.Lock()
	s.finalized = append(s.finalized, p)
	err := s.finalizeErr
	s.mu.Unlock()
	s.finalizeCh <- p
	return err
}

func (s *fakeStore) waitFinalize(t *testing.T) FinalizeParams {
	t.Helper()
	select {
	case p := <-s.finalizeCh:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for finalize flush")
		return FinalizeParams{}
	}
}

func (s *fakeStore) finalizeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.finalized)
}

func newTestManager(store Store, clock Clock, timings Timings) *Manager {
	return NewManager(store, clock, nil, zerolog.Nop(), timings)
}

func defaultTimings() Timings {
	return Timings{
		SessionDuration: 30 * time.Minute,
		IdleTimeout:     10 * time.Minute,
		TickInterval:    time.Second,
	}
}

func TestStartAppendsInitialRecord(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store, newManualClock(), defaultTimings())

	id, err := m.Start(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)
	require.True(t, m.IsActive())

	log := m.ActivityLog()
	require.Len(t, log, 1)
	assert.Equal(t, models.ActivitySessionStarted, log[0].Activity)
	assert.Equal(t, 30*time.Minute, m.TimeRemaining())
}

func TestLogActivityOrderAndCount(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store, newManualClock(), defaultTimings())

	_, err := m.Start(context.Background())
	require.NoError(t, err)

	const n = 50
	for i := 0; i < n; i++ {
		m.LogActivity("navigation", map[string]interface{}{"step": i})
	}

	log := m.ActivityLog()
	require.Len(t, log, n+1, "expected session_started plus one record per call")
	assert.Equal(t, models.ActivitySessionStarted, log[0].Activity)
	for i := 1; i <= n; i++ {
		assert.Equal(t, "navigation", log[i].Activity)
		assert.Equal(t, i-1, log[i].Details["step"], "records must keep insertion order")
	}
}

func TestStartWhileActiveIsRejected(t *testing.T) {
	store := newFakeStore()
	clock := newManualClock()
	m := newTestManager(store, clock, defaultTimings())

	_, err := m.Start(context.Background())
	require.NoError(t, err)

	clock.Advance(time.Second)
	m.tick()
	remainingBefore := m.TimeRemaining()

	_, err = m.Start(context.Background())
	require.ErrorIs(t, err, ErrSessionActive)

	assert.Equal(t, 1, store.createCalls, "no second session record may be created")
	assert.Equal(t, remainingBefore, m.TimeRemaining(), "running timers must not reset")
}

func TestStartStoreFailureStaysInactive(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("connection refused")
	m := newTestManager(store, newManualClock(), defaultTimings())

	_, err := m.Start(context.Background())
	require.Error(t, err)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "create", storeErr.Op)

	assert.False(t, m.IsActive())
	m.LogActivity("navigation", nil)
	assert.Empty(t, m.ActivityLog(), "no partial session may be left running")
}

func TestDurationExpiry(t *testing.T) {
	store := newFakeStore()
	clock := newManualClock()
	m := newTestManager(store, clock, Timings{
		SessionDuration: 2 * time.Second,
		IdleTimeout:     time.Hour,
		TickInterval:    time.Second,
	})

	_, err := m.Start(context.Background())
	require.NoError(t, err)

	clock.Advance(time.Second)
	m.tick()
	assert.True(t, m.IsActive(), "one tick must not expire a two-tick budget")

	clock.Advance(time.Second)
	m.tick()
	assert.False(t, m.IsActive())

	p := store.waitFinalize(t)
	assert.Equal(t, 2, p.DurationSeconds)
	assert.False(t, p.EndTime.IsZero())
	require.NotEmpty(t, p.ActivityLog)
	assert.Equal(t, models.ActivityTimeoutDuration, p.ActivityLog[len(p.ActivityLog)-1].Activity)
}

func TestIdleExpiry(t *testing.T) {
	store := newFakeStore()
	clock := newManualClock()
	m := newTestManager(store, clock, Timings{
		SessionDuration: 30 * time.Minute,
		IdleTimeout:     3 * time.Second,
		TickInterval:    time.Second,
	})

	_, err := m.Start(context.Background())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		m.tick()
	}
	assert.False(t, m.IsActive())

	p := store.waitFinalize(t)
	require.NotEmpty(t, p.ActivityLog)
	assert.Equal(t, models.ActivityTimeoutIdle, p.ActivityLog[len(p.ActivityLog)-1].Activity)
	for _, rec := range p.ActivityLog {
		assert.NotEqual(t, models.ActivityTimeoutDuration, rec.Activity,
			"idle expiry must not also record a duration expiry")
	}
	assert.Equal(t, 3, p.DurationSeconds)
}

func TestLogActivityResetsIdleClock(t *testing.T) {
	store := newFakeStore()
	clock := newManualClock()
	m := newTestManager(store, clock, Timings{
		SessionDuration: 30 * time.Minute,
		IdleTimeout:     2 * time.Second,
		TickInterval:    time.Second,
	})

	_, err := m.Start(context.Background())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		clock.Advance(time.Second)
		m.LogActivity("navigation", nil)
		m.tick()
	}
	assert.True(t, m.IsActive(), "constant activity must hold off the idle timeout")
}

func TestSimultaneousExpiryFinalizesOnce(t *testing.T) {
	store := newFakeStore()
	clock := newManualClock()
	m := newTestManager(store, clock, Timings{
		SessionDuration: 2 * time.Second,
		IdleTimeout:     2 * time.Second,
		TickInterval:    time.Second,
	})

	_, err := m.Start(context.Background())
	require.NoError(t, err)

	clock.Advance(time.Second)
	m.tick()
	clock.Advance(time.Second)
	m.tick()
	assert.False(t, m.IsActive())

	p := store.waitFinalize(t)

	var timeoutEntries []string
	for _, rec := range p.ActivityLog {
		if rec.Activity == models.ActivityTimeoutDuration || rec.Activity == models.ActivityTimeoutIdle {
			timeoutEntries = append(timeoutEntries, rec.Activity)
		}
	}
	require.Len(t, timeoutEntries, 1, "exactly one timeout entry on a simultaneous expiry")
	assert.Equal(t, models.ActivityTimeoutDuration, timeoutEntries[0], "duration check runs first")

	// Further ticks and ends must not finalize again.
	clock.Advance(time.Second)
	m.tick()
	require.NoError(t, m.End(context.Background()))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, store.finalizeCount())
}

func TestEndTwiceIssuesOneFinalize(t *testing.T) {
	store := newFakeStore()
	clock := newManualClock()
	m := newTestManager(store, clock, defaultTimings())

	_, err := m.Start(context.Background())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		m.tick()
	}

	require.NoError(t, m.End(context.Background()))
	p := store.waitFinalize(t)
	assert.Equal(t, 5, p.DurationSeconds)

	require.NoError(t, m.End(context.Background()), "second end must be a no-op")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, store.finalizeCount())
}

func TestFinalizeFailureDoesNotBlockTeardown(t *testing.T) {
	store := newFakeStore()
	store.finalizeErr = errors.New("store unavailable")
	m := newTestManager(store, newManualClock(), defaultTimings())

	id, err := m.Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.End(context.Background()))
	assert.False(t, m.IsActive(), "local teardown must not wait on the store")

	select {
	case res := <-m.FlushResults():
		assert.Equal(t, id, res.SessionID)
		assert.Error(t, res.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for flush result")
	}
}

func TestLogActivityAfterEndIsNoOp(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store, newManualClock(), defaultTimings())

	_, err := m.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.End(context.Background()))
	store.waitFinalize(t)

	// A debounced kiosk event arriving after teardown must not panic or
	// resurrect state.
	m.LogActivity("navigation", nil)
	assert.Empty(t, m.ActivityLog())
	assert.False(t, m.IsActive())
}

func TestIdleExampleScenario(t *testing.T) {
	// start() at t=0 with a 30-minute budget and 10-minute idle
	// threshold; activity at t=9:59 resets the idle clock; at t=19:59
	// the idle timeout fires with duration 1199s.
	store := newFakeStore()
	clock := newManualClock()
	m := newTestManager(store, clock, defaultTimings())

	_, err := m.Start(context.Background())
	require.NoError(t, err)

	for i := 1; i <= 1199; i++ {
		clock.Advance(time.Second)
		if i == 599 {
			m.LogActivity("navigation", nil)
		}
		m.tick()
		if i < 1199 {
			require.True(t, m.IsActive(), "session ended early at tick %d", i)
		}
	}

	assert.False(t, m.IsActive())
	p := store.waitFinalize(t)
	assert.Equal(t, 1199, p.DurationSeconds)
	assert.Equal(t, models.ActivityTimeoutIdle, p.ActivityLog[len(p.ActivityLog)-1].Activity)
}

func TestSessionIDObservable(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store, newManualClock(), defaultTimings())

	_, ok := m.SessionID()
	assert.False(t, ok)

	id, err := m.Start(context.Background())
	require.NoError(t, err)

	got, ok := m.SessionID()
	require.True(t, ok)
	assert.Equal(t, id, got)

	require.NoError(t, m.End(context.Background()))
	got, ok = m.SessionID()
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, got)
}

func TestRegistryHandsOutIndependentManagers(t *testing.T) {
	store := newFakeStore()
	reg := NewRegistry(func() *Manager {
		return newTestManager(store, newManualClock(), defaultTimings())
	})

	a := reg.Manager("kiosk-1")
	b := reg.Manager("kiosk-2")
	require.NotSame(t, a, b)
	assert.Same(t, a, reg.Manager("kiosk-1"))

	_, err := a.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, a.IsActive())
	assert.False(t, b.IsActive(), "sessions must not leak across kiosks")
}

func TestRegistryEndAll(t *testing.T) {
	store := newFakeStore()
	reg := NewRegistry(func() *Manager {
		return newTestManager(store, newManualClock(), defaultTimings())
	})

	for i := 0; i < 3; i++ {
		_, err := reg.Manager(fmt.Sprintf("kiosk-%d", i)).Start(context.Background())
		require.NoError(t, err)
	}

	reg.EndAll(context.Background())
	for i := 0; i < 3; i++ {
		assert.False(t, reg.Manager(fmt.Sprintf("kiosk-%d", i)).IsActive())
		store.waitFinalize(t)
	}
}
