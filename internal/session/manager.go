// Package session implements the kiosk session lifecycle: a dual-timer
// state machine bounding every anonymous usage window by a fixed session
// budget and an idle-inactivity threshold, with an append-only activity
// log flushed to the store when the session ends.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/genepreston69/uplift-frame/internal/logging"
	"github.com/genepreston69/uplift-frame/internal/models"
)

// ErrSessionActive is returned by Start while a session is already
// running. The running session's timers are left untouched.
var ErrSessionActive = errors.New("a session is already active")

// StoreError wraps a failure reported by the session store adapter.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "session store " + e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// Reasons a session finalizes.
const (
	ReasonExplicitEnd     = "explicit_end"
	ReasonDurationExpired = "duration_expired"
	ReasonIdleTimeout     = "idle_timeout"
)

// Store is the persistence boundary the state machine depends on.
// CreateSession is synchronous: a failure blocks entry to Active.
// FinalizeSession is best-effort: the manager never waits on it.
type Store interface {
	CreateSession(ctx context.Context) (uuid.UUID, error)
	FinalizeSession(ctx context.Context, p FinalizeParams) error
}

type FinalizeParams struct {
	ID              uuid.UUID               `json:"id"`
	EndTime         time.Time               `json:"end_time"`
	DurationSeconds int                     `json:"duration_seconds"`
	ActivityLog     []models.ActivityRecord `json:"activity_log"`
}

// Notifier receives timer updates for display surfaces (the kiosk
// countdown). Calls are made outside the manager's lock.
type Notifier interface {
	SessionTick(id uuid.UUID, remaining time.Duration)
	SessionEnded(id uuid.UUID, reason string)
}

type noopNotifier struct{}

func (noopNotifier) SessionTick(uuid.UUID, time.Duration) {}
func (noopNotifier) SessionEnded(uuid.UUID, string)       {}

// FlushResult reports the outcome of one asynchronous finalize flush.
type FlushResult struct {
	SessionID uuid.UUID
	Err       error
}

type Timings struct {
	SessionDuration time.Duration
	IdleTimeout     time.Duration
	TickInterval    time.Duration
}

// Manager is one kiosk's session state machine. All mutable session
// state lives behind a single mutex; ticks and HTTP-triggered calls
// serialize on it, which makes finalization idempotent by construction.
type Manager struct {
	store    Store
	clock    Clock
	notifier Notifier
	logger   zerolog.Logger
	timings  Timings

	mu           sync.Mutex
	id           uuid.UUID
	active       bool
	remaining    time.Duration
	lastActivity time.Time
	activityLog  []models.ActivityRecord
	stopTick     chan struct{}

	flushResults chan FlushResult
}

func NewManager(store Store, clock Clock, notifier Notifier, logger zerolog.Logger, timings Timings) *Manager {
	if clock == nil {
		clock = NewClock()
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Manager{
		store:        store,
		clock:        clock,
		notifier:     notifier,
		logger:       logger.With().Str(logging.FieldComponent, "session").Logger(),
		timings:      timings,
		flushResults: make(chan FlushResult, 16),
	}
}

// Start creates a session record and transitions to Active. It rejects
// with ErrSessionActive while a session is running and surfaces a
// StoreError, staying Inactive, when the store rejects the create.
func (m *Manager) Start(ctx context.Context) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active {
		return uuid.Nil, ErrSessionActive
	}

	id, err := m.store.CreateSession(ctx)
	if err != nil {
		return uuid.Nil, &StoreError{Op: "create", Err: err}
	}

	now := m.clock.Now()
	m.id = id
	m.active = true
	m.remaining = m.timings.SessionDuration
	m.lastActivity = now
	m.activityLog = nil
	m.appendLocked(models.ActivitySessionStarted, nil)

	m.stopTick = make(chan struct{})
	go m.run(m.clock.NewTicker(m.timings.TickInterval), m.stopTick)

	m.logger.Info().
		Str(logging.FieldSessionID, id.String()).
		Dur("session_duration", m.timings.SessionDuration).
		Msg("session started")

	return id, nil
}

// LogActivity appends a record to the audit trail and resets the idle
// clock. Calls on an inactive session are a silent no-op: kiosk event
// handlers routinely fire just after a timeout has torn the session down.
func (m *Manager) LogActivity(activity string, details map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return
	}

	m.appendLocked(activity, details)
	m.lastActivity = m.clock.Now()

	m.logger.Debug().
		Str(logging.FieldSessionID, m.id.String()).
		Str(logging.FieldActivity, activity).
		Msg("activity logged")
}

// End finalizes the running session. Calling it while inactive is a
// no-op; no second finalize is issued.
func (m *Manager) End(ctx context.Context) error {
	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return nil
	}

	id := m.id
	m.finalizeLocked(ReasonExplicitEnd)
	m.mu.Unlock()

	m.notifier.SessionEnded(id, ReasonExplicitEnd)
	return nil
}

// SessionID reports the running session's id, if any.
func (m *Manager) SessionID() (uuid.UUID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, m.active
}

func (m *Manager) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// TimeRemaining reports the unconsumed session budget.
func (m *Manager) TimeRemaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return 0
	}
	return m.remaining
}

// ActivityLog returns a snapshot of the audit trail so far.
func (m *Manager) ActivityLog() []models.ActivityRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ActivityRecord, len(m.activityLog))
	copy(out, m.activityLog)
	return out
}

// FlushResults exposes the outcomes of asynchronous finalize flushes.
// Observing it is optional; results are dropped once the buffer fills.
func (m *Manager) FlushResults() <-chan FlushResult {
	return m.flushResults
}

func (m *Manager) run(ticker Ticker, stop chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			m.tick()
		}
	}
}

// tick advances the state machine by one interval. The duration check
// runs before the idle check; when both thresholds are crossed on the
// same tick the session still finalizes exactly once, as a duration
// expiry.
func (m *Manager) tick() {
	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return
	}

	m.remaining -= m.timings.TickInterval
	idleFor := m.clock.Now().Sub(m.lastActivity)

	switch {
	case m.remaining <= 0:
		m.remaining = 0
		m.appendLocked(models.ActivityTimeoutDuration, nil)
		id := m.id
		m.finalizeLocked(ReasonDurationExpired)
		m.mu.Unlock()
		m.notifier.SessionEnded(id, ReasonDurationExpired)

	case idleFor >= m.timings.IdleTimeout:
		m.appendLocked(models.ActivityTimeoutIdle, nil)
		id := m.id
		m.finalizeLocked(ReasonIdleTimeout)
		m.mu.Unlock()
		m.notifier.SessionEnded(id, ReasonIdleTimeout)

	default:
		id, remaining := m.id, m.remaining
		m.mu.Unlock()
		m.notifier.SessionTick(id, remaining)
	}
}

func (m *Manager) appendLocked(activity string, details map[string]interface{}) {
	m.activityLog = append(m.activityLog, models.ActivityRecord{
		Timestamp: m.clock.Now(),
		Activity:  activity,
		Details:   details,
	})
}

// finalizeLocked closes the session exactly once: it computes the
// consumed budget, snapshots the log, clears all local state so the
// kiosk screen can be wiped immediately, and hands persistence to the
// store without waiting on it. Must be called with the mutex held.
func (m *Manager) finalizeLocked(reason string) {
	params := FinalizeParams{
		ID:              m.id,
		EndTime:         m.clock.Now(),
		DurationSeconds: int((m.timings.SessionDuration - m.remaining) / time.Second),
		ActivityLog:     m.activityLog,
	}

	m.id = uuid.Nil
	m.active = false
	m.remaining = 0
	m.activityLog = nil
	if m.stopTick != nil {
		close(m.stopTick)
		m.stopTick = nil
	}

	m.logger.Info().
		Str(logging.FieldSessionID, params.ID.String()).
		Str(logging.FieldReason, reason).
		Int("duration_seconds", params.DurationSeconds).
		Int("activity_records", len(params.ActivityLog)).
		Msg("session ended")

	// Detached from any caller context: a backend outage must never keep
	// resident data on the screen.
	go func() {
		err := m.store.FinalizeSession(context.Background(), params)
		if err != nil {
			m.logger.Error().
				Err(err).
				Str(logging.FieldSessionID, params.ID.String()).
				Msg("session finalize flush failed")
		}
		select {
		case m.flushResults <- FlushResult{SessionID: params.ID, Err: err}:
		default:
		}
	}()
}
