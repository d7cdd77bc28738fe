// Package session keeps the registration state of each visitor device: its
// visible form, persisted drafts, notifications and submission controller.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"k8s.io/utils/clock"

	"github.com/Shivanand-hulikatti/event-registration/internal/draft"
	"github.com/Shivanand-hulikatti/event-registration/internal/gate"
	"github.com/Shivanand-hulikatti/event-registration/internal/kv"
	"github.com/Shivanand-hulikatti/event-registration/internal/metrics"
	"github.com/Shivanand-hulikatti/event-registration/internal/model"
	"github.com/Shivanand-hulikatti/event-registration/internal/notify"
	"github.com/Shivanand-hulikatti/event-registration/internal/submission"
)

// DefaultIdleTimeout is how long an untouched session stays in memory.
// Persisted drafts outlive it.
const DefaultIdleTimeout = 30 * time.Minute

// MsgRecovered is shown when a device returns with a submission that never
// reached a terminal state.
const MsgRecovered = "Your previous registration may not have completed. Please review your details and submit again."

// Session is the registration state of one device.
type Session struct {
	DeviceID   string
	Controller *submission.Controller
	Inbox      *notify.Inbox
}

// Manager creates sessions on first use and expires idle ones.
type Manager struct {
	kv        kv.Store
	store     submission.ParticipantStore
	gate      gate.Gate
	clock     clock.PassiveClock
	sender    submission.ConfirmationSender
	metrics   *metrics.Metrics
	logger    *slog.Logger
	namespace string

	mu       sync.Mutex
	sessions *cache.Cache
	inflight sync.WaitGroup
}

type Option func(*Manager)

func WithGate(g gate.Gate) Option {
	return func(m *Manager) {
		m.gate = g
	}
}

func WithClock(clk clock.PassiveClock) Option {
	return func(m *Manager) {
		m.clock = clk
	}
}

func WithSender(s submission.ConfirmationSender) Option {
	return func(m *Manager) {
		m.sender = s
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		m.namespace = namespace
	}
}

// WithIdleTimeout overrides DefaultIdleTimeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.sessions = cache.New(d, d/2)
		}
	}
}

// NewManager creates a Manager persisting drafts in store kvs and
// reconciling against participants.
func NewManager(kvs kv.Store, participants submission.ParticipantStore, opts ...Option) (*Manager, error) {
	if kvs == nil {
		return nil, fmt.Errorf("key-value store is required")
	}
	if participants == nil {
		return nil, fmt.Errorf("participant store is required")
	}

	m := &Manager{
		kv:        kvs,
		store:     participants,
		gate:      gate.Always{},
		clock:     clock.RealClock{},
		logger:    slog.Default(),
		namespace: draft.DefaultNamespace,
		sessions:  cache.New(DefaultIdleTimeout, DefaultIdleTimeout/2),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Get returns the session of deviceID, creating it when absent. Every call
// extends the session's idle deadline.
func (m *Manager) Get(ctx context.Context, deviceID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.sessions.Get(deviceID); ok {
		s := v.(*Session)
		m.sessions.SetDefault(deviceID, s)
		return s, nil
	}

	s, err := m.mount(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	m.sessions.SetDefault(deviceID, s)
	return s, nil
}

// mount restores a device from its persisted slots. A leftover pending
// snapshot means a reconciliation was abandoned: it is put back in the
// form for review and never resubmitted automatically.
func (m *Manager) mount(ctx context.Context, deviceID string) (*Session, error) {
	drafts := draft.New(m.kv, deviceID,
		draft.WithNamespace(m.namespace),
		draft.WithLogger(m.logger.With("device_id", deviceID)),
	)
	inbox := notify.NewInbox()
	form := submission.NewForm(ctx, drafts)

	if pending, ok := drafts.LoadPending(ctx); ok {
		if form.Fields().IsEmpty() {
			form.Update(ctx, pending)
		}
		drafts.ClearPending(ctx)
		m.logger.Warn("restored abandoned submission", "device_id", deviceID)
		inbox.Notify(model.NotifyWarning, MsgRecovered, nil)
	}

	ctrl, err := submission.New(form, drafts, m.store, inbox,
		submission.WithGate(m.gate),
		submission.WithClock(m.clock),
		submission.WithSender(m.sender),
		submission.WithMetrics(m.metrics),
		submission.WithLogger(m.logger.With("device_id", deviceID)),
		submission.WithInflight(&m.inflight),
	)
	if err != nil {
		return nil, fmt.Errorf("create controller: %w", err)
	}
	return &Session{DeviceID: deviceID, Controller: ctrl, Inbox: inbox}, nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	return m.sessions.ItemCount()
}

// Wait blocks until every background reconciliation has finished.
func (m *Manager) Wait() {
	m.inflight.Wait()
}
