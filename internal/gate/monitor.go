package gate

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"k8s.io/utils/clock"

	"github.com/Shivanand-hulikatti/event-registration/internal/pubsub"
)

// DefaultPollInterval is how often a Monitor re-evaluates its gate.
const DefaultPollInterval = 60 * time.Second

// Monitor re-evaluates a Gate on a fixed interval and exposes the result as
// a single observable value, so a gate closing while a form is open takes
// effect without a reload.
type Monitor struct {
	gate     Gate
	clock    clock.WithTicker
	interval time.Duration
	logger   *slog.Logger
	open     atomic.Bool
	broker   *pubsub.Broker[bool]
}

type MonitorOption func(*Monitor)

func WithClock(clk clock.WithTicker) MonitorOption {
	return func(m *Monitor) {
		m.clock = clk
	}
}

func WithPollInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

func WithLogger(logger *slog.Logger) MonitorOption {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// NewMonitor evaluates g once immediately.
func NewMonitor(g Gate, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		gate:     g,
		clock:    clock.RealClock{},
		interval: DefaultPollInterval,
		logger:   slog.Default(),
		broker:   pubsub.NewBroker[bool](),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.open.Store(g.IsOpen(m.clock.Now()))
	return m
}

// Run polls until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()
	defer m.broker.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			m.Refresh()
		}
	}
}

// Refresh re-evaluates the gate now and publishes a change.
func (m *Monitor) Refresh() bool {
	open := m.gate.IsOpen(m.clock.Now())
	if m.open.Swap(open) != open {
		m.logger.Info("registration gate changed", "open", open)
		m.broker.Publish(open)
	}
	return open
}

// Open returns the last evaluated state.
func (m *Monitor) Open() bool {
	return m.open.Load()
}

// IsOpen evaluates the underlying gate directly.
func (m *Monitor) IsOpen(now time.Time) bool {
	return m.gate.IsOpen(now)
}

// Now returns the monitor's clock reading.
func (m *Monitor) Now() time.Time {
	return m.clock.Now()
}

// Subscribe streams state changes until ctx is done.
func (m *Monitor) Subscribe(ctx context.Context) <-chan pubsub.Event[bool] {
	return m.broker.Subscribe(ctx)
}

// SubscriberCount returns the number of live subscriptions.
func (m *Monitor) SubscriberCount() int {
	return m.broker.SubscriberCount()
}
