// Package submission implements the registration flow of one visitor:
// optimistic completion followed by background reconciliation against the
// participant store.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/utils/clock"

	"github.com/Shivanand-hulikatti/event-registration/internal/gate"
	"github.com/Shivanand-hulikatti/event-registration/internal/metrics"
	"github.com/Shivanand-hulikatti/event-registration/internal/model"
	"github.com/Shivanand-hulikatti/event-registration/internal/notify"
	"github.com/Shivanand-hulikatti/event-registration/internal/repository"
)

var (
	ErrGateClosed     = errors.New("registration is closed")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrRemoteWrite    = errors.New("remote write failed")
	ErrNetwork        = errors.New("network failure")
)

const (
	MsgDuplicateEmail = "This email is already registered."
	MsgRemoteError    = "Failed to register. Please try again."
	MsgNetworkError   = "We could not reach the registration server. Please try again."
)

// State is a step of the submission state machine.
type State string

const (
	StateIdle                   State = "idle"
	StateValidating             State = "validating"
	StateOptimisticallyComplete State = "optimistically_complete"
	StateReconciling            State = "reconciling"
	StateConfirmed              State = "confirmed"
	StateReverted               State = "reverted"
)

// ParticipantStore is the remote store registrations are reconciled against.
// FindByEmail returns repository.ErrNotFound when no record matches.
type ParticipantStore interface {
	FindByEmail(ctx context.Context, email string) (*model.Participant, error)
	Insert(ctx context.Context, p *model.Participant) (*model.Participant, error)
}

// ConfirmationSender dispatches a confirmation message for a new registration.
type ConfirmationSender interface {
	Send(ctx context.Context, p model.Participant) error
}

// Drafts persists the draft and pending slots of one device.
type Drafts interface {
	Load(ctx context.Context) (model.Draft, bool)
	Save(ctx context.Context, d model.Draft)
	Clear(ctx context.Context)
	LoadPending(ctx context.Context) (model.Draft, bool)
	SavePending(ctx context.Context, snapshot model.Draft)
	ClearPending(ctx context.Context)
}

// Controller runs submissions for one visitor.
type Controller struct {
	form    *Form
	drafts  Drafts
	store   ParticipantStore
	sink    notify.Sink
	gate    gate.Gate
	clock   clock.PassiveClock
	sender  ConfirmationSender
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	inflight   *sync.WaitGroup
	onComplete func(model.Draft)

	mu      sync.Mutex
	state   State
	outcome *model.Outcome
}

type Option func(*Controller)

// WithGate sets the admission gate. Submissions are always admitted without one.
func WithGate(g gate.Gate) Option {
	return func(c *Controller) {
		c.gate = g
	}
}

func WithClock(clk clock.PassiveClock) Option {
	return func(c *Controller) {
		c.clock = clk
	}
}

func WithSender(s ConfirmationSender) Option {
	return func(c *Controller) {
		c.sender = s
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Controller) {
		c.tracer = t
	}
}

// WithInflight tracks background reconciliations on a WaitGroup shared
// with other controllers, so shutdown can drain all of them.
func WithInflight(wg *sync.WaitGroup) Option {
	return func(c *Controller) {
		c.inflight = wg
	}
}

// WithOnComplete registers a hook fired at optimistic completion, before
// any call to the participant store.
func WithOnComplete(fn func(model.Draft)) Option {
	return func(c *Controller) {
		c.onComplete = fn
	}
}

// New creates a Controller.
func New(form *Form, drafts Drafts, store ParticipantStore, sink notify.Sink, opts ...Option) (*Controller, error) {
	if form == nil {
		return nil, fmt.Errorf("form is required")
	}
	if drafts == nil {
		return nil, fmt.Errorf("draft store is required")
	}
	if store == nil {
		return nil, fmt.Errorf("participant store is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("notification sink is required")
	}

	c := &Controller{
		form:     form,
		drafts:   drafts,
		store:    store,
		sink:     sink,
		gate:     gate.Always{},
		clock:    clock.RealClock{},
		logger:   slog.Default(),
		inflight: &sync.WaitGroup{},
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer("registration/submission")
	}
	return c, nil
}

// Form returns the visible form driven by this controller.
func (c *Controller) Form() *Form {
	return c.form
}

// State returns the state of the most recent submission.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastOutcome returns the terminal outcome of the most recent submission.
func (c *Controller) LastOutcome() (model.Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome == nil {
		return model.Outcome{}, false
	}
	return *c.outcome, true
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Edit updates the visible form. Edits are refused while the gate is
// closed; the values already typed are kept.
func (c *Controller) Edit(ctx context.Context, d model.Draft) (model.Draft, error) {
	if !c.gate.IsOpen(c.clock.Now()) {
		return c.form.Fields(), ErrGateClosed
	}
	return c.form.Update(ctx, d), nil
}

// Clear empties the visible form and the persisted draft.
func (c *Controller) Clear(ctx context.Context) {
	c.form.Clear(ctx)
}

// Submit validates the visible form and, on success, completes
// optimistically: the snapshot is persisted as pending, the form is reset
// and the returned snapshot signals success to the caller. Reconciliation
// continues in the background and reports only through the sink.
//
// A closed gate returns ErrGateClosed and a rejected field returns a
// *ValidationError; neither touches the participant store or the form.
func (c *Controller) Submit(ctx context.Context) (model.Draft, error) {
	c.setState(StateValidating)

	if !c.gate.IsOpen(c.clock.Now()) {
		c.setState(StateIdle)
		c.metrics.ObserveOutcome(model.OutcomeWindowClosed)
		return model.Draft{}, ErrGateClosed
	}

	snapshot, err := c.form.take(Validate)
	if err != nil {
		c.setState(StateIdle)
		return model.Draft{}, err
	}

	c.drafts.SavePending(ctx, snapshot)
	c.setState(StateOptimisticallyComplete)
	if c.onComplete != nil {
		c.onComplete(snapshot)
	}

	c.spawn(ctx, snapshot)
	return snapshot, nil
}

// Wait blocks until every background reconciliation tracked by this
// controller's WaitGroup has finished.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// spawn starts a reconciliation detached from the caller's cancellation.
func (c *Controller) spawn(ctx context.Context, snapshot model.Draft) {
	bg := context.WithoutCancel(ctx)
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.reconcile(bg, snapshot)
	}()
}

func (c *Controller) reconcile(ctx context.Context, snapshot model.Draft) {
	ctx, span := c.tracer.Start(ctx, "submission.reconcile",
		trace.WithAttributes(attribute.String("registration.email_domain", emailDomain(snapshot.Email))))
	defer span.End()

	c.setState(StateReconciling)
	start := c.clock.Now()

	outcome := c.check(ctx, snapshot)

	c.metrics.ObserveReconcile(outcome.Kind, c.clock.Since(start))
	span.SetAttributes(attribute.String("registration.outcome", string(outcome.Kind)))
	if outcome.Cause != nil {
		span.RecordError(outcome.Cause)
		span.SetStatus(codes.Error, string(outcome.Kind))
	}

	if outcome.Kind == model.OutcomeSuccess {
		c.confirm(ctx, snapshot, outcome)
		return
	}
	c.revert(ctx, snapshot, outcome)
}

// check performs the duplicate lookup, the insert and the confirmation
// dispatch, in that order.
//
// The lookup and the insert are not atomic. Two submissions with the same
// email can both pass the lookup; the store's unique index rejects the
// second insert and it is reported as a duplicate.
func (c *Controller) check(ctx context.Context, snapshot model.Draft) model.Outcome {
	record := model.NewParticipant(snapshot)

	existing, err := c.store.FindByEmail(ctx, record.Email)
	switch {
	case err == nil && existing != nil:
		return model.DuplicateEmail()
	case err == nil, errors.Is(err, repository.ErrNotFound):
	default:
		return failure("find participant", err)
	}

	saved, err := c.store.Insert(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyRegistered) {
			c.logger.Info("duplicate email rejected at insert", "error", err)
			return model.DuplicateEmail()
		}
		return failure("insert participant", err)
	}

	if c.sender != nil {
		if err := c.sender.Send(ctx, *saved); err != nil {
			c.metrics.IncConfirmationFailures()
			c.logger.Error("failed to send confirmation", "participant_id", saved.ID, "error", err)
		}
	}
	return model.Success(saved)
}

func failure(op string, err error) model.Outcome {
	if errors.Is(err, repository.ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) {
		return model.NetworkError(fmt.Errorf("%s: %w: %w", op, ErrNetwork, err))
	}
	return model.RemoteError(fmt.Errorf("%s: %w: %w", op, ErrRemoteWrite, err))
}

// confirm clears both persisted slots. Values typed into the form after
// the optimistic reset are kept and saved again as the new draft.
func (c *Controller) confirm(ctx context.Context, snapshot model.Draft, outcome model.Outcome) {
	c.clearPendingIf(ctx, snapshot)
	c.drafts.Clear(ctx)
	c.form.resetIf(snapshot)
	if current := c.form.Fields(); !current.IsEmpty() {
		c.drafts.Save(ctx, current)
	}

	c.finish(StateConfirmed, outcome)
	c.logger.Info("registration confirmed", "participant_id", outcome.Record.ID)
	c.sink.Notify(model.NotifySuccess,
		fmt.Sprintf("Registration successful! Welcome aboard, %s.", outcome.Record.Name), nil)
}

// revert restores the snapshot into the form and keeps it as the draft.
// Only remote and network failures offer a retry.
func (c *Controller) revert(ctx context.Context, snapshot model.Draft, outcome model.Outcome) {
	c.form.restore(ctx, snapshot)
	c.clearPendingIf(ctx, snapshot)
	c.finish(StateReverted, outcome)

	var (
		message string
		retry   func()
	)
	switch outcome.Kind {
	case model.OutcomeDuplicateEmail:
		message = MsgDuplicateEmail
		c.logger.Info("registration reverted", "outcome", outcome.Kind)
	case model.OutcomeNetworkError:
		message = MsgNetworkError
		c.logger.Warn("registration reverted", "outcome", outcome.Kind, "error", outcome.Cause)
	default:
		message = MsgRemoteError
		c.logger.Error("registration reverted", "outcome", outcome.Kind, "error", outcome.Cause)
	}
	if outcome.Retryable() {
		retry = func() { c.retry(ctx, snapshot) }
	}
	c.sink.Notify(model.NotifyError, message, retry)
}

// retry re-runs reconciliation with the original snapshot. The gate is
// not checked again: the submission was admitted when it was made.
func (c *Controller) retry(ctx context.Context, snapshot model.Draft) {
	c.metrics.IncRetries()
	c.drafts.SavePending(ctx, snapshot)
	c.setState(StateReconciling)
	c.spawn(ctx, snapshot)
}

func (c *Controller) finish(s State, outcome model.Outcome) {
	c.mu.Lock()
	c.state = s
	c.outcome = &outcome
	c.mu.Unlock()
}

// clearPendingIf leaves a newer submission's snapshot in place.
func (c *Controller) clearPendingIf(ctx context.Context, snapshot model.Draft) {
	if pending, ok := c.drafts.LoadPending(ctx); ok && pending != snapshot {
		return
	}
	c.drafts.ClearPending(ctx)
}

func emailDomain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return strings.ToLower(strings.TrimSpace(email[i+1:]))
	}
	return ""
}

// Err maps an outcome onto the package sentinels. It is nil for success.
func Err(o model.Outcome) error {
	switch o.Kind {
	case model.OutcomeSuccess:
		return nil
	case model.OutcomeDuplicateEmail:
		return ErrDuplicateEmail
	case model.OutcomeWindowClosed:
		return ErrGateClosed
	case model.OutcomeNetworkError:
		if o.Cause != nil {
			return o.Cause
		}
		return ErrNetwork
	default:
		if o.Cause != nil {
			return o.Cause
		}
		return ErrRemoteWrite
	}
}
