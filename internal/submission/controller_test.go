package submission

//go:generate mockgen -source=controller.go -destination=mocks/mocks.go -package=mocks ParticipantStore,ConfirmationSender,Drafts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	testclock "k8s.io/utils/clock/testing"

	"github.com/Shivanand-hulikatti/event-registration/internal/draft"
	"github.com/Shivanand-hulikatti/event-registration/internal/gate"
	"github.com/Shivanand-hulikatti/event-registration/internal/kv"
	"github.com/Shivanand-hulikatti/event-registration/internal/model"
	"github.com/Shivanand-hulikatti/event-registration/internal/notify"
	"github.com/Shivanand-hulikatti/event-registration/internal/repository"
	"github.com/Shivanand-hulikatti/event-registration/internal/submission/mocks"
)

var arjun = model.Draft{
	FullName: "Arjun Narayanan",
	Email:    "arjun.n@test.edu",
	College:  "X",
	Phone:    "+919999999999",
}

// =============================================================================
// Controller Test Suite
// =============================================================================
// The participant store and the confirmation sender are mocked; the draft
// store runs over the in-memory key-value backend so persisted slots can be
// inspected directly.

type ControllerSuite struct {
	suite.Suite
	ctx        context.Context
	ctrl       *gomock.Controller
	mockStore  *mocks.MockParticipantStore
	mockSender *mocks.MockConfirmationSender
	drafts     *draft.Store
	inbox      *notify.Inbox
	clock      *testclock.FakeClock
	logger     *slog.Logger
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockParticipantStore(s.ctrl)
	s.mockSender = mocks.NewMockConfirmationSender(s.ctrl)
	s.drafts = draft.New(kv.NewMemory(0), "device-1")
	s.inbox = notify.NewInbox()
	s.clock = testclock.NewFakeClock(time.Date(2026, 2, 5, 10, 0, 0, 0, time.UTC))
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *ControllerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ControllerSuite) newController(opts ...Option) *Controller {
	form := NewForm(s.ctx, s.drafts)
	base := []Option{
		WithClock(s.clock),
		WithLogger(s.logger),
		WithSender(s.mockSender),
	}
	c, err := New(form, s.drafts, s.mockStore, s.inbox, append(base, opts...)...)
	s.Require().NoError(err)
	return c
}

func (s *ControllerSuite) fill(c *Controller, d model.Draft) {
	_, err := c.Edit(s.ctx, d)
	s.Require().NoError(err)
}

func (s *ControllerSuite) saved(d model.Draft) *model.Participant {
	p := model.NewParticipant(d)
	p.ID = "11111111-2222-3333-4444-555555555555"
	p.CreatedAt = s.clock.Now()
	return p
}

func (s *ControllerSuite) onlyNotification() model.Notification {
	notes := s.inbox.List()
	s.Require().Len(notes, 1)
	return notes[0]
}

func (s *ControllerSuite) TestNew() {
	form := NewForm(s.ctx, s.drafts)

	s.Run("nil form returns error", func() {
		_, err := New(nil, s.drafts, s.mockStore, s.inbox)
		s.ErrorContains(err, "form is required")
	})

	s.Run("nil drafts returns error", func() {
		_, err := New(form, nil, s.mockStore, s.inbox)
		s.ErrorContains(err, "draft store is required")
	})

	s.Run("nil store returns error", func() {
		_, err := New(form, s.drafts, nil, s.inbox)
		s.ErrorContains(err, "participant store is required")
	})

	s.Run("nil sink returns error", func() {
		_, err := New(form, s.drafts, s.mockStore, nil)
		s.ErrorContains(err, "notification sink is required")
	})

	s.Run("defaults to an always open gate", func() {
		c, err := New(form, s.drafts, s.mockStore, s.inbox)
		s.Require().NoError(err)
		s.Equal(gate.Always{}, c.gate)
		s.Equal(StateIdle, c.State())
	})
}

// =============================================================================
// Rejections before optimistic completion
// =============================================================================

func (s *ControllerSuite) TestSubmit_GateClosed() {
	g := gate.Deadline{ClosesAt: s.clock.Now().Add(time.Minute)}
	c := s.newController(WithGate(g))
	s.fill(c, arjun)

	s.clock.Step(2 * time.Minute)
	_, err := c.Submit(s.ctx)

	s.ErrorIs(err, ErrGateClosed)
	s.Equal(StateIdle, c.State())
	s.Equal(arjun, c.Form().Fields(), "typed data is kept")
	_, pending := s.drafts.LoadPending(s.ctx)
	s.False(pending)
	c.Wait()
	s.Empty(s.inbox.List())
}

func (s *ControllerSuite) TestSubmit_Validation() {
	cases := []struct {
		name  string
		draft model.Draft
		field string
	}{
		{"invalid email", model.Draft{FullName: "A", Email: "not-an-email", College: "X", Phone: "1"}, "email"},
		{"email without domain dot", model.Draft{FullName: "A", Email: "a@localhost", College: "X", Phone: "1"}, "email"},
		{"missing name", model.Draft{Email: "a@test.edu", College: "X", Phone: "1"}, "fullName"},
		{"missing college", model.Draft{FullName: "A", Email: "a@test.edu", Phone: "1"}, "college"},
		{"missing phone", model.Draft{FullName: "A", Email: "a@test.edu", College: "X", Phone: "--"}, "phone"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.drafts.Clear(s.ctx)
			c := s.newController()
			s.fill(c, tc.draft)
			before := c.Form().Fields()

			_, err := c.Submit(s.ctx)

			var verr *ValidationError
			s.Require().ErrorAs(err, &verr)
			s.Equal(tc.field, verr.Field)
			s.Equal(StateIdle, c.State())
			s.Equal(before, c.Form().Fields(), "form must not be cleared")
			c.Wait()
		})
	}
}

// =============================================================================
// Optimistic completion and reconciliation
// =============================================================================

func (s *ControllerSuite) TestSubmit_SignalsSuccessBeforeLookupResolves() {
	var (
		mu     sync.Mutex
		events []string
	)
	record := func(e string) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}

	release := make(chan struct{})
	s.mockStore.EXPECT().FindByEmail(gomock.Any(), arjun.Email).
		DoAndReturn(func(context.Context, string) (*model.Participant, error) {
			<-release
			record("lookup resolved")
			return nil, repository.ErrNotFound
		})
	s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(s.saved(arjun), nil)
	s.mockSender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

	c := s.newController(WithOnComplete(func(model.Draft) { record("optimistic success") }))
	s.fill(c, arjun)

	snapshot, err := c.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal(arjun, snapshot)
	s.Equal(model.Draft{}, c.Form().Fields(), "form is reset optimistically")

	pending, ok := s.drafts.LoadPending(s.ctx)
	s.Require().True(ok)
	s.Equal(arjun, pending)

	close(release)
	c.Wait()

	s.Equal([]string{"optimistic success", "lookup resolved"}, events)
}

func (s *ControllerSuite) TestReconcile_Confirmed() {
	rec := s.saved(arjun)
	gomock.InOrder(
		s.mockStore.EXPECT().FindByEmail(gomock.Any(), arjun.Email).Return(nil, repository.ErrNotFound),
		s.mockStore.EXPECT().Insert(gomock.Any(), model.NewParticipant(arjun)).Return(rec, nil),
		s.mockSender.EXPECT().Send(gomock.Any(), *rec).Return(nil),
	)

	c := s.newController()
	s.fill(c, arjun)
	_, err := c.Submit(s.ctx)
	s.Require().NoError(err)
	c.Wait()

	s.Equal(StateConfirmed, c.State())
	outcome, ok := c.LastOutcome()
	s.Require().True(ok)
	s.Equal(model.OutcomeSuccess, outcome.Kind)
	s.NoError(Err(outcome))

	_, hasDraft := s.drafts.Load(s.ctx)
	_, hasPending := s.drafts.LoadPending(s.ctx)
	s.False(hasDraft)
	s.False(hasPending)

	note := s.onlyNotification()
	s.Equal(model.NotifySuccess, note.Kind)
	s.Contains(note.Message, "Arjun Narayanan")
	s.False(note.Retryable)
}

func (s *ControllerSuite) TestReconcile_SenderFailureStillConfirms() {
	rec := s.saved(arjun)
	s.mockStore.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, repository.ErrNotFound)
	s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(rec, nil)
	s.mockSender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

	c := s.newController()
	s.fill(c, arjun)
	_, err := c.Submit(s.ctx)
	s.Require().NoError(err)
	c.Wait()

	s.Equal(StateConfirmed, c.State())
	s.Equal(model.NotifySuccess, s.onlyNotification().Kind)
}

func (s *ControllerSuite) TestReconcile_DuplicateNeverInserts() {
	s.mockStore.EXPECT().FindByEmail(gomock.Any(), arjun.Email).Return(s.saved(arjun), nil)
	s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)

	c := s.newController()
	s.fill(c, arjun)
	_, err := c.Submit(s.ctx)
	s.Require().NoError(err)
	c.Wait()

	s.Equal(StateReverted, c.State())
	s.Equal(arjun, c.Form().Fields(), "snapshot restored verbatim")

	d, ok := s.drafts.Load(s.ctx)
	s.Require().True(ok, "draft kept for reload")
	s.Equal(arjun, d)
	_, hasPending := s.drafts.LoadPending(s.ctx)
	s.False(hasPending)

	note := s.onlyNotification()
	s.Equal(model.NotifyError, note.Kind)
	s.Equal(MsgDuplicateEmail, note.Message)
	s.False(note.Retryable)

	outcome, _ := c.LastOutcome()
	s.ErrorIs(Err(outcome), ErrDuplicateEmail)
}

func (s *ControllerSuite) TestReconcile_UniqueViolationIsDuplicate() {
	s.mockStore.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, repository.ErrNotFound)
	s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("insert participant: %w", repository.ErrAlreadyRegistered))

	c := s.newController()
	s.fill(c, arjun)
	_, err := c.Submit(s.ctx)
	s.Require().NoError(err)
	c.Wait()

	note := s.onlyNotification()
	s.Equal(MsgDuplicateEmail, note.Message)
	s.False(note.Retryable)
	s.Equal(arjun, c.Form().Fields())
}

func (s *ControllerSuite) TestReconcile_RemoteErrorOffersRetry() {
	s.mockStore.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, repository.ErrNotFound)
	s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil, errors.New("permission denied for table participants"))

	c := s.newController()
	s.fill(c, arjun)
	_, err := c.Submit(s.ctx)
	s.Require().NoError(err)
	c.Wait()

	note := s.onlyNotification()
	s.Equal(MsgRemoteError, note.Message)
	s.True(note.Retryable)

	outcome, _ := c.LastOutcome()
	s.Equal(model.OutcomeRemoteError, outcome.Kind)
	s.ErrorIs(Err(outcome), ErrRemoteWrite)
}

func (s *ControllerSuite) TestReconcile_NetworkErrorRetryUsesSnapshot() {
	transport := fmt.Errorf("insert participant: %w: %w", repository.ErrUnavailable, errors.New("connection refused"))
	rec := s.saved(arjun)

	gomock.InOrder(
		s.mockStore.EXPECT().FindByEmail(gomock.Any(), arjun.Email).Return(nil, repository.ErrNotFound),
		s.mockStore.EXPECT().Insert(gomock.Any(), model.NewParticipant(arjun)).Return(nil, transport),
		s.mockStore.EXPECT().FindByEmail(gomock.Any(), arjun.Email).Return(nil, repository.ErrNotFound),
		s.mockStore.EXPECT().Insert(gomock.Any(), model.NewParticipant(arjun)).Return(rec, nil),
	)
	s.mockSender.EXPECT().Send(gomock.Any(), *rec).Return(nil)

	c := s.newController()
	s.fill(c, arjun)
	_, err := c.Submit(s.ctx)
	s.Require().NoError(err)
	c.Wait()

	note := s.onlyNotification()
	s.Equal(MsgNetworkError, note.Message)
	s.True(note.Retryable)
	outcome, _ := c.LastOutcome()
	s.ErrorIs(Err(outcome), ErrNetwork)

	// The visitor edits the restored form before retrying; the retry still
	// sends the original snapshot.
	s.fill(c, model.Draft{FullName: "Someone Else", Email: "else@test.edu", College: "Y", Phone: "1"})

	s.Require().NoError(s.inbox.Retry(note.ID))
	c.Wait()

	s.Equal(StateConfirmed, c.State())
	s.ErrorIs(s.inbox.Retry(note.ID), notify.ErrNotFound, "retry runs at most once")

	notes := s.inbox.List()
	s.Require().Len(notes, 1)
	s.Contains(notes[0].Message, "Arjun Narayanan")
}

func (s *ControllerSuite) TestReconcile_LookupTimeoutIsNetworkError() {
	s.mockStore.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("find participant: %w", context.DeadlineExceeded))
	s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)

	c := s.newController()
	s.fill(c, arjun)
	_, err := c.Submit(s.ctx)
	s.Require().NoError(err)
	c.Wait()

	outcome, _ := c.LastOutcome()
	s.Equal(model.OutcomeNetworkError, outcome.Kind)
	s.True(s.onlyNotification().Retryable)
}

func (s *ControllerSuite) TestConfirm_KeepsValuesTypedDuringReconciliation() {
	release := make(chan struct{})
	s.mockStore.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string) (*model.Participant, error) {
			<-release
			return nil, repository.ErrNotFound
		})
	s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(s.saved(arjun), nil)
	s.mockSender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

	c := s.newController()
	s.fill(c, arjun)
	_, err := c.Submit(s.ctx)
	s.Require().NoError(err)

	next := model.Draft{FullName: "Meera", Email: "meera@test.edu"}
	s.fill(c, next)
	close(release)
	c.Wait()

	s.Equal(next, c.Form().Fields())
	d, ok := s.drafts.Load(s.ctx)
	s.Require().True(ok)
	s.Equal(next, d)
}

func (s *ControllerSuite) TestEdit() {
	s.Run("sanitizes phone", func() {
		c := s.newController()
		got, err := c.Edit(s.ctx, model.Draft{Phone: "+91 (999) 999-9999"})
		s.Require().NoError(err)
		s.Equal("+919999999999", got.Phone)
	})

	s.Run("refused while gate closed", func() {
		s.drafts.Clear(s.ctx)
		g := gate.Deadline{ClosesAt: s.clock.Now().Add(time.Second)}
		c := s.newController(WithGate(g))
		s.fill(c, arjun)

		s.clock.Step(time.Minute)
		got, err := c.Edit(s.ctx, model.Draft{FullName: "changed"})
		s.ErrorIs(err, ErrGateClosed)
		s.Equal(arjun, got)
	})

	s.Run("clear empties form and draft", func() {
		c := s.newController()
		s.fill(c, arjun)
		c.Clear(s.ctx)
		s.Equal(model.Draft{}, c.Form().Fields())
		_, ok := s.drafts.Load(s.ctx)
		s.False(ok)
	})
}

// Two submissions of the same email against a real store: the second is
// rejected as a duplicate and its three visible fields come back verbatim.
func TestController_SameEmailTwice(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	drafts := draft.New(kv.NewMemory(0), "device-1")
	inbox := notify.NewInbox()
	c, err := New(NewForm(ctx, drafts), drafts, store, inbox, WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Edit(ctx, arjun); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Submit(ctx); err != nil {
		t.Fatal(err)
	}
	c.Wait()
	if c.State() != StateConfirmed {
		t.Fatalf("first submission: got state %s", c.State())
	}

	second := model.Draft{FullName: "Arjun N", Email: "ARJUN.N@test.edu", College: "Y", Phone: "+91"}
	if _, err := c.Edit(ctx, second); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Submit(ctx); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	if c.State() != StateReverted {
		t.Fatalf("second submission: got state %s", c.State())
	}
	if got := c.Form().Fields(); got != second {
		t.Fatalf("form not restored: got %+v", got)
	}
	notes := inbox.List()
	last := notes[len(notes)-1]
	if last.Message != MsgDuplicateEmail || last.Retryable {
		t.Fatalf("unexpected notification %+v", last)
	}
	all, _ := store.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected one stored participant, got %d", len(all))
	}
}
