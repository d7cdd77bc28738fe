// Package notify delivers transient messages to visitors and dispatches
// confirmation messages to the outside world.
package notify

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/event-registration/internal/model"
)

var (
	// ErrNotFound is returned for unknown or dismissed notification IDs.
	ErrNotFound = errors.New("notification not found")
	// ErrNotRetryable is returned when a notification offers no retry.
	ErrNotRetryable = errors.New("notification has no retry action")
	// ErrRetryUsed is returned when the retry action already ran.
	ErrRetryUsed = errors.New("retry already used")
)

// Sink displays a message, optionally offering a zero-argument retry.
type Sink interface {
	Notify(kind model.NotificationKind, message string, retry func())
}

type entry struct {
	note  model.Notification
	retry func()
	used  atomic.Bool
}

// Inbox keeps the notifications of one visitor until dismissed. It holds
// no state the registration flow depends on.
type Inbox struct {
	mu      sync.Mutex
	entries []*entry
	limit   int
	now     func() time.Time
}

const defaultInboxLimit = 20

// NewInbox creates an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{limit: defaultInboxLimit, now: time.Now}
}

// Notify implements Sink. The oldest notification is dropped once the
// inbox is full.
func (in *Inbox) Notify(kind model.NotificationKind, message string, retry func()) {
	e := &entry{
		note: model.Notification{
			ID:        uuid.NewString(),
			Kind:      kind,
			Message:   message,
			Retryable: retry != nil,
			CreatedAt: in.now().UTC(),
		},
		retry: retry,
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	in.entries = append(in.entries, e)
	if len(in.entries) > in.limit {
		in.entries = in.entries[len(in.entries)-in.limit:]
	}
}

// List returns the current notifications, oldest first.
func (in *Inbox) List() []model.Notification {
	in.mu.Lock()
	defer in.mu.Unlock()

	out := make([]model.Notification, 0, len(in.entries))
	for _, e := range in.entries {
		n := e.note
		n.Retryable = e.retry != nil && !e.used.Load()
		out = append(out, n)
	}
	return out
}

// Dismiss removes a notification.
func (in *Inbox) Dismiss(id string) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	for i, e := range in.entries {
		if e.note.ID == id {
			in.entries = append(in.entries[:i], in.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Retry runs the notification's retry action at most once and removes the
// notification. The action runs outside the inbox lock.
func (in *Inbox) Retry(id string) error {
	in.mu.Lock()
	var target *entry
	for i, e := range in.entries {
		if e.note.ID == id {
			target = e
			if e.retry != nil && !e.used.Load() {
				in.entries = append(in.entries[:i], in.entries[i+1:]...)
			}
			break
		}
	}
	in.mu.Unlock()

	if target == nil {
		return ErrNotFound
	}
	if target.retry == nil {
		return ErrNotRetryable
	}
	if !target.used.CompareAndSwap(false, true) {
		return ErrRetryUsed
	}
	target.retry()
	return nil
}
