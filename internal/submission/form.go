package submission

import (
	"context"
	"strings"
	"sync"

	"github.com/Shivanand-hulikatti/event-registration/internal/model"
)

// Form is the visible form of one visitor. Every edit autosaves to the
// draft slot; resetting for optimistic completion does not, so the last
// typed values stay recoverable until the registration is confirmed.
type Form struct {
	mu     sync.Mutex
	fields model.Draft
	drafts Drafts
}

// NewForm restores an interrupted session from the persisted draft.
func NewForm(ctx context.Context, drafts Drafts) *Form {
	f := &Form{drafts: drafts}
	if d, ok := drafts.Load(ctx); ok {
		f.fields = d
	}
	return f
}

// Fields returns the current values.
func (f *Form) Fields() model.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Update replaces the field values and autosaves them.
func (f *Form) Update(ctx context.Context, d model.Draft) model.Draft {
	d.Phone = sanitizePhone(d.Phone)

	f.mu.Lock()
	f.fields = d
	f.mu.Unlock()

	f.drafts.Save(ctx, d)
	return d
}

// Clear empties the form and discards the persisted draft.
func (f *Form) Clear(ctx context.Context) {
	f.mu.Lock()
	f.fields = model.Draft{}
	f.mu.Unlock()

	f.drafts.Clear(ctx)
}

// take snapshots and resets the form in one step when check accepts the
// current values. A rejected form is left untouched.
func (f *Form) take(check func(model.Draft) error) (model.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := f.fields
	if err := check(snapshot); err != nil {
		return model.Draft{}, err
	}
	f.fields = model.Draft{}
	return snapshot, nil
}

// restore puts a snapshot back so the visitor does not retype it.
func (f *Form) restore(ctx context.Context, snapshot model.Draft) {
	f.mu.Lock()
	f.fields = snapshot
	f.mu.Unlock()

	f.drafts.Save(ctx, snapshot)
}

// resetIf empties the form only while it still shows snapshot.
func (f *Form) resetIf(snapshot model.Draft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fields == snapshot {
		f.fields = model.Draft{}
	}
}

// sanitizePhone keeps digits and '+'.
func sanitizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, s)
}
