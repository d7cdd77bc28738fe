// Package draft persists in-progress and pending registration form values
// for one device. Persistence is a convenience: every backend failure is
// logged and swallowed so it can never block a registration.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shivanand-hulikatti/event-registration/internal/kv"
	"github.com/Shivanand-hulikatti/event-registration/internal/model"
)

// DefaultNamespace prefixes every key written by this package.
const DefaultNamespace = "kinetic-registration"

// Store reads and writes the draft and pending slots of one device.
type Store struct {
	kv         kv.Store
	namespace  string
	draftKey   string
	pendingKey string
	logger     *slog.Logger
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithNamespace overrides DefaultNamespace.
func WithNamespace(namespace string) Option {
	return func(s *Store) {
		s.namespace = namespace
	}
}

// New creates a Store scoped to deviceID.
func New(store kv.Store, deviceID string, opts ...Option) *Store {
	s := &Store{
		kv:        store,
		namespace: DefaultNamespace,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.draftKey = fmt.Sprintf("%s:%s:draft", s.namespace, deviceID)
	s.pendingKey = fmt.Sprintf("%s:%s:pending", s.namespace, deviceID)
	return s
}

// Load returns the persisted draft. The bool is false when nothing usable
// is stored, including when the stored value cannot be decoded.
func (s *Store) Load(ctx context.Context) (model.Draft, bool) {
	return s.load(ctx, s.draftKey)
}

// Save persists d unless every field is empty.
func (s *Store) Save(ctx context.Context, d model.Draft) {
	if d.IsEmpty() {
		return
	}
	s.save(ctx, s.draftKey, d)
}

// Clear removes the persisted draft.
func (s *Store) Clear(ctx context.Context) {
	s.remove(ctx, s.draftKey)
}

// LoadPending returns the snapshot of an in-flight submission, if any.
func (s *Store) LoadPending(ctx context.Context) (model.Draft, bool) {
	return s.load(ctx, s.pendingKey)
}

// SavePending persists the submit-time snapshot under its own key so that
// autosave of a fresh draft never overwrites it.
func (s *Store) SavePending(ctx context.Context, snapshot model.Draft) {
	if snapshot.IsEmpty() {
		return
	}
	s.save(ctx, s.pendingKey, snapshot)
}

// ClearPending removes the in-flight snapshot.
func (s *Store) ClearPending(ctx context.Context) {
	s.remove(ctx, s.pendingKey)
}

func (s *Store) load(ctx context.Context, key string) (model.Draft, bool) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("failed to read persisted form values", "key", key, "error", err)
		}
		return model.Draft{}, false
	}

	var d model.Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		s.logger.Warn("discarding undecodable form values", "key", key, "error", err)
		return model.Draft{}, false
	}
	if d.IsEmpty() {
		return model.Draft{}, false
	}
	return d, true
}

func (s *Store) save(ctx context.Context, key string, d model.Draft) {
	raw, err := json.Marshal(d)
	if err != nil {
		s.logger.Warn("failed to encode form values", "key", key, "error", err)
		return
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		s.logger.Warn("failed to persist form values", "key", key, "error", err)
	}
}

func (s *Store) remove(ctx context.Context, key string) {
	if err := s.kv.Remove(ctx, key); err != nil {
		s.logger.Warn("failed to remove form values", "key", key, "error", err)
	}
}
