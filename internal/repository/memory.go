package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/event-registration/internal/model"
)

// MemoryStore keeps participants and feedback in process memory. Like the
// PostgreSQL schema it rejects a second participant with the same email.
type MemoryStore struct {
	mu           sync.RWMutex
	participants map[string]model.Participant // keyed by lowercased email
	feedback     []model.Feedback
	now          func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		participants: make(map[string]model.Participant),
		now:          time.Now,
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *MemoryStore) FindByEmail(_ context.Context, email string) (*model.Participant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.participants[emailKey(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) Insert(_ context.Context, p *model.Participant) (*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := emailKey(p.Email)
	if _, exists := m.participants[key]; exists {
		return nil, ErrAlreadyRegistered
	}
	rec := *p
	rec.ID = uuid.New().String()
	rec.CreatedAt = m.now().UTC()
	m.participants[key] = rec
	return &rec, nil
}

func (m *MemoryStore) List(_ context.Context) ([]model.Participant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Participant, 0, len(m.participants))
	for _, p := range m.participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// InsertFeedback stores a feedback message.
func (m *MemoryStore) InsertFeedback(_ context.Context, req model.FeedbackRequest) (*model.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fb := model.Feedback{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		CreatedAt: m.now().UTC(),
	}
	m.feedback = append(m.feedback, fb)
	return &fb, nil
}

// Feedback returns every stored feedback message in insertion order.
func (m *MemoryStore) Feedback() []model.Feedback {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Feedback(nil), m.feedback...)
}
