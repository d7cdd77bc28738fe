// Package repository implements persistence for participants and feedback.
// It uses pgx directly (no ORM); an in-memory implementation backs local
// development and tests.
package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/event-registration/internal/model"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyRegistered is returned when an insert collides with an existing
// email (case-insensitive).
var ErrAlreadyRegistered = errors.New("email already registered")

// ErrUnavailable marks transport failures: refused connections, timeouts,
// dropped sessions. Callers treat these as network errors.
var ErrUnavailable = errors.New("participant store unavailable")

const uniqueViolation = "23505"

// ParticipantRepository handles persistence for participants.
type ParticipantRepository struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// NewParticipantRepository constructs a ParticipantRepository. Every query
// is bounded by timeout when it is positive.
func NewParticipantRepository(db *pgxpool.Pool, timeout time.Duration) *ParticipantRepository {
	return &ParticipantRepository{db: db, timeout: timeout}
}

func (r *ParticipantRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// FindByEmail returns the participant registered under email, compared
// case-insensitively, or ErrNotFound.
func (r *ParticipantRepository) FindByEmail(ctx context.Context, email string) (*model.Participant, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var p model.Participant
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, college, phone, created_at
		 FROM participants
		 WHERE lower(email) = lower($1)
		 LIMIT 1`,
		strings.TrimSpace(email),
	).Scan(&p.ID, &p.Name, &p.Email, &p.College, &p.Phone, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify("find participant", err)
	}
	return &p, nil
}

// Insert stores p with a generated UUID and creation time.
//
// The unique index on lower(email) is the authoritative duplicate guard:
// two submissions that both pass a prior FindByEmail still cannot both
// commit, and the loser gets ErrAlreadyRegistered.
func (r *ParticipantRepository) Insert(ctx context.Context, p *model.Participant) (*model.Participant, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rec := *p
	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO participants (id, name, email, college, phone, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Name, rec.Email, rec.College, rec.Phone, rec.CreatedAt,
	)
	if err != nil {
		return nil, classify("insert participant", err)
	}
	return &rec, nil
}

// List returns all participants, most recent first.
func (r *ParticipantRepository) List(ctx context.Context) ([]model.Participant, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, college, phone, created_at
		 FROM participants
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, classify("list participants", err)
	}
	defer rows.Close()

	var participants []model.Participant
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.College, &p.Phone, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// FeedbackRepository handles persistence for feedback messages.
type FeedbackRepository struct {
	db *pgxpool.Pool
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// InsertFeedback stores a feedback message. Blank name and email are stored as NULL.
func (r *FeedbackRepository) InsertFeedback(ctx context.Context, req model.FeedbackRequest) (*model.Feedback, error) {
	fb := &model.Feedback{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO feedback (id, name, email, message, created_at)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5)`,
		fb.ID, fb.Name, fb.Email, fb.Message, fb.CreatedAt,
	)
	if err != nil {
		return nil, classify("insert feedback", err)
	}
	return fb, nil
}

// classify maps driver errors onto the package sentinels.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, ErrAlreadyRegistered)
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) ||
		errors.As(err, &netErr) ||
		pgconn.Timeout(err) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
