// Package service implements the read side of the site and feedback
// validation, between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/event-registration/internal/model"
)

// ErrInvalidFeedback is returned for feedback that fails validation.
var ErrInvalidFeedback = errors.New("invalid feedback")

const maxFeedbackLength = 2000

// ParticipantLister lists confirmed registrations, newest first.
type ParticipantLister interface {
	List(ctx context.Context) ([]model.Participant, error)
}

// FeedbackStore persists feedback messages.
type FeedbackStore interface {
	InsertFeedback(ctx context.Context, req model.FeedbackRequest) (*model.Feedback, error)
}

// SiteService orchestrates participant listing and feedback submission.
type SiteService struct {
	participants ParticipantLister
	feedback     FeedbackStore
}

// NewSiteService constructs a SiteService with its dependencies.
func NewSiteService(participants ParticipantLister, feedback FeedbackStore) *SiteService {
	return &SiteService{participants: participants, feedback: feedback}
}

// ListParticipants returns every registrant with the total count.
func (s *SiteService) ListParticipants(ctx context.Context) (*model.ParticipantList, error) {
	participants, err := s.participants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []model.Participant{}
	}
	return &model.ParticipantList{Total: len(participants), Participants: participants}, nil
}

// SubmitFeedback validates the request and delegates to the store. Name
// and email are optional; a present email must be well formed.
func (s *SiteService) SubmitFeedback(ctx context.Context, req model.FeedbackRequest) (*model.Feedback, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Message = strings.TrimSpace(req.Message)

	if req.Message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidFeedback)
	}
	if len(req.Message) > maxFeedbackLength {
		return nil, fmt.Errorf("%w: message cannot exceed %d characters", ErrInvalidFeedback, maxFeedbackLength)
	}
	if req.Email != "" && !isValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: email is not a valid email address", ErrInvalidFeedback)
	}

	fb, err := s.feedback.InsertFeedback(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit feedback: %w", err)
	}
	return fb, nil
}

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
