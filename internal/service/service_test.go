package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/event-registration/internal/model"
	"github.com/Shivanand-hulikatti/event-registration/internal/repository"
)

type brokenLister struct{}

func (brokenLister) List(context.Context) ([]model.Participant, error) {
	return nil, repository.ErrUnavailable
}

func TestListParticipants(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewSiteService(store, store)

	empty, err := svc.ListParticipants(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Participants, "empty list encodes as []")

	for _, email := range []string{"a@test.edu", "b@test.edu"} {
		_, err := store.Insert(ctx, &model.Participant{Name: "N", Email: email, College: "C", Phone: "1"})
		require.NoError(t, err)
	}

	list, err := svc.ListParticipants(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	assert.Len(t, list.Participants, 2)
}

func TestListParticipants_WrapsStoreError(t *testing.T) {
	svc := NewSiteService(brokenLister{}, repository.NewMemoryStore())
	_, err := svc.ListParticipants(context.Background())
	require.ErrorIs(t, err, repository.ErrUnavailable)
}

func TestSubmitFeedback(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     model.FeedbackRequest
		wantErr string
	}{
		{"anonymous", model.FeedbackRequest{Message: "Great event"}, ""},
		{"named", model.FeedbackRequest{Name: " Ravi ", Email: "Ravi@Test.edu", Message: "Loved it"}, ""},
		{"blank message", model.FeedbackRequest{Name: "Ravi", Message: "   "}, "message is required"},
		{"bad email", model.FeedbackRequest{Email: "ravi", Message: "hi"}, "email is not a valid email address"},
		{"too long", model.FeedbackRequest{Message: strings.Repeat("x", maxFeedbackLength+1)}, "cannot exceed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := repository.NewMemoryStore()
			svc := NewSiteService(store, store)

			fb, err := svc.SubmitFeedback(ctx, tc.req)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidFeedback))
				assert.Contains(t, err.Error(), tc.wantErr)
				assert.Empty(t, store.Feedback())
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, fb.ID)
			assert.Equal(t, strings.TrimSpace(tc.req.Message), fb.Message)
			assert.Len(t, store.Feedback(), 1)
		})
	}
}
