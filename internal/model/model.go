// Package model defines the core domain types for the registration site.
package model

import (
	"strings"
	"time"
)

// Draft holds user-entered, not-yet-confirmed registration fields.
// The JSON shape is the persisted form of both the draft and pending slots.
type Draft struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	College  string `json:"college"`
	Phone    string `json:"phone"`
}

// IsEmpty reports whether every field is blank.
func (d Draft) IsEmpty() bool {
	return d.FullName == "" && d.Email == "" && d.College == "" && d.Phone == ""
}

// Participant is a confirmed registration record.
type Participant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	College   string    `json:"college"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// NewParticipant builds an unsaved record from a submitted snapshot.
func NewParticipant(d Draft) *Participant {
	return &Participant{
		Name:    strings.TrimSpace(d.FullName),
		Email:   strings.TrimSpace(d.Email),
		College: strings.TrimSpace(d.College),
		Phone:   strings.TrimSpace(d.Phone),
	}
}

// ParticipantList is the response body for the public registrants table.
type ParticipantList struct {
	Total        int           `json:"total"`
	Participants []Participant `json:"participants"`
}

// Feedback is an anonymous-or-named message left by a visitor.
type Feedback struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackRequest is the payload for submitting feedback.
type FeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
