package model

import "time"

// OutcomeKind tags a SubmissionOutcome.
type OutcomeKind string

const (
	OutcomeSuccess        OutcomeKind = "success"
	OutcomeDuplicateEmail OutcomeKind = "duplicate_email"
	OutcomeRemoteError    OutcomeKind = "remote_error"
	OutcomeNetworkError   OutcomeKind = "network_error"
	OutcomeWindowClosed   OutcomeKind = "window_closed"
)

// Outcome is the terminal result of one submission attempt.
// Record is set only for OutcomeSuccess; Cause only for the error kinds.
type Outcome struct {
	Kind   OutcomeKind
	Record *Participant
	Cause  error
}

func Success(record *Participant) Outcome { return Outcome{Kind: OutcomeSuccess, Record: record} }
func DuplicateEmail() Outcome             { return Outcome{Kind: OutcomeDuplicateEmail} }
func RemoteError(cause error) Outcome     { return Outcome{Kind: OutcomeRemoteError, Cause: cause} }
func NetworkError(cause error) Outcome    { return Outcome{Kind: OutcomeNetworkError, Cause: cause} }
func WindowClosed() Outcome               { return Outcome{Kind: OutcomeWindowClosed} }

// Retryable reports whether a user-initiated retry could change the result.
func (o Outcome) Retryable() bool {
	return o.Kind == OutcomeRemoteError || o.Kind == OutcomeNetworkError
}

// NotificationKind selects how a notification is presented.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyWarning NotificationKind = "warning"
	NotifyInfo    NotificationKind = "info"
)

// Notification is a transient, dismissible message shown to one visitor.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	Retryable bool             `json:"retryable"`
	CreatedAt time.Time        `json:"created_at"`
}
