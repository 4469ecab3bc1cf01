// Package queue defines message payloads exchanged over the message broker.
package queue

// Login outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// LoginEvent is published for every login attempt.  Username is already
// log-safe; passwords and tokens are never part of the payload.
type LoginEvent struct {
	Username   string `json:"username"`
	Outcome    string `json:"outcome"`
	RemoteIP   string `json:"remote_ip"`
	RequestID  string `json:"request_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
