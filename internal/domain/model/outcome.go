package model

import (
	"time"

	"github.com/google/uuid"
)

// DispatchResult is the outcome of a single delivery attempt to one target.
type DispatchResult struct {
	URL        string        `json:"url"`
	Success    bool          `json:"success"`
	StatusCode int           `json:"status_code,omitempty"`
	Response   string        `json:"response,omitempty"` // Response body on success.
	Error      string        `json:"error,omitempty"`    // Failure message.
	Duration   time.Duration `json:"duration"`
}

// SendOutcome aggregates every DispatchResult of one send call.
type SendOutcome struct {
	NotificationID uuid.UUID `json:"notification_id"`
	// Skipped is set when there was nothing to dispatch to.
	Skipped bool             `json:"skipped"`
	Results []DispatchResult `json:"results"`
	Mirrors []DispatchResult `json:"mirrors,omitempty"`
}

// Succeeded returns the number of successful webhook deliveries.
func (o *SendOutcome) Succeeded() int {
	n := 0
	for _, r := range o.Results {
		if r.Success {
			n++
		}
	}
	return n
}

// Failed returns the number of failed webhook deliveries.
func (o *SendOutcome) Failed() int {
	return len(o.Results) - o.Succeeded()
}
