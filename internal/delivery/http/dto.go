package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
)

// NotificationRequest is a build event posted by the CI host.
// It uses `json` tags for unmarshalling and `binding` for validation with Gin.
type NotificationRequest struct {
	Event       string `json:"event"`
	Subject     string `json:"subject" binding:"required"`
	Body        string `json:"body"`
	Recipients  string `json:"recipients"`
	WebhookURLs string `json:"webhook_urls"`
	Link        string `json:"link"`
	Initiator   string `json:"initiator"`
}

// QueuedResponse is returned when a notification has been handed to the worker.
type QueuedResponse struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// OutcomeResponse is returned by the synchronous dispatch endpoint.
type OutcomeResponse struct {
	NotificationID uuid.UUID              `json:"notification_id"`
	Skipped        bool                   `json:"skipped"`
	Succeeded      int                    `json:"succeeded"`
	Failed         int                    `json:"failed"`
	Results        []model.DispatchResult `json:"results"`
	Mirrors        []model.DispatchResult `json:"mirrors,omitempty"`
}

// ErrorResponse defines a standard structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
