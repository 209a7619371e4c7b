package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a build-event message handed over by the CI host.
// It is technology-agnostic and does not contain any DB or JSON tags.
type Notification struct {
	ID         uuid.UUID
	Event      string // The CI event that triggered the notification (e.g. "failed").
	Subject    string // Rendered as the markdown heading and the message title.
	Body       string // Markdown content, sent verbatim.
	Recipients string // Raw mention spec: comma-separated user IDs, a phone number, or "@all".
	// WebhookURLs is a comma-delimited list of webhook endpoints.
	WebhookURLs string
	Initiator   string // The host user that triggered the event, if known.
	CreatedAt   time.Time
}

// NewNotification is a factory function that assigns an ID and creation time.
func NewNotification(event, subject, body, recipients, webhookURLs, initiator string) *Notification {
	return &Notification{
		ID:          uuid.New(),
		Event:       event,
		Subject:     subject,
		Body:        body,
		Recipients:  recipients,
		WebhookURLs: webhookURLs,
		Initiator:   initiator,
		CreatedAt:   time.Now().UTC(),
	}
}

// MentionSpec is the parsed form of Notification.Recipients.
// When MentionAll is set the mention lists are not sent.
type MentionSpec struct {
	UserMentions  []string
	PhoneMentions []string
	MentionAll    bool
}
