// Package payload builds the markdown robot message sent to chat webhooks.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
)

// MsgTypeMarkdown is the only message type this service sends.
const MsgTypeMarkdown = "markdown"

// Message is the JSON envelope accepted by markdown robot webhooks.
type Message struct {
	MsgType  string   `json:"msgtype"`
	Markdown Markdown `json:"markdown"`
	At       At       `json:"at"`
}

// Markdown carries the message title and markdown text.
type Markdown struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// At holds the mention directives.
type At struct {
	IsAtAll   bool     `json:"isAtAll,omitempty"`
	AtMobiles []string `json:"atMobiles,omitempty"`
	AtUserIDs []string `json:"atUserIds,omitempty"`
}

// MarshalJSON writes {"isAtAll":true} when everyone is mentioned, otherwise
// both mention lists, always present and never null.
func (a At) MarshalJSON() ([]byte, error) {
	if a.IsAtAll {
		return json.Marshal(struct {
			IsAtAll bool `json:"isAtAll"`
		}{true})
	}
	return json.Marshal(struct {
		AtMobiles []string `json:"atMobiles"`
		AtUserIDs []string `json:"atUserIds"`
	}{nonNil(a.AtMobiles), nonNil(a.AtUserIDs)})
}

// MarkdownText renders the subject as a level-one heading followed by the body.
func MarkdownText(subject, body string) string {
	return "# " + subject + "\n\n" + body
}

// NewMessage assembles the envelope for a notification.
func NewMessage(n *model.Notification, spec model.MentionSpec) Message {
	msg := Message{
		MsgType: MsgTypeMarkdown,
		Markdown: Markdown{
			Title: n.Subject,
			Text:  MarkdownText(n.Subject, n.Body),
		},
	}
	if spec.MentionAll {
		msg.At.IsAtAll = true
	} else {
		msg.At.AtMobiles = spec.PhoneMentions
		msg.At.AtUserIDs = spec.UserMentions
	}
	return msg
}

// Build serializes the message for n as compact JSON.
// Markdown characters such as <, > and & are not HTML-escaped.
func Build(n *model.Notification, spec model.MentionSpec) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewMessage(n, spec)); err != nil {
		return nil, fmt.Errorf("payload: failed to encode message: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
