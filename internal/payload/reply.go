package payload

import (
	"encoding/json"
	"strings"
)

// Reply is the {errcode, errmsg} envelope returned by robot webhooks.
type Reply struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// ParseReply decodes body as a Reply. ok is false when the body is not such an envelope.
func ParseReply(body string) (reply Reply, ok bool) {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "{") {
		return Reply{}, false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		return Reply{}, false
	}
	if _, has := probe["errcode"]; !has {
		return Reply{}, false
	}
	if err := json.Unmarshal([]byte(trimmed), &reply); err != nil {
		return Reply{}, false
	}
	return reply, true
}
