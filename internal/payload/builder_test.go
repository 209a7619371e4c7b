package payload

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
	"github.com/ilindan-dev/webhook-notifier/internal/mention"
)

func TestMarkdownText(t *testing.T) {
	got := MarkdownText("Build Failed", "job X failed")
	if got != "# Build Failed\n\njob X failed" {
		t.Fatalf("unexpected markdown text: %q", got)
	}
}

func TestBuildUserMentions(t *testing.T) {
	n := &model.Notification{Subject: "Build Failed", Body: "job X failed"}
	b, err := Build(n, mention.Parse("alice,bob"))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	want := `{"msgtype":"markdown","markdown":{"title":"Build Failed","text":"# Build Failed\n\njob X failed"},"at":{"atMobiles":[],"atUserIds":["alice","bob"]}}`
	if string(b) != want {
		t.Fatalf("unexpected payload:\n got %s\nwant %s", b, want)
	}
}

func TestBuildPhoneMention(t *testing.T) {
	n := &model.Notification{Subject: "s", Body: "b"}
	b, err := Build(n, mention.Parse("13800138000"))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	var msg struct {
		At map[string][]string `json:"at"`
	}
	if err := json.Unmarshal(b, &msg); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if !reflect.DeepEqual(msg.At["atMobiles"], []string{"13800138000"}) || len(msg.At["atUserIds"]) != 0 {
		t.Fatalf("unexpected at block: %v", msg.At)
	}
}

func TestBuildMentionAll(t *testing.T) {
	n := &model.Notification{Subject: "s", Body: "b"}
	b, err := Build(n, mention.Parse("alice,@all"))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if !strings.HasSuffix(string(b), `"at":{"isAtAll":true}}`) {
		t.Fatalf("expected isAtAll only, got %s", b)
	}
}

func TestBuildEmptyMentionsKeepKeys(t *testing.T) {
	n := &model.Notification{Subject: "s", Body: "b"}
	b, err := Build(n, model.MentionSpec{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if !strings.Contains(string(b), `"at":{"atMobiles":[],"atUserIds":[]}`) {
		t.Fatalf("expected empty lists to be present, got %s", b)
	}
}

func TestBuildDoesNotEscapeMarkdown(t *testing.T) {
	n := &model.Notification{Subject: "a & b", Body: "<b>bold</b> > quote"}
	b, err := Build(n, model.MentionSpec{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if !strings.Contains(string(b), `<b>bold</b> > quote`) || !strings.Contains(string(b), `"title":"a & b"`) {
		t.Fatalf("markdown was escaped: %s", b)
	}
	if strings.HasSuffix(string(b), "\n") {
		t.Fatal("payload must not end with a newline")
	}
}

func TestBuildRoundTrip(t *testing.T) {
	n := &model.Notification{Subject: "Deploy", Body: "**done**\nline2"}
	spec := model.MentionSpec{UserMentions: []string{"u1"}, PhoneMentions: []string{"13800138000"}}
	b, err := Build(n, spec)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	var got Message
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	want := NewMessage(n, spec)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		body   string
		wantOK bool
		code   int
	}{
		{`{"errcode":0,"errmsg":"ok"}`, true, 0},
		{`{"errcode":310000,"errmsg":"sign not match"}`, true, 310000},
		{`{"status":"ok"}`, false, 0},
		{`ok`, false, 0},
		{``, false, 0},
	}
	for _, tt := range tests {
		got, ok := ParseReply(tt.body)
		if ok != tt.wantOK || got.ErrCode != tt.code {
			t.Errorf("ParseReply(%q) = %+v, %v", tt.body, got, ok)
		}
	}
}
