package notifiers

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogDispatcherRedactsTokens(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	d := NewLogDispatcher(&logger)

	list := "https://oapi.example.com/robot/send?access_token=secret,http://plain/hook"
	results := d.Dispatch(context.Background(), list, []byte(`{}`))

	if len(results) != 2 || !results[0].Success || results[0].Response != "log_only" {
		t.Fatalf("unexpected results: %+v", results)
	}
	out := buf.String()
	if strings.Contains(out, "secret") {
		t.Fatalf("access token leaked into logs: %s", out)
	}
	if !strings.Contains(out, "http://plain/hook") {
		t.Fatalf("expected plain url in logs: %s", out)
	}
}
