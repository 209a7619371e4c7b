package notifiers

import (
	"testing"

	"github.com/ilindan-dev/webhook-notifier/internal/config"
	"github.com/ilindan-dev/webhook-notifier/internal/webhook"
	"github.com/rs/zerolog"
)

func TestNewEndpointDispatcher(t *testing.T) {
	nop := zerolog.Nop()
	wd := webhook.New(webhook.Options{}, &nop)
	defer wd.Close()

	cfg := &config.Config{Notifiers: config.NotifiersConfig{Mode: "production"}}
	if got := NewEndpointDispatcher(cfg, &nop, wd); got != EndpointDispatcher(wd) {
		t.Fatalf("expected webhook dispatcher in production mode, got %T", got)
	}
	cfg.Notifiers.Mode = ModeLogOnly
	if _, ok := NewEndpointDispatcher(cfg, &nop, wd).(*LogDispatcher); !ok {
		t.Fatal("expected log dispatcher in log_only mode")
	}
}

func TestNewMirrors(t *testing.T) {
	nop := zerolog.Nop()
	cfg := &config.Config{Notifiers: config.NotifiersConfig{
		Mode:  "production",
		Email: config.EmailConfig{Host: "mail.test", Port: 25, To: []string{"a@test"}},
	}}
	mirrors, err := NewMirrors(cfg, &nop)
	if err != nil {
		t.Fatalf("NewMirrors() failed: %v", err)
	}
	if len(mirrors) != 1 || mirrors[0].Name() != "email" {
		t.Fatalf("expected email mirror, got %v", mirrors)
	}

	cfg.Notifiers.Mode = ModeLogOnly
	mirrors, err = NewMirrors(cfg, &nop)
	if err != nil || len(mirrors) != 0 {
		t.Fatalf("expected no mirrors in log_only mode, got %v, %v", mirrors, err)
	}
}
