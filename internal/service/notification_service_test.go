package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
	repo "github.com/ilindan-dev/webhook-notifier/internal/domain/repository"
	"github.com/ilindan-dev/webhook-notifier/internal/host"
	"github.com/rs/zerolog"
)

type fakeQueue struct {
	published []*model.Notification
	err       error
}

func (f *fakeQueue) Publish(_ context.Context, n *model.Notification) error {
	f.published = append(f.published, n)
	return f.err
}

type fakeGuard struct {
	seen map[uuid.UUID]bool
	err  error
}

func (f *fakeGuard) Acquire(_ context.Context, id uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen[id] {
		return false, nil
	}
	f.seen[id] = true
	return true, nil
}

type fakeSender struct {
	sent []*model.Notification
}

func (f *fakeSender) Send(_ context.Context, n *model.Notification) (*model.SendOutcome, error) {
	f.sent = append(f.sent, n)
	return &model.SendOutcome{NotificationID: n.ID, Results: []model.DispatchResult{{URL: n.WebhookURLs, Success: true}}}, nil
}

func newTestService(h host.Context) (*NotificationService, *fakeQueue, *fakeGuard, *fakeSender) {
	nop := zerolog.Nop()
	q := &fakeQueue{}
	g := &fakeGuard{seen: map[uuid.UUID]bool{}}
	s := &fakeSender{}
	if h == nil {
		h = &host.Static{User: "ci-bot"}
	}
	return NewNotificationService(q, g, s, h, &nop), q, g, s
}

func TestPrepareRequiresSubject(t *testing.T) {
	svc, _, _, _ := newTestService(nil)
	if _, err := svc.Prepare(SubmitInput{Subject: "  "}); !errors.Is(err, repo.ErrInvalidNotification) {
		t.Fatalf("expected ErrInvalidNotification, got %v", err)
	}
}

func TestPrepareDefaultsInitiator(t *testing.T) {
	svc, _, _, _ := newTestService(nil)
	n, err := svc.Prepare(SubmitInput{Subject: "s", Body: "b"})
	if err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	if n.Initiator != "ci-bot" || n.Body != "b" || n.ID == uuid.Nil {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestPrepareRendersLinks(t *testing.T) {
	h := &host.Static{
		Root:          "https://ci.example.com/",
		Collaborators: map[string]host.Collaborator{host.ConfigHistoryPlugin: {Name: host.ConfigHistoryPlugin}},
	}
	svc, _, _, _ := newTestService(h)

	n, err := svc.Prepare(SubmitInput{Subject: "s", Body: "job X failed", Link: "job/x/42/"})
	if err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	want := "job X failed\n\n[View build](https://ci.example.com/job/x/42/) | [Config history](https://ci.example.com/job/x/42/jobConfigHistory)"
	if n.Body != want {
		t.Fatalf("unexpected body:\n got %q\nwant %q", n.Body, want)
	}
}

func TestPrepareLinkWithoutRoot(t *testing.T) {
	svc, _, _, _ := newTestService(&host.Static{})
	if _, err := svc.Prepare(SubmitInput{Subject: "s", Link: "job/x"}); err == nil {
		t.Fatal("expected error when the host root url is missing")
	}
}

func TestEnqueue(t *testing.T) {
	svc, q, _, _ := newTestService(nil)
	n, err := svc.Enqueue(context.Background(), SubmitInput{Subject: "s", WebhookURLs: "http://hook"})
	if err != nil {
		t.Fatalf("Enqueue() failed: %v", err)
	}
	if len(q.published) != 1 || q.published[0].ID != n.ID {
		t.Fatalf("expected notification to be published, got %v", q.published)
	}

	q.err = repo.ErrQueueUnavailable
	if _, err := svc.Enqueue(context.Background(), SubmitInput{Subject: "s"}); !errors.Is(err, repo.ErrQueueUnavailable) {
		t.Fatalf("expected queue error, got %v", err)
	}
}

func TestSendNow(t *testing.T) {
	svc, q, _, sender := newTestService(nil)
	out, err := svc.SendNow(context.Background(), SubmitInput{Subject: "s", WebhookURLs: "http://hook"})
	if err != nil {
		t.Fatalf("SendNow() failed: %v", err)
	}
	if len(sender.sent) != 1 || len(q.published) != 0 || out.Succeeded() != 1 {
		t.Fatalf("expected a direct send, got sent=%d published=%d", len(sender.sent), len(q.published))
	}
}

func TestDeliverOnce(t *testing.T) {
	svc, _, _, sender := newTestService(nil)
	n := model.NewNotification("", "s", "b", "", "http://hook", "")

	if out, err := svc.Deliver(context.Background(), n); err != nil || out.Skipped {
		t.Fatalf("expected first delivery, got %+v, %v", out, err)
	}
	out, err := svc.Deliver(context.Background(), n)
	if err != nil || !out.Skipped {
		t.Fatalf("expected duplicate to be skipped, got %+v, %v", out, err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one send, got %d", len(sender.sent))
	}
}

func TestDeliverGuardFailureFailsOpen(t *testing.T) {
	svc, _, guard, sender := newTestService(nil)
	guard.err = errors.New("redis down")
	if _, err := svc.Deliver(context.Background(), model.NewNotification("", "s", "b", "", "http://hook", "")); err != nil {
		t.Fatalf("Deliver() failed: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatal("expected delivery to proceed when the guard fails")
	}
}
