package mailer

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"
)

type recordingProvider struct {
	sent []Message
}

func (r *recordingProvider) Name() string { return "recording" }

func (r *recordingProvider) Send(msg Message) (SendResult, error) {
	r.sent = append(r.sent, msg)
	return SendResult{ProviderMessageID: "rec-1"}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLogProviderSend(t *testing.T) {
	provider := NewLogProvider(discardLogger())

	result, err := provider.Send(Message{
		From:    "digest@city.test",
		To:      []string{"ops@city.test"},
		Subject: "Incident digest",
		Text:    "2 incidents",
		Tags:    map[string]string{"kind": "digest"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(result.ProviderMessageID, "log-") {
		t.Fatalf("expected log- prefix, got %q", result.ProviderMessageID)
	}
}

func TestMailerFillsDefaultSenderAndCleansRecipients(t *testing.T) {
	provider := &recordingProvider{}
	m := New(provider, "default@city.test")

	_, err := m.Send(Message{
		To:      []string{" ops@city.test ", "", "OPS@city.test", "chief@city.test"},
		Subject: "Digest",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(provider.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(provider.sent))
	}
	got := provider.sent[0]
	if got.From != "default@city.test" {
		t.Fatalf("expected default sender, got %q", got.From)
	}
	if strings.Join(got.To, ",") != "ops@city.test,chief@city.test" {
		t.Fatalf("unexpected recipients %v", got.To)
	}
}

func TestMailerRejectsIncompleteMessages(t *testing.T) {
	provider := &recordingProvider{}
	m := New(provider, "default@city.test")

	if _, err := m.Send(Message{To: []string{" "}, Subject: "x"}); err != ErrNoRecipients {
		t.Fatalf("expected ErrNoRecipients, got %v", err)
	}
	if _, err := m.Send(Message{To: []string{"a@city.test"}}); err != ErrNoSubject {
		t.Fatalf("expected ErrNoSubject, got %v", err)
	}
	if len(provider.sent) != 0 {
		t.Fatalf("expected nothing sent, got %d", len(provider.sent))
	}
}

func TestNewFromConfigPicksProvider(t *testing.T) {
	from := map[string]string{"resend": "noreply@mail.city.test", "log": "noreply@city.local"}

	if got := NewFromConfig("", from, discardLogger()).ProviderName(); got != "log" {
		t.Fatalf("expected log provider, got %q", got)
	}
	m := NewFromConfig("re_test_key", from, discardLogger())
	if got := m.ProviderName(); got != "resend" {
		t.Fatalf("expected resend provider, got %q", got)
	}
	if m.fromAddress != "noreply@mail.city.test" {
		t.Fatalf("unexpected sender %q", m.fromAddress)
	}
}

func TestResendRequestCarriesTagsInOrder(t *testing.T) {
	req := resendRequest(Message{
		From:    "a@city.test",
		To:      []string{"b@city.test"},
		Subject: "s",
		Tags:    map[string]string{"severity": "high", "kind": "digest"},
	})
	want := []resend.Tag{{Name: "kind", Value: "digest"}, {Name: "severity", Value: "high"}}
	if len(req.Tags) != len(want) {
		t.Fatalf("expected %d tags, got %d", len(want), len(req.Tags))
	}
	for i := range want {
		if req.Tags[i] != want[i] {
			t.Fatalf("tag %d: expected %+v, got %+v", i, want[i], req.Tags[i])
		}
	}
}
