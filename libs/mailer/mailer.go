package mailer

import (
	"errors"
	"log/slog"
	"strings"
)

var (
	ErrNoRecipients = errors.New("mailer: message has no recipients")
	ErrNoSubject    = errors.New("mailer: message has no subject")
)

// Message is one outgoing e-mail. Tags are forwarded to providers that
// support them and otherwise logged.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
	Tags    map[string]string
}

type SendResult struct {
	ProviderMessageID string
}

// Provider delivers a message through one transport.
type Provider interface {
	Name() string
	Send(msg Message) (SendResult, error)
}

type Mailer struct {
	provider    Provider
	fromAddress string
}

func New(provider Provider, fromAddress string) *Mailer {
	return &Mailer{
		provider:    provider,
		fromAddress: fromAddress,
	}
}

// NewFromConfig uses Resend when apiKey is set and the log provider
// otherwise. fromAddresses is keyed by provider name.
func NewFromConfig(apiKey string, fromAddresses map[string]string, logger *slog.Logger) *Mailer {
	var provider Provider
	if strings.TrimSpace(apiKey) != "" {
		provider = NewResendProvider(apiKey)
	} else {
		provider = NewLogProvider(logger)
	}
	return New(provider, fromAddresses[provider.Name()])
}

// Send fills in the default sender, drops blank recipients and hands the
// message to the provider.
func (m *Mailer) Send(msg Message) (SendResult, error) {
	if msg.From == "" {
		msg.From = m.fromAddress
	}
	msg.To = cleanRecipients(msg.To)
	if len(msg.To) == 0 {
		return SendResult{}, ErrNoRecipients
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return SendResult{}, ErrNoSubject
	}
	return m.provider.Send(msg)
}

func (m *Mailer) ProviderName() string {
	return m.provider.Name()
}

func cleanRecipients(to []string) []string {
	out := make([]string, 0, len(to))
	seen := make(map[string]struct{}, len(to))
	for _, addr := range to {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		key := strings.ToLower(addr)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, addr)
	}
	return out
}
