package mailer

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// LogProvider writes messages to the log instead of sending them. Used in
// development and whenever no Resend key is configured.
type LogProvider struct {
	Logger *slog.Logger
}

func NewLogProvider(logger *slog.Logger) *LogProvider {
	return &LogProvider{Logger: logger}
}

func (l *LogProvider) Name() string {
	return "log"
}

func (l *LogProvider) Send(msg Message) (SendResult, error) {
	id := "log-" + uuid.NewString()
	l.Logger.Info("mailer: message logged",
		"message_id", id,
		"from", msg.From,
		"to", strings.Join(msg.To, ", "),
		"subject", msg.Subject,
		"tags", formatTags(msg.Tags),
	)
	if msg.Text != "" {
		l.Logger.Debug("mailer: message text", "message_id", id, "text", msg.Text)
	}
	return SendResult{ProviderMessageID: id}, nil
}

func formatTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+tags[k])
	}
	return strings.Join(parts, ",")
}
