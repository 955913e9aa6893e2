package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"smartcity/libs/citydata"
	"smartcity/libs/mailer"
)

var errNoDigestRecipients = errors.New("no digest recipients configured (DIGEST_RECIPIENTS)")

// urgentIncidents keeps unresolved incidents of high or critical severity.
func urgentIncidents(incidents []citydata.Incident) []citydata.Incident {
	out := make([]citydata.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if inc.Status == citydata.StatusResolved {
			continue
		}
		if inc.Severity != citydata.SeverityHigh && inc.Severity != citydata.SeverityCritical {
			continue
		}
		out = append(out, inc)
	}
	return out
}

func (a *App) buildIncidentDigestEmail(incidents []citydata.Incident, generatedAt time.Time) mailer.Message {
	subject := fmt.Sprintf("Smart City incident digest - %d urgent incident(s)", len(incidents))
	dashboardURL := buildPublicURL(a.cfg.PublicBaseURL, "/incidents")

	var rows, lines strings.Builder
	for _, inc := range incidents {
		fmt.Fprintf(&rows,
			`<tr><td style="padding: 4px 8px;">%s</td><td style="padding: 4px 8px;">%s</td><td style="padding: 4px 8px;">%s</td><td style="padding: 4px 8px;">%s</td><td style="padding: 4px 8px;">%s</td></tr>`,
			html.EscapeString(inc.ID),
			html.EscapeString(string(inc.Severity)),
			html.EscapeString(string(inc.Status)),
			html.EscapeString(inc.LocationLabel),
			html.EscapeString(inc.Description),
		)
		fmt.Fprintf(&lines, "- %s [%s, %s] %s: %s\n", inc.ID, inc.Severity, inc.Status, inc.LocationLabel, inc.Description)
	}

	body := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 700px; margin: 0 auto; line-height: 1.6; color: #333;">
			<h2>Urgent incidents</h2>
			<p>As of %s there are <strong>%d</strong> unresolved incidents with high or critical severity.</p>
			<table style="border-collapse: collapse; font-size: 14px;">
				<tr><th align="left">ID</th><th align="left">Severity</th><th align="left">Status</th><th align="left">Location</th><th align="left">Description</th></tr>
				%s
			</table>
			<p style="margin: 30px 0;">
				<a href="%s" style="background-color: #d32f2f; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold; display: inline-block;">
					Open dashboard
				</a>
			</p>
		</div>
	`, generatedAt.Format(time.RFC1123), len(incidents), rows.String(), dashboardURL)

	text := fmt.Sprintf(
		"Urgent incidents as of %s: %d\n\n%s\nOpen the dashboard: %s\n",
		generatedAt.Format(time.RFC1123), len(incidents), lines.String(), dashboardURL,
	)

	return mailer.Message{
		To:      a.cfg.DigestRecipients,
		Subject: subject,
		HTML:    body,
		Text:    text,
		Tags:    map[string]string{"kind": "incident-digest"},
	}
}

// sendIncidentDigest mails the urgent incidents reported by the backend.
// Default data is never mailed: a backend failure is returned as an error.
func (a *App) sendIncidentDigest(ctx context.Context) error {
	if len(a.cfg.DigestRecipients) == 0 {
		return errNoDigestRecipients
	}

	raw, err := a.backend.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to load incidents: %w", err)
	}

	incidents := urgentIncidents(citydata.NormalizeIncidents(raw.IncidentList()))
	if len(incidents) == 0 {
		a.log.Info("skipping incident digest (0 urgent incidents)")
		return nil
	}

	msg := a.buildIncidentDigestEmail(incidents, a.now().UTC())
	result, err := a.mailer.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send incident digest: %w", err)
	}

	a.log.Info("sent incident digest", "count", len(incidents), "recipients", len(msg.To), "message_id", result.ProviderMessageID)
	return nil
}

func buildPublicURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}
