package main

import (
	"context"
	"strings"
	"testing"

	"smartcity/libs/citydata"
	"smartcity/libs/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIncidentDigestEmail(t *testing.T) {
	app, _ := newTestApp(t, &fakeBackend{})
	incidents := []citydata.Incident{{
		ID: "INC-7", Severity: citydata.SeverityCritical, Status: citydata.StatusOpen,
		LocationLabel: "Main & 5th", Description: "Gas leak <reported>",
	}}

	msg := app.buildIncidentDigestEmail(incidents, testNow)

	assert.Equal(t, []string{"ops@city.test"}, msg.To)
	assert.Contains(t, msg.Subject, "1 urgent")
	assert.Contains(t, msg.HTML, "Main &amp; 5th")
	assert.Contains(t, msg.HTML, "Gas leak &lt;reported&gt;")
	assert.Contains(t, msg.HTML, "https://city.test/incidents")
	assert.Contains(t, msg.Text, "- INC-7 [critical, open] Main & 5th: Gas leak <reported>")
	assert.Equal(t, "incident-digest", msg.Tags["kind"])
}

func TestSendIncidentDigestSelectsUrgentIncidents(t *testing.T) {
	app, _ := newTestApp(t, &fakeBackend{dashboard: citydata.RawDashboard{RecentIncidents: liveIncidents()}})
	provider := &recordingProvider{}
	app.mailer = mailer.New(provider, "digest@city.test")

	require.NoError(t, app.sendIncidentDigest(context.Background()))

	require.Len(t, provider.sent, 1)
	text := provider.sent[0].Text
	assert.Contains(t, text, "INC-101")
	assert.Contains(t, text, "INC-103")
	assert.NotContains(t, text, "INC-102")
	assert.Equal(t, "digest@city.test", provider.sent[0].From)
}

func TestSendIncidentDigestNeverMailsDefaults(t *testing.T) {
	app, _ := newTestApp(t, &fakeBackend{dashboardErr: errUnreachable})
	provider := &recordingProvider{}
	app.mailer = mailer.New(provider, "digest@city.test")

	err := app.sendIncidentDigest(context.Background())

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to load incidents"))
	assert.Empty(t, provider.sent)
}

func TestSendIncidentDigestSkipsWhenQuiet(t *testing.T) {
	quiet := []any{map[string]any{"id": "INC-1", "severity": "low", "status": "open"}}
	app, _ := newTestApp(t, &fakeBackend{dashboard: citydata.RawDashboard{RecentIncidents: quiet}})
	provider := &recordingProvider{}
	app.mailer = mailer.New(provider, "digest@city.test")

	require.NoError(t, app.sendIncidentDigest(context.Background()))
	assert.Empty(t, provider.sent)

	app.cfg.DigestRecipients = nil
	assert.ErrorIs(t, app.sendIncidentDigest(context.Background()), errNoDigestRecipients)
}
