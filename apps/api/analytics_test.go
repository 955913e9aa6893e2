package main

import (
	"bytes"
	"net/http"
	"testing"

	"smartcity/libs/citydata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeAnalyticsDefaults(t *testing.T) {
	summary := summarizeAnalytics(citydata.NewRegistry(nil).Analytics())

	require.Len(t, summary.Series, 4)
	traffic := summary.Series[0]
	assert.Equal(t, "trafficFlow", traffic.Series)
	assert.Equal(t, 7, traffic.Points)
	assert.Equal(t, 61.4, traffic.Mean)
	assert.Equal(t, float64(90), traffic.Peak)
	assert.Equal(t, "16:00", traffic.PeakLabel)

	assert.Equal(t, float64(324), summary.IncidentTotal)
	require.Len(t, summary.IncidentShares, 4)
	assert.Equal(t, CategoryShare{Label: "Traffic", Count: 145, Percent: 44.8}, summary.IncidentShares[0])
}

func TestSummarizeSeriesEdgeCases(t *testing.T) {
	empty := summarizeSeries(citydata.SeriesAirQuality, nil)
	assert.Equal(t, SeriesSummary{Series: "airQuality"}, empty)

	single := summarizeSeries(citydata.SeriesAirQuality, []citydata.Point{{Label: "6 AM", Value: 40}})
	assert.Equal(t, float64(40), single.Mean)
	assert.Zero(t, single.StdDev)
	assert.Equal(t, "6 AM", single.PeakLabel)

	summary := summarizeAnalytics(citydata.AnalyticsSeries{IncidentsByType: []citydata.Point{{Label: "Traffic", Value: 0}}})
	assert.Zero(t, summary.IncidentShares[0].Percent)
}

func TestAnalyticsReportPDF(t *testing.T) {
	_, router := newTestApp(t, &fakeBackend{analyticsErr: errUnreachable})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/analytics/report.pdf", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="analytics-report-20260314.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestAnalyticsChartsPage(t *testing.T) {
	_, router := newTestApp(t, &fakeBackend{analyticsErr: errUnreachable})

	rec := doRequest(t, router, http.MethodGet, "/analytics/charts", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Smart City analytics")
	assert.Contains(t, body, "echarts")
	assert.Contains(t, body, "trafficFlow")
}
