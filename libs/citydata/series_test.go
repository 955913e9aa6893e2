package citydata

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestNormalizeSeriesFallsBackOnNonArray(t *testing.T) {
	fallback := Defaults.Series(SeriesTrafficFlow)

	tests := []struct {
		name string
		raw  any
	}{
		{"nil", nil},
		{"object", decode(t, `{"hour":"00:00","value":1}`)},
		{"string", "not a list"},
		{"number", 42.0},
		{"empty array", decode(t, `[]`)},
		{"only empty objects", decode(t, `[{},{}]`)},
		{"only non-objects", decode(t, `[1,"a",null]`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSeries(SeriesTrafficFlow, tt.raw, fallback)
			if diff := cmp.Diff(fallback, got); diff != "" {
				t.Fatalf("unexpected series (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeSeriesReturnsCopyOfFallback(t *testing.T) {
	fallback := []Point{{Label: "a", Value: 1}}
	got := NormalizeSeries(SeriesEnergyUsage, nil, fallback)
	got[0].Value = 99
	assert.Equal(t, 1.0, fallback[0].Value)
}

func TestNormalizeSeriesLegacyKeys(t *testing.T) {
	tests := []struct {
		name string
		kind SeriesKind
		raw  string
		want []Point
	}{
		{
			name: "traffic hour",
			kind: SeriesTrafficFlow,
			raw:  `[{"hour":"08:00","value":85},{"hour":"09:00","hourValue":"40"}]`,
			want: []Point{{Label: "08:00", Value: 85}, {Label: "09:00", Value: 40}},
		},
		{
			name: "energy day",
			kind: SeriesEnergyUsage,
			raw:  `[{"day":"Mon","value":2.3},{"day":"Tue","dayValue":"2.5"}]`,
			want: []Point{{Label: "Mon", Value: 2.3}, {Label: "Tue", Value: 2.5}},
		},
		{
			name: "air quality time",
			kind: SeriesAirQuality,
			raw:  `[{"time":"6 AM","value":"35"}]`,
			want: []Point{{Label: "6 AM", Value: 35}},
		},
		{
			name: "incidents by type count",
			kind: SeriesIncidentsByType,
			raw:  `[{"type":"Traffic","count":145},{"type":"Fire","typeValue":"7"}]`,
			want: []Point{{Label: "Traffic", Value: 145}, {Label: "Fire", Value: 7}},
		},
		{
			name: "explicit label wins over legacy key",
			kind: SeriesTrafficFlow,
			raw:  `[{"label":"noon","hour":"12:00","value":70}]`,
			want: []Point{{Label: "noon", Value: 70}},
		},
		{
			name: "numeric value wins over legacy value key",
			kind: SeriesIncidentsByType,
			raw:  `[{"type":"Traffic","value":3,"count":145}]`,
			want: []Point{{Label: "Traffic", Value: 3}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSeries(tt.kind, decode(t, tt.raw), nil)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected series (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeSeriesLegacyValueBeatsNonNumericValue(t *testing.T) {
	raw := decode(t, `[
		{"hour":"08:00","value":"n/a","hourValue":"85"},
		{"hour":"09:00","value":"72","hourValue":"40"},
		{"hour":"10:00","value":null,"hourValue":"bad"}
	]`)

	got := NormalizeSeries(SeriesTrafficFlow, raw, nil)

	want := []Point{
		{Label: "08:00", Value: 85},
		{Label: "09:00", Value: 72},
		{Label: "10:00", Value: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected series (-want +got):\n%s", diff)
	}
}

func TestNormalizeSeriesDropsOnlyUnlabeledPoints(t *testing.T) {
	raw := decode(t, `[
		{"hour":"00:00","value":45},
		{"value":10},
		{"hour":"","value":11},
		{"hour":"04:00","value":"n/a"},
		{"hour":"08:00"},
		{"hour":"00:00","value":5}
	]`)

	got := NormalizeSeries(SeriesTrafficFlow, raw, Defaults.Series(SeriesTrafficFlow))

	want := []Point{
		{Label: "00:00", Value: 45},
		{Label: "04:00", Value: 0},
		{Label: "08:00", Value: 0},
		{Label: "00:00", Value: 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected series (-want +got):\n%s", diff)
	}
}

func TestNormalizeSeriesRoundsIncidentCounts(t *testing.T) {
	raw := decode(t, `[{"type":"a","count":2.5},{"type":"b","count":2.4},{"type":"c","count":"7.6"}]`)

	got := NormalizeSeries(SeriesIncidentsByType, raw, nil)

	want := []Point{{Label: "a", Value: 3}, {Label: "b", Value: 2}, {Label: "c", Value: 8}}
	assert.Equal(t, want, got)
}

func TestNormalizeSeriesKeepsFractionsOutsideIncidentCounts(t *testing.T) {
	got := NormalizeSeries(SeriesEnergyUsage, decode(t, `[{"day":"Mon","value":2.45}]`), nil)
	require.Len(t, got, 1)
	assert.Equal(t, 2.45, got[0].Value)
}

func TestNormalizeAnalyticsFallsBackPerSeries(t *testing.T) {
	fallback := Defaults.Analytics()
	raw := RawAnalytics{
		TrafficFlow: decode(t, `[{"hour":"01:00","value":12}]`),
		EnergyUsage: "broken",
	}

	got := NormalizeAnalytics(raw, fallback)

	assert.Equal(t, []Point{{Label: "01:00", Value: 12}}, got.TrafficFlow)
	assert.Equal(t, fallback.EnergyUsage, got.EnergyUsage)
	assert.Equal(t, fallback.AirQuality, got.AirQuality)
	assert.Equal(t, fallback.IncidentsByType, got.IncidentsByType)
}

func TestSeriesKindString(t *testing.T) {
	assert.Equal(t, "incidentsByType", SeriesIncidentsByType.String())
	assert.Equal(t, "unknown", SeriesKind(42).String())
}
