package citydata

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestNumberOf(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{12.5, 12.5, true},
		{" 7 ", 7, true},
		{json.Number("3"), 3, true},
		{true, 1, true},
		{"", 0, false},
		{"12abc", 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
		{nil, 0, false},
		{[]any{1.0}, 0, false},
	}
	for _, tt := range tests {
		got, ok := numberOf(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("numberOf(%#v): expected (%v, %v), got (%v, %v)", tt.in, tt.want, tt.wantOK, got, ok)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]float64{2.5: 3, 2.49: 2, -2.5: -2, 0: 0}
	for in, want := range cases {
		if got := roundHalfUp(in); got != want {
			t.Fatalf("roundHalfUp(%v): expected %v, got %v", in, want, got)
		}
	}
}

func TestTimeOf(t *testing.T) {
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if got := timeOf("2024-05-01T12:00:00+02:00"); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := timeOf("2024-05-01 10:00:00"); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := timeOf(float64(want.UnixMilli())); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := timeOf(map[string]any{}); !got.IsZero() {
		t.Fatalf("expected zero time, got %v", got)
	}
}

func TestValidCoordinates(t *testing.T) {
	if !ValidCoordinates(37.77, -122.41) {
		t.Fatal("expected San Francisco to be valid")
	}
	for _, pair := range [][2]float64{{91, 0}, {0, 181}, {math.NaN(), 0}, {0, math.Inf(-1)}} {
		if ValidCoordinates(pair[0], pair[1]) {
			t.Fatalf("expected %v to be invalid", pair)
		}
	}
}

func TestEnumFallbackArms(t *testing.T) {
	if ParseCategory("???") != CategoryTraffic {
		t.Fatal("expected unknown category to map to traffic")
	}
	if ParseSeverity("") != SeverityMedium {
		t.Fatal("expected unknown severity to map to medium")
	}
	if ParseIncidentStatus("pending review") != StatusOpen {
		t.Fatal("expected unknown status to map to open")
	}
	if ParseCameraStatus("rebooting") != CameraOffline {
		t.Fatal("expected unknown camera status to map to offline")
	}
	if ParseInsightKind("") != InsightRecommendation {
		t.Fatal("expected unknown insight kind to map to recommendation")
	}
	if s, ok := ParseMetricStatus("nope"); ok || s != MetricWarning {
		t.Fatalf("expected unrecognised warning arm, got %q %v", s, ok)
	}
	if MarkerSeverity(SeverityCritical) == nil || *MarkerSeverity(SeverityCritical) != SeverityHigh {
		t.Fatal("expected critical marker severity to collapse to high")
	}
	if MarkerSeverity(Severity("x")) != nil {
		t.Fatal("expected unknown marker severity to be nil")
	}
}

func TestMetricValueJSON(t *testing.T) {
	b, err := json.Marshal([]MetricValue{TextValue("87%"), NumberValue(12)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `["87%",12]` {
		t.Fatalf("unexpected json %s", b)
	}
}
