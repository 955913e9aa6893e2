package citydata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefaultsAreComplete(t *testing.T) {
	r := NewRegistry(nil)

	assert.Len(t, r.Metrics(), 4)
	assert.Len(t, r.Incidents(), 4)
	assert.Len(t, r.CameraFeeds(), 6)
	assert.Len(t, r.Insights(), 4)
	assert.Len(t, r.MapMarkers(), 6)
	assert.Len(t, r.IncidentMarkers(), 3)
	assert.Len(t, r.CameraMarkers(), 3)

	a := r.Analytics()
	assert.Len(t, a.TrafficFlow, 7)
	assert.Len(t, a.EnergyUsage, 7)
	assert.Len(t, a.AirQuality, 6)
	assert.Len(t, a.IncidentsByType, 4)

	for _, m := range r.MapMarkers() {
		if !ValidCoordinates(m.Coordinates.Lat, m.Coordinates.Lon) {
			t.Fatalf("default marker %s has invalid coordinates", m.ID)
		}
	}
}

func TestRegistryHandsOutDeepCopies(t *testing.T) {
	r := NewRegistry(nil)

	incidents := r.Incidents()
	incidents[0].Coordinates.Lat = 0
	*incidents[0].Assignee = "nobody"
	incidents[1].Description = "changed"

	markers := r.MapMarkers()
	*markers[0].Severity = SeverityLow
	markers[0].Coordinates.Lat = 0

	series := r.Series(SeriesTrafficFlow)
	series[0].Value = -1

	feeds := r.CameraFeeds()
	feeds[0].Name = "changed"

	fresh := r.Incidents()
	assert.Equal(t, 37.7749, fresh[0].Coordinates.Lat)
	assert.Equal(t, "Traffic Dept.", *fresh[0].Assignee)
	assert.Equal(t, "Fire alarm triggered at commercial building", fresh[1].Description)
	assert.Equal(t, SeverityHigh, *r.MapMarkers()[0].Severity)
	assert.Equal(t, 37.7749, r.MapMarkers()[0].Coordinates.Lat)
	assert.Equal(t, 45.0, r.Series(SeriesTrafficFlow)[0].Value)
	assert.Equal(t, "Highway 101 North", r.CameraFeeds()[0].Name)
}

func TestRegistryTimestampsFollowClock(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(func() time.Time { return now })

	incidents := r.Incidents()
	require.Len(t, incidents, 4)
	assert.Equal(t, now.Add(-15*time.Minute), incidents[0].OccurredAt)
	assert.Equal(t, now.Add(-240*time.Minute), incidents[3].OccurredAt)
	assert.Nil(t, incidents[2].Assignee)

	insights := r.Insights()
	assert.Equal(t, now.Add(-10*time.Minute), insights[0].ProducedAt)
}

func TestRegistryMarkerSubsets(t *testing.T) {
	r := NewRegistry(nil)
	for _, m := range r.IncidentMarkers() {
		assert.NotEqual(t, MarkerCamera, m.Kind)
	}
	for _, m := range r.CameraMarkers() {
		assert.Equal(t, MarkerCamera, m.Kind)
		assert.Nil(t, m.Severity)
	}
}
