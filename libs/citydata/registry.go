package citydata

import "time"

// Registry serves the canonical default dataset shown whenever live data is
// missing or unusable. Every accessor returns a fresh deep copy; the
// templates below are never handed out directly.
type Registry struct {
	now func() time.Time
}

// NewRegistry returns a registry whose relative timestamps are computed from
// clock. A nil clock means time.Now.
func NewRegistry(clock func() time.Time) *Registry {
	if clock == nil {
		clock = time.Now
	}
	return &Registry{now: clock}
}

// Defaults is the process-wide registry on the wall clock.
var Defaults = NewRegistry(nil)

type incidentTemplate struct {
	incident   Incident
	ageMinutes int
	assignee   string
}

type insightTemplate struct {
	insight    AIInsight
	ageMinutes int
}

var defaultMetrics = []Metric{
	{Label: "Traffic Flow", Value: TextValue("87%"), PercentChange: 5.2, Status: MetricGood},
	{Label: "Air Quality Index", Value: TextValue("42"), PercentChange: -8.1, Status: MetricGood},
	{Label: "Energy Usage", Value: TextValue("2.4 GW"), PercentChange: -3.5, Status: MetricGood},
	{Label: "Active Incidents", Value: NumberValue(12), PercentChange: 15.3, Status: MetricWarning},
}

var defaultIncidents = []incidentTemplate{
	{
		incident: Incident{
			ID: "INC-001", Category: CategoryTraffic, Severity: SeverityHigh, Status: StatusOpen,
			LocationLabel: "Highway 101 North", Coordinates: &Coordinates{Lat: 37.7749, Lon: -122.4194},
			Description: "Heavy congestion detected, estimated 45min delay",
		},
		ageMinutes: 15,
		assignee:   "Traffic Dept.",
	},
	{
		incident: Incident{
			ID: "INC-002", Category: CategoryEmergency, Severity: SeverityCritical, Status: StatusInProgress,
			LocationLabel: "Downtown Plaza", Coordinates: &Coordinates{Lat: 37.7849, Lon: -122.4094},
			Description: "Fire alarm triggered at commercial building",
		},
		ageMinutes: 5,
		assignee:   "Fire Dept.",
	},
	{
		incident: Incident{
			ID: "INC-003", Category: CategoryPollution, Severity: SeverityMedium, Status: StatusOpen,
			LocationLabel: "Industrial District", Coordinates: &Coordinates{Lat: 37.7649, Lon: -122.4294},
			Description: "Elevated particulate matter levels detected",
		},
		ageMinutes: 120,
	},
	{
		incident: Incident{
			ID: "INC-004", Category: CategoryInfrastructure, Severity: SeverityLow, Status: StatusResolved,
			LocationLabel: "Water Treatment Plant 3", Coordinates: &Coordinates{Lat: 37.7549, Lon: -122.4394},
			Description: "Pump maintenance completed",
		},
		ageMinutes: 240,
		assignee:   "Utilities",
	},
}

var defaultCameraFeeds = []CameraFeed{
	{ID: "CAM-001", Name: "Highway 101 North", LocationLabel: "Mile Marker 42", Status: CameraOnline, StreamURL: "https://images.pexels.com/photos/2255441/pexels-photo-2255441.jpeg", ActiveIncidentCount: 3},
	{ID: "CAM-002", Name: "Downtown Plaza", LocationLabel: "Main & 5th", Status: CameraOnline, StreamURL: "https://images.pexels.com/photos/378570/pexels-photo-378570.jpeg", ActiveIncidentCount: 1},
	{ID: "CAM-003", Name: "Central Station", LocationLabel: "Transit Hub", Status: CameraOnline, StreamURL: "https://images.pexels.com/photos/1106476/pexels-photo-1106476.jpeg", ActiveIncidentCount: 0},
	{ID: "CAM-004", Name: "Industrial Zone", LocationLabel: "Sector 7", Status: CameraOnline, StreamURL: "https://images.pexels.com/photos/325185/pexels-photo-325185.jpeg", ActiveIncidentCount: 2},
	{ID: "CAM-005", Name: "Park Central", LocationLabel: "Green District", Status: CameraOffline, StreamURL: "", ActiveIncidentCount: 0},
	{ID: "CAM-006", Name: "Harbor Bridge", LocationLabel: "Waterfront", Status: CameraOnline, StreamURL: "https://images.pexels.com/photos/417074/pexels-photo-417074.jpeg", ActiveIncidentCount: 1},
}

var defaultInsights = []insightTemplate{
	{
		insight: AIInsight{ID: "AI-001", Kind: InsightPrediction, Title: "Traffic Surge Predicted",
			Description:       "Heavy traffic expected on Highway 101 between 5-7 PM. Recommend alternate routes.",
			ConfidencePercent: 94},
		ageMinutes: 10,
	},
	{
		insight: AIInsight{ID: "AI-002", Kind: InsightRecommendation, Title: "Energy Optimization",
			Description:       "Street lighting in District 4 can be reduced by 15% without safety impact.",
			ConfidencePercent: 87},
		ageMinutes: 30,
	},
	{
		insight: AIInsight{ID: "AI-003", Kind: InsightAlert, Title: "Air Quality Anomaly",
			Description:       "Unusual pollution spike detected near Industrial District. Investigating source.",
			ConfidencePercent: 92},
		ageMinutes: 45,
	},
	{
		insight: AIInsight{ID: "AI-004", Kind: InsightPrediction, Title: "Maintenance Required",
			Description:       "Water pump at Plant 3 showing degradation patterns. Schedule maintenance within 48h.",
			ConfidencePercent: 88},
		ageMinutes: 60,
	},
}

var defaultMarkers = []MapMarker{
	{ID: "M-001", Kind: MarkerTraffic, Coordinates: Coordinates{Lat: 37.7749, Lon: -122.4194}, Severity: severityPtr(SeverityHigh), Label: "Heavy Traffic"},
	{ID: "M-002", Kind: MarkerEmergency, Coordinates: Coordinates{Lat: 37.7849, Lon: -122.4094}, Severity: severityPtr(SeverityHigh), Label: "Fire Alert"},
	{ID: "M-003", Kind: MarkerPollution, Coordinates: Coordinates{Lat: 37.7649, Lon: -122.4294}, Severity: severityPtr(SeverityMedium), Label: "Air Quality"},
	{ID: "M-004", Kind: MarkerCamera, Coordinates: Coordinates{Lat: 37.7749, Lon: -122.4194}, Label: "CAM-001"},
	{ID: "M-005", Kind: MarkerCamera, Coordinates: Coordinates{Lat: 37.7849, Lon: -122.4094}, Label: "CAM-002"},
	{ID: "M-006", Kind: MarkerCamera, Coordinates: Coordinates{Lat: 37.7649, Lon: -122.4294}, Label: "CAM-004"},
}

var defaultSeries = map[SeriesKind][]Point{
	SeriesTrafficFlow: {
		{Label: "00:00", Value: 45}, {Label: "04:00", Value: 25}, {Label: "08:00", Value: 85},
		{Label: "12:00", Value: 70}, {Label: "16:00", Value: 90}, {Label: "20:00", Value: 65},
		{Label: "23:59", Value: 50},
	},
	SeriesEnergyUsage: {
		{Label: "Mon", Value: 2.3}, {Label: "Tue", Value: 2.5}, {Label: "Wed", Value: 2.4},
		{Label: "Thu", Value: 2.6}, {Label: "Fri", Value: 2.7}, {Label: "Sat", Value: 2.1},
		{Label: "Sun", Value: 1.9},
	},
	SeriesAirQuality: {
		{Label: "6 AM", Value: 35}, {Label: "9 AM", Value: 45}, {Label: "12 PM", Value: 52},
		{Label: "3 PM", Value: 48}, {Label: "6 PM", Value: 58}, {Label: "9 PM", Value: 42},
	},
	SeriesIncidentsByType: {
		{Label: "Traffic", Value: 145}, {Label: "Emergency", Value: 23},
		{Label: "Pollution", Value: 67}, {Label: "Infrastructure", Value: 89},
	},
}

func severityPtr(s Severity) *Severity { return &s }

func (r *Registry) Metrics() []Metric {
	out := make([]Metric, len(defaultMetrics))
	copy(out, defaultMetrics)
	return out
}

func (r *Registry) Incidents() []Incident {
	now := r.now()
	out := make([]Incident, 0, len(defaultIncidents))
	for _, tpl := range defaultIncidents {
		inc := tpl.incident
		inc.OccurredAt = now.Add(-time.Duration(tpl.ageMinutes) * time.Minute)
		inc.Coordinates = copyCoordinates(tpl.incident.Coordinates)
		if tpl.assignee != "" {
			assignee := tpl.assignee
			inc.Assignee = &assignee
		}
		out = append(out, inc)
	}
	return out
}

func (r *Registry) CameraFeeds() []CameraFeed {
	out := make([]CameraFeed, len(defaultCameraFeeds))
	copy(out, defaultCameraFeeds)
	return out
}

func (r *Registry) Insights() []AIInsight {
	now := r.now()
	out := make([]AIInsight, 0, len(defaultInsights))
	for _, tpl := range defaultInsights {
		in := tpl.insight
		in.ProducedAt = now.Add(-time.Duration(tpl.ageMinutes) * time.Minute)
		out = append(out, in)
	}
	return out
}

func (r *Registry) MapMarkers() []MapMarker {
	return copyMarkers(defaultMarkers, func(MapMarker) bool { return true })
}

// IncidentMarkers is the non-camera part of the default marker set.
func (r *Registry) IncidentMarkers() []MapMarker {
	return copyMarkers(defaultMarkers, func(m MapMarker) bool { return m.Kind != MarkerCamera })
}

// CameraMarkers is the camera part of the default marker set.
func (r *Registry) CameraMarkers() []MapMarker {
	return copyMarkers(defaultMarkers, func(m MapMarker) bool { return m.Kind == MarkerCamera })
}

func (r *Registry) Series(kind SeriesKind) []Point {
	return copyPoints(defaultSeries[kind])
}

func (r *Registry) Analytics() AnalyticsSeries {
	return AnalyticsSeries{
		TrafficFlow:     r.Series(SeriesTrafficFlow),
		EnergyUsage:     r.Series(SeriesEnergyUsage),
		AirQuality:      r.Series(SeriesAirQuality),
		IncidentsByType: r.Series(SeriesIncidentsByType),
	}
}

func copyCoordinates(c *Coordinates) *Coordinates {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func copyMarkers(src []MapMarker, keep func(MapMarker) bool) []MapMarker {
	out := make([]MapMarker, 0, len(src))
	for _, m := range src {
		if !keep(m) {
			continue
		}
		if m.Severity != nil {
			m.Severity = severityPtr(*m.Severity)
		}
		out = append(out, m)
	}
	return out
}

func copyPoints(src []Point) []Point {
	out := make([]Point, len(src))
	copy(out, src)
	return out
}
