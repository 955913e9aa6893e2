package citydata

import (
	"encoding/json"
	"strconv"
	"time"
)

type MetricStatus string

const (
	MetricGood     MetricStatus = "good"
	MetricWarning  MetricStatus = "warning"
	MetricCritical MetricStatus = "critical"
)

type IncidentCategory string

const (
	CategoryTraffic        IncidentCategory = "traffic"
	CategoryEmergency      IncidentCategory = "emergency"
	CategoryPollution      IncidentCategory = "pollution"
	CategoryInfrastructure IncidentCategory = "infrastructure"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type IncidentStatus string

const (
	StatusOpen       IncidentStatus = "open"
	StatusInProgress IncidentStatus = "in-progress"
	StatusResolved   IncidentStatus = "resolved"
)

type CameraStatus string

const (
	CameraOnline  CameraStatus = "online"
	CameraOffline CameraStatus = "offline"
)

type InsightKind string

const (
	InsightPrediction     InsightKind = "prediction"
	InsightRecommendation InsightKind = "recommendation"
	InsightAlert          InsightKind = "alert"
)

type MarkerKind string

const (
	MarkerTraffic   MarkerKind = "traffic"
	MarkerPollution MarkerKind = "pollution"
	MarkerEmergency MarkerKind = "emergency"
	MarkerCamera    MarkerKind = "camera"
)

// Coordinates is a (latitude, longitude) pair in degrees. It marshals as a
// two-element JSON array, the shape the map view consumes.
type Coordinates struct {
	Lat float64
	Lon float64
}

func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lon})
}

func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	c.Lat, c.Lon = pair[0], pair[1]
	return nil
}

// MetricValue holds either a display string ("87%") or a plain number (12).
type MetricValue struct {
	Text     string
	Number   float64
	IsNumber bool
}

func TextValue(s string) MetricValue { return MetricValue{Text: s} }

func NumberValue(n float64) MetricValue { return MetricValue{Number: n, IsNumber: true} }

func (v MetricValue) String() string {
	if v.IsNumber {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

func (v MetricValue) MarshalJSON() ([]byte, error) {
	if v.IsNumber {
		return json.Marshal(v.Number)
	}
	return json.Marshal(v.Text)
}

func (v *MetricValue) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NumberValue(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = TextValue(s)
	return nil
}

type Metric struct {
	Label         string       `json:"label"`
	Value         MetricValue  `json:"value"`
	PercentChange float64      `json:"change"`
	Status        MetricStatus `json:"status"`
}

type Incident struct {
	ID            string           `json:"id"`
	Category      IncidentCategory `json:"type"`
	Severity      Severity         `json:"severity"`
	Status        IncidentStatus   `json:"status"`
	LocationLabel string           `json:"location"`
	Coordinates   *Coordinates     `json:"coordinates,omitempty"`
	Description   string           `json:"description"`
	OccurredAt    time.Time        `json:"timestamp"`
	Assignee      *string          `json:"assignedTo,omitempty"`
}

type CameraFeed struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	LocationLabel       string       `json:"location"`
	Status              CameraStatus `json:"status"`
	StreamURL           string       `json:"stream"`
	ActiveIncidentCount int          `json:"incidents"`
}

type AIInsight struct {
	ID                string      `json:"id"`
	Kind              InsightKind `json:"type"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	ConfidencePercent float64     `json:"confidence"`
	ProducedAt        time.Time   `json:"timestamp"`
}

type MapMarker struct {
	ID          string      `json:"id"`
	Kind        MarkerKind  `json:"type"`
	Coordinates Coordinates `json:"coordinates"`
	Severity    *Severity   `json:"severity,omitempty"`
	Label       string      `json:"label"`
}

// Point is one labeled value of a chart series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type AnalyticsSeries struct {
	TrafficFlow     []Point `json:"trafficFlow"`
	EnergyUsage     []Point `json:"energyUsage"`
	AirQuality      []Point `json:"airQuality"`
	IncidentsByType []Point `json:"incidentsByType"`
}

// User is the signed-in operator as reported by the backend.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

const DefaultUserRole = "User"
