package citydata

import "strings"

// Every enum coming off the wire goes through one of these tables. Keys are
// matched case-insensitively after trimming; anything not listed takes the
// fallback arm of the corresponding function.

var categoryTable = map[string]IncidentCategory{
	"traffic":        CategoryTraffic,
	"emergency":      CategoryEmergency,
	"pollution":      CategoryPollution,
	"infrastructure": CategoryInfrastructure,
}

var severityTable = map[string]Severity{
	"low":      SeverityLow,
	"medium":   SeverityMedium,
	"moderate": SeverityMedium,
	"high":     SeverityHigh,
	"critical": SeverityCritical,
}

var incidentStatusTable = map[string]IncidentStatus{
	"open":        StatusOpen,
	"new":         StatusOpen,
	"reported":    StatusOpen,
	"in-progress": StatusInProgress,
	"in_progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"assigned":    StatusInProgress,
	"resolved":    StatusResolved,
	"closed":      StatusResolved,
}

var metricStatusTable = map[string]MetricStatus{
	"good":     MetricGood,
	"ok":       MetricGood,
	"warning":  MetricWarning,
	"warn":     MetricWarning,
	"critical": MetricCritical,
	"bad":      MetricCritical,
}

var cameraStatusTable = map[string]CameraStatus{
	"online":  CameraOnline,
	"active":  CameraOnline,
	"offline": CameraOffline,
}

var insightKindTable = map[string]InsightKind{
	"prediction":     InsightPrediction,
	"recommendation": InsightRecommendation,
	"alert":          InsightAlert,
	"warning":        InsightAlert,
}

var markerKindTable = map[IncidentCategory]MarkerKind{
	CategoryTraffic:   MarkerTraffic,
	CategoryEmergency: MarkerEmergency,
	CategoryPollution: MarkerPollution,
}

var markerSeverityTable = map[Severity]Severity{
	SeverityLow:      SeverityLow,
	SeverityMedium:   SeverityMedium,
	SeverityHigh:     SeverityHigh,
	SeverityCritical: SeverityHigh,
}

func enumKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseCategory maps a backend incident type. Unknown values become traffic.
func ParseCategory(s string) IncidentCategory {
	if v, ok := categoryTable[enumKey(s)]; ok {
		return v
	}
	return CategoryTraffic
}

// ParseSeverity maps a backend severity. Unknown values become medium.
func ParseSeverity(s string) Severity {
	if v, ok := severityTable[enumKey(s)]; ok {
		return v
	}
	return SeverityMedium
}

// ParseIncidentStatus maps a backend incident status. Unknown values become open.
func ParseIncidentStatus(s string) IncidentStatus {
	if v, ok := incidentStatusTable[enumKey(s)]; ok {
		return v
	}
	return StatusOpen
}

// ParseMetricStatus reports the mapped status and whether s was recognised,
// so callers can keep their own default instead of the warning arm.
func ParseMetricStatus(s string) (MetricStatus, bool) {
	v, ok := metricStatusTable[enumKey(s)]
	if !ok {
		return MetricWarning, false
	}
	return v, true
}

// ParseCameraStatus maps a backend camera status. Unknown values become offline.
func ParseCameraStatus(s string) CameraStatus {
	if v, ok := cameraStatusTable[enumKey(s)]; ok {
		return v
	}
	return CameraOffline
}

// ParseInsightKind maps a backend insight type. Unknown values become recommendation.
func ParseInsightKind(s string) InsightKind {
	if v, ok := insightKindTable[enumKey(s)]; ok {
		return v
	}
	return InsightRecommendation
}

// MarkerKindForCategory narrows an incident category to the marker kinds a
// map can draw. Infrastructure and anything else is drawn as traffic.
func MarkerKindForCategory(c IncidentCategory) MarkerKind {
	if v, ok := markerKindTable[c]; ok {
		return v
	}
	return MarkerTraffic
}

// MarkerSeverity maps an incident severity onto the three marker levels.
// Critical collapses to high; anything unknown yields nil.
func MarkerSeverity(s Severity) *Severity {
	v, ok := markerSeverityTable[s]
	if !ok {
		return nil
	}
	return &v
}
