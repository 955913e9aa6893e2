package citydata

// Raw payloads as decoded from backend JSON. Every field is optional and
// may hold any JSON value; the Normalize functions are the only readers.

type RawKPIs struct {
	TrafficFlow           any `json:"trafficFlow"`
	TrafficFlowChange     any `json:"trafficFlowChange"`
	TrafficFlowStatus     any `json:"trafficFlowStatus"`
	AirQuality            any `json:"airQuality"`
	AirQualityChange      any `json:"airQualityChange"`
	AirQualityStatus      any `json:"airQualityStatus"`
	EnergyUsage           any `json:"energyUsage"`
	EnergyUsageChange     any `json:"energyUsageChange"`
	EnergyUsageStatus     any `json:"energyUsageStatus"`
	ActiveIncidents       any `json:"activeIncidents"`
	ActiveIncidentsChange any `json:"activeIncidentsChange"`
	ActiveIncidentsStatus any `json:"activeIncidentsStatus"`
}

type RawDashboard struct {
	RecentIncidents any `json:"recentIncidents"`
	Incidents       any `json:"incidents"`
	Cameras         any `json:"cameras"`
}

// IncidentList prefers recentIncidents and falls back to incidents.
func (d RawDashboard) IncidentList() any {
	if d.RecentIncidents != nil {
		return d.RecentIncidents
	}
	return d.Incidents
}

type RawAnalytics struct {
	TrafficFlow     any `json:"trafficFlow"`
	EnergyUsage     any `json:"energyUsage"`
	AirQuality      any `json:"airQuality"`
	IncidentsByType any `json:"incidentsByType"`
	Insights        any `json:"insights"`
}

type RawLogin struct {
	Token any `json:"token"`
	ID    any `json:"id"`
	Email any `json:"email"`
	Name  any `json:"name"`
	Roles any `json:"roles"`
	Role  any `json:"role"`
	User  any `json:"user"`
}

// TokenString returns the issued token, or "" when the payload carries none.
func (r RawLogin) TokenString() string {
	s, _ := r.Token.(string)
	return s
}

type RawValidation struct {
	Valid any `json:"valid"`
	User  any `json:"user"`
}
