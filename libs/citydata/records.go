package citydata

import "math"

type kpiField struct {
	value, change, status any
	render                func(float64) MetricValue
}

// NormalizeKPIs builds the four headline metrics. Each value, change and
// status falls back independently to the metric at the same position in
// fallback (or the built-in default when fallback is short).
func NormalizeKPIs(raw RawKPIs, fallback []Metric) []Metric {
	fields := []kpiField{
		{raw.TrafficFlow, raw.TrafficFlowChange, raw.TrafficFlowStatus, func(v float64) MetricValue {
			return TextValue(formatNumber(roundTo(clamp(v, 0, 100), 1)) + "%")
		}},
		{raw.AirQuality, raw.AirQualityChange, raw.AirQualityStatus, func(v float64) MetricValue {
			return TextValue(formatNumber(math.Round(math.Max(v, 0))))
		}},
		{raw.EnergyUsage, raw.EnergyUsageChange, raw.EnergyUsageStatus, func(v float64) MetricValue {
			return TextValue(formatNumber(roundTo(math.Max(v, 0), 1)) + " GW")
		}},
		{raw.ActiveIncidents, raw.ActiveIncidentsChange, raw.ActiveIncidentsStatus, func(v float64) MetricValue {
			return NumberValue(math.Max(roundHalfUp(v), 0))
		}},
	}

	out := make([]Metric, 0, len(fields))
	for i, f := range fields {
		m := metricAt(fallback, i)
		if v, ok := numberOf(f.value); ok {
			m.Value = f.render(v)
		}
		if c, ok := numberOf(f.change); ok {
			m.PercentChange = roundTo(clamp(c, -100, 100), 1)
		}
		if s, ok := ParseMetricStatus(stringOf(f.status)); ok {
			m.Status = s
		}
		out = append(out, m)
	}
	return out
}

func metricAt(fallback []Metric, i int) Metric {
	if i < len(fallback) {
		return fallback[i]
	}
	return defaultMetrics[i]
}

// NormalizeIncidents coerces a raw incident list. A non-array input yields
// nil; non-object elements are skipped. Incidents without a usable
// coordinate pair are kept with nil Coordinates.
func NormalizeIncidents(raw any) []Incident {
	items, ok := asArray(raw)
	if !ok {
		return nil
	}
	ids := newIDSequence("INC")
	out := make([]Incident, 0, len(items))
	for _, item := range items {
		obj, ok := asObject(item)
		if !ok {
			continue
		}
		out = append(out, incidentOf(obj, ids))
	}
	return out
}

func incidentOf(obj map[string]any, ids *idSequence) Incident {
	inc := Incident{
		ID:            ids.or(stringField(obj, "id")),
		Category:      ParseCategory(stringField(obj, "type", "category")),
		Severity:      ParseSeverity(stringField(obj, "severity", "priority")),
		Status:        ParseIncidentStatus(stringField(obj, "status")),
		LocationLabel: stringField(obj, "location", "locationName", "address"),
		Coordinates:   coordinatesOf(obj),
		Description:   stringField(obj, "description", "title"),
	}
	if ts, ok := field(obj, "timestamp", "createdAt", "reportedAt"); ok {
		inc.OccurredAt = timeOf(ts)
	}
	if a := stringField(obj, "assignedTo", "assignee"); a != "" {
		inc.Assignee = &a
	}
	return inc
}

// NormalizeCameras coerces a raw camera list. Offline feeds never carry a
// stream URL and incident counts are whole and non-negative.
func NormalizeCameras(raw any) []CameraFeed {
	items, ok := asArray(raw)
	if !ok {
		return nil
	}
	out := make([]CameraFeed, 0, len(items))
	ids := newIDSequence("CAM")
	for _, item := range items {
		obj, ok := asObject(item)
		if !ok {
			continue
		}
		feed := CameraFeed{
			ID:            ids.or(stringField(obj, "id")),
			Name:          stringField(obj, "name"),
			LocationLabel: stringField(obj, "location", "locationName"),
			Status:        ParseCameraStatus(stringField(obj, "status")),
			StreamURL:     stringField(obj, "stream", "streamUrl"),
		}
		if feed.Status == CameraOffline {
			feed.StreamURL = ""
		}
		if v, ok := field(obj, "incidents", "activeIncidents"); ok {
			feed.ActiveIncidentCount = int(math.Max(roundHalfUp(numberOr(v, 0)), 0))
		}
		out = append(out, feed)
	}
	return out
}

func NormalizeInsights(raw any) []AIInsight {
	items, ok := asArray(raw)
	if !ok {
		return nil
	}
	out := make([]AIInsight, 0, len(items))
	ids := newIDSequence("AI")
	for _, item := range items {
		obj, ok := asObject(item)
		if !ok {
			continue
		}
		in := AIInsight{
			ID:                ids.or(stringField(obj, "id")),
			Kind:              ParseInsightKind(stringField(obj, "type", "kind")),
			Title:             stringField(obj, "title"),
			Description:       stringField(obj, "description", "message"),
			ConfidencePercent: clamp(numberOr(obj["confidence"], 0), 0, 100),
		}
		if ts, ok := field(obj, "timestamp", "createdAt"); ok {
			in.ProducedAt = timeOf(ts)
		}
		out = append(out, in)
	}
	return out
}

// NormalizeUser reads the signed-in user from a login payload. Fields may
// sit at the top level or under "user"; the role is the first entry of
// roles, defaulting to DefaultUserRole.
func NormalizeUser(raw RawLogin) User {
	obj := map[string]any{
		"id":    raw.ID,
		"email": raw.Email,
		"name":  raw.Name,
		"roles": raw.Roles,
		"role":  raw.Role,
	}
	if nested, ok := asObject(raw.User); ok {
		for k, v := range nested {
			if v != nil {
				obj[k] = v
			}
		}
	}
	return userOf(obj)
}

// NormalizeValidation reports whether the backend accepted the token and
// the user it belongs to, when the payload names one.
func NormalizeValidation(raw RawValidation) (bool, *User) {
	valid := truthy(raw.Valid)
	obj, ok := asObject(raw.User)
	if !ok {
		return valid, nil
	}
	u := userOf(obj)
	return valid, &u
}

func userOf(obj map[string]any) User {
	u := User{
		ID:    stringField(obj, "id"),
		Email: stringField(obj, "email"),
		Name:  stringField(obj, "name"),
		Role:  DefaultUserRole,
	}
	if roles, ok := asArray(obj["roles"]); ok && len(roles) > 0 {
		if r := stringOf(roles[0]); r != "" {
			u.Role = r
		}
	} else if r := stringField(obj, "role"); r != "" {
		u.Role = r
	}
	return u
}
