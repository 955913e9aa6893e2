package citydata

// ToMapMarkers plots incidents followed by cameras. Records without a valid
// coordinate pair are left out. An empty result is returned as is; swapping
// in the default marker set is the caller's decision.
func ToMapMarkers(rawIncidents, rawCameras any) []MapMarker {
	out := IncidentMarkers(rawIncidents)
	return append(out, CameraMarkers(rawCameras)...)
}

func IncidentMarkers(raw any) []MapMarker {
	items, ok := asArray(raw)
	if !ok {
		return []MapMarker{}
	}
	ids := newIDSequence("INC")
	out := make([]MapMarker, 0, len(items))
	for _, item := range items {
		obj, ok := asObject(item)
		if !ok {
			continue
		}
		id := ids.or(stringField(obj, "id"))
		coords := coordinatesOf(obj)
		if coords == nil {
			continue
		}
		label := stringField(obj, "location", "locationName", "description")
		if label == "" {
			label = id
		}
		out = append(out, MapMarker{
			ID:          id,
			Kind:        MarkerKindForCategory(ParseCategory(stringField(obj, "type", "category"))),
			Coordinates: *coords,
			Severity:    markerSeverityOf(obj),
			Label:       label,
		})
	}
	return out
}

func CameraMarkers(raw any) []MapMarker {
	items, ok := asArray(raw)
	if !ok {
		return []MapMarker{}
	}
	ids := newIDSequence("CAM")
	out := make([]MapMarker, 0, len(items))
	for _, item := range items {
		obj, ok := asObject(item)
		if !ok {
			continue
		}
		id := ids.or(stringField(obj, "id"))
		coords := coordinatesOf(obj)
		if coords == nil {
			continue
		}
		label := stringField(obj, "name")
		if label == "" {
			label = id
		}
		out = append(out, MapMarker{
			ID:          id,
			Kind:        MarkerCamera,
			Coordinates: *coords,
			Label:       label,
		})
	}
	return out
}

func markerSeverityOf(obj map[string]any) *Severity {
	s := stringField(obj, "severity", "priority")
	if s == "" {
		return nil
	}
	v, ok := severityTable[enumKey(s)]
	if !ok {
		return nil
	}
	return MarkerSeverity(v)
}
