package citydata

type SeriesKind int

const (
	SeriesTrafficFlow SeriesKind = iota
	SeriesEnergyUsage
	SeriesAirQuality
	SeriesIncidentsByType
)

type seriesSpec struct {
	name      string
	labelKey  string
	valueKeys []string
	round     bool
}

var seriesSpecs = map[SeriesKind]seriesSpec{
	SeriesTrafficFlow:     {name: "trafficFlow", labelKey: "hour", valueKeys: []string{"value", "hourValue"}},
	SeriesEnergyUsage:     {name: "energyUsage", labelKey: "day", valueKeys: []string{"value", "dayValue"}},
	SeriesAirQuality:      {name: "airQuality", labelKey: "time", valueKeys: []string{"value", "timeValue"}},
	SeriesIncidentsByType: {name: "incidentsByType", labelKey: "type", valueKeys: []string{"count", "typeValue"}, round: true},
}

// AllSeries lists the analytics series in display order.
var AllSeries = []SeriesKind{SeriesTrafficFlow, SeriesEnergyUsage, SeriesAirQuality, SeriesIncidentsByType}

func (k SeriesKind) String() string {
	if spec, ok := seriesSpecs[k]; ok {
		return spec.name
	}
	return "unknown"
}

// NormalizeSeries turns a raw analytics series into chart points.
//
// A non-array input, or one where no element survives, yields a copy of
// fallback. Elements must be objects with a label (explicit "label" or the
// series' legacy key); their value is a numeric "value" when present, else
// the first legacy value key that coerces to a number, else 0. Order is preserved and duplicate
// labels are kept.
func NormalizeSeries(kind SeriesKind, raw any, fallback []Point) []Point {
	items, ok := asArray(raw)
	if !ok {
		return copyPoints(fallback)
	}
	spec := seriesSpecs[kind]

	out := make([]Point, 0, len(items))
	for _, item := range items {
		obj, ok := asObject(item)
		if !ok {
			continue
		}
		label := seriesLabel(obj, spec)
		if label == "" {
			continue
		}
		value := seriesValue(obj, spec)
		if spec.round {
			value = roundHalfUp(value)
		}
		out = append(out, Point{Label: label, Value: value})
	}
	if len(out) == 0 {
		return copyPoints(fallback)
	}
	return out
}

func seriesLabel(obj map[string]any, spec seriesSpec) string {
	if v, ok := field(obj, "label"); ok {
		return stringOf(v)
	}
	v, _ := field(obj, spec.labelKey)
	return stringOf(v)
}

func seriesValue(obj map[string]any, spec seriesSpec) float64 {
	if v, ok := obj["value"]; ok && isNumber(v) {
		f, _ := numberOf(v)
		return f
	}
	for _, key := range spec.valueKeys {
		if v, ok := field(obj, key); ok {
			if f, ok := numberOf(v); ok {
				return f
			}
		}
	}
	return 0
}

// NormalizeAnalytics normalizes all four series, each against its own
// fallback.
func NormalizeAnalytics(raw RawAnalytics, fallback AnalyticsSeries) AnalyticsSeries {
	return AnalyticsSeries{
		TrafficFlow:     NormalizeSeries(SeriesTrafficFlow, raw.TrafficFlow, fallback.TrafficFlow),
		EnergyUsage:     NormalizeSeries(SeriesEnergyUsage, raw.EnergyUsage, fallback.EnergyUsage),
		AirQuality:      NormalizeSeries(SeriesAirQuality, raw.AirQuality, fallback.AirQuality),
		IncidentsByType: NormalizeSeries(SeriesIncidentsByType, raw.IncidentsByType, fallback.IncidentsByType),
	}
}

// Get returns the series of the given kind.
func (a AnalyticsSeries) Get(kind SeriesKind) []Point {
	switch kind {
	case SeriesTrafficFlow:
		return a.TrafficFlow
	case SeriesEnergyUsage:
		return a.EnergyUsage
	case SeriesAirQuality:
		return a.AirQuality
	case SeriesIncidentsByType:
		return a.IncidentsByType
	}
	return nil
}
