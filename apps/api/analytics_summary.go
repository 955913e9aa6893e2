package main

import (
	"math"

	"smartcity/libs/citydata"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type SeriesSummary struct {
	Series    string  `json:"series"`
	Points    int     `json:"points"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stdDev"`
	Peak      float64 `json:"peak"`
	PeakLabel string  `json:"peakLabel"`
}

type CategoryShare struct {
	Label   string  `json:"label"`
	Count   float64 `json:"count"`
	Percent float64 `json:"percent"`
}

type AnalyticsSummary struct {
	Series         []SeriesSummary `json:"series"`
	IncidentTotal  float64         `json:"incidentTotal"`
	IncidentShares []CategoryShare `json:"incidentShares"`
}

func summarizeAnalytics(series citydata.AnalyticsSeries) AnalyticsSummary {
	summary := AnalyticsSummary{Series: make([]SeriesSummary, 0, len(citydata.AllSeries))}
	for _, kind := range citydata.AllSeries {
		summary.Series = append(summary.Series, summarizeSeries(kind, series.Get(kind)))
	}

	counts := pointValues(series.IncidentsByType)
	summary.IncidentTotal = floats.Sum(counts)
	summary.IncidentShares = make([]CategoryShare, 0, len(counts))
	for i, p := range series.IncidentsByType {
		share := CategoryShare{Label: p.Label, Count: p.Value}
		if summary.IncidentTotal > 0 {
			share.Percent = round1(counts[i] / summary.IncidentTotal * 100)
		}
		summary.IncidentShares = append(summary.IncidentShares, share)
	}
	return summary
}

func summarizeSeries(kind citydata.SeriesKind, points []citydata.Point) SeriesSummary {
	s := SeriesSummary{Series: kind.String(), Points: len(points)}
	if len(points) == 0 {
		return s
	}
	values := pointValues(points)
	s.Mean = round1(stat.Mean(values, nil))
	if len(values) > 1 {
		s.StdDev = round1(stat.StdDev(values, nil))
	}
	peak := floats.MaxIdx(values)
	s.Peak = values[peak]
	s.PeakLabel = points[peak].Label
	return s
}

func pointValues(points []citydata.Point) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
