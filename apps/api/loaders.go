package main

import (
	"context"
	"strings"

	"smartcity/libs/backend"
	"smartcity/libs/citydata"

	"golang.org/x/sync/errgroup"
)

type dataSource string

const (
	sourceLive     dataSource = "live"
	sourcePartial  dataSource = "partial"
	sourceFallback dataSource = "fallback"
)

// sourceTracker counts how many parts of a view came from the backend and
// keeps the user message of the first failure.
type sourceTracker struct {
	parts    int
	fallback int
	notice   string
}

// live records a part that needed no fallback.
func (t *sourceTracker) live() { t.parts++ }

// failed records a part replaced by registry data because of err.
func (t *sourceTracker) failed(err error) {
	t.parts++
	t.fallback++
	if t.notice == "" {
		t.notice = backend.UserMessage(err)
	}
}

// empty records a part replaced by registry data because the backend sent
// nothing usable. Shape problems are not reported to the user.
func (t *sourceTracker) empty() {
	t.parts++
	t.fallback++
}

func (t *sourceTracker) source() dataSource {
	switch {
	case t.fallback == 0:
		return sourceLive
	case t.fallback == t.parts:
		return sourceFallback
	default:
		return sourcePartial
	}
}

type DashboardView struct {
	Source          dataSource           `json:"source"`
	Notice          string               `json:"notice,omitempty"`
	Metrics         []citydata.Metric    `json:"metrics"`
	RecentIncidents []citydata.Incident  `json:"recentIncidents"`
	Insights        []citydata.AIInsight `json:"insights"`
}

type AnalyticsView struct {
	Source  dataSource               `json:"source"`
	Notice  string                   `json:"notice,omitempty"`
	Series  citydata.AnalyticsSeries `json:"series"`
	Summary AnalyticsSummary         `json:"summary"`
}

type MapView struct {
	Source  dataSource           `json:"source"`
	Notice  string               `json:"notice,omitempty"`
	Markers []citydata.MapMarker `json:"markers"`
}

type CamerasView struct {
	Source  dataSource            `json:"source"`
	Notice  string                `json:"notice,omitempty"`
	Feeds   []citydata.CameraFeed `json:"feeds"`
	Online  int                   `json:"online"`
	Offline int                   `json:"offline"`
}

type IncidentStats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
}

type IncidentsView struct {
	Source    dataSource          `json:"source"`
	Notice    string              `json:"notice,omitempty"`
	Filter    string              `json:"filter"`
	Query     string              `json:"query,omitempty"`
	Incidents []citydata.Incident `json:"incidents"`
	Stats     IncidentStats       `json:"stats"`
}

// fanoutContext bounds concurrent backend calls for one view.
func (a *App) fanoutContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.FanoutTimeout)
}

func (a *App) loadDashboard(ctx context.Context) DashboardView {
	ctx, cancel := a.fanoutContext(ctx)
	defer cancel()

	var (
		kpis      citydata.RawKPIs
		dash      citydata.RawDashboard
		analytics citydata.RawAnalytics
		kpiErr    error
		dashErr   error
		anaErr    error
		g         errgroup.Group
	)
	// Each call records its own error; one failing source must not cancel
	// the others.
	g.Go(func() error { kpis, kpiErr = a.backend.KPIs(ctx); return nil })
	g.Go(func() error { dash, dashErr = a.backend.Dashboard(ctx); return nil })
	g.Go(func() error { analytics, anaErr = a.backend.Analytics(ctx); return nil })
	_ = g.Wait()

	var track sourceTracker
	view := DashboardView{}

	if kpiErr != nil {
		a.log.Warn("kpis unavailable, using defaults", "err", kpiErr)
		track.failed(kpiErr)
		view.Metrics = a.registry.Metrics()
	} else {
		track.live()
		view.Metrics = citydata.NormalizeKPIs(kpis, a.registry.Metrics())
	}

	view.RecentIncidents = a.incidentsOrDefault(dash, dashErr, &track)

	switch insights := citydata.NormalizeInsights(analytics.Insights); {
	case anaErr != nil:
		a.log.Warn("insights unavailable, using defaults", "err", anaErr)
		track.failed(anaErr)
		view.Insights = a.registry.Insights()
	case len(insights) == 0:
		track.empty()
		view.Insights = a.registry.Insights()
	default:
		track.live()
		view.Insights = insights
	}

	view.Source = track.source()
	view.Notice = track.notice
	return view
}

func (a *App) incidentsOrDefault(dash citydata.RawDashboard, err error, track *sourceTracker) []citydata.Incident {
	if err != nil {
		a.log.Warn("incidents unavailable, using defaults", "err", err)
		track.failed(err)
		return a.registry.Incidents()
	}
	incidents := citydata.NormalizeIncidents(dash.IncidentList())
	if len(incidents) == 0 {
		track.empty()
		return a.registry.Incidents()
	}
	track.live()
	return incidents
}

// loadAnalytics never fails: any backend error yields the four default
// series exactly.
func (a *App) loadAnalytics(ctx context.Context) AnalyticsView {
	var view AnalyticsView
	raw, err := a.backend.Analytics(ctx)
	if err != nil {
		a.log.Warn("analytics unavailable, using defaults", "err", err)
		view.Source = sourceFallback
		view.Notice = backend.UserMessage(err)
		view.Series = a.registry.Analytics()
	} else {
		view.Source = sourceLive
		view.Series = citydata.NormalizeAnalytics(raw, a.registry.Analytics())
	}
	view.Summary = summarizeAnalytics(view.Series)
	return view
}

// loadMap fetches incidents and cameras together. A failed source is
// replaced by its part of the default marker set; if nothing is plottable
// at all the whole default set is shown.
func (a *App) loadMap(ctx context.Context) MapView {
	ctx, cancel := a.fanoutContext(ctx)
	defer cancel()

	var (
		dash    citydata.RawDashboard
		cameras any
		dashErr error
		camErr  error
		g       errgroup.Group
	)
	// Errors stay per source, as in loadDashboard.
	g.Go(func() error { dash, dashErr = a.backend.Dashboard(ctx); return nil })
	g.Go(func() error { cameras, camErr = a.backend.Cameras(ctx); return nil })
	_ = g.Wait()

	var track sourceTracker
	var markers []citydata.MapMarker

	if dashErr == nil && camErr == nil {
		track.live()
		track.live()
		markers = citydata.ToMapMarkers(dash.IncidentList(), cameras)
	} else {
		if dashErr != nil {
			a.log.Warn("map incidents unavailable, using defaults", "err", dashErr)
			track.failed(dashErr)
			markers = a.registry.IncidentMarkers()
		} else {
			track.live()
			markers = citydata.IncidentMarkers(dash.IncidentList())
		}
		if camErr != nil {
			a.log.Warn("map cameras unavailable, using defaults", "err", camErr)
			track.failed(camErr)
			markers = append(markers, a.registry.CameraMarkers()...)
		} else {
			track.live()
			markers = append(markers, citydata.CameraMarkers(cameras)...)
		}
	}

	view := MapView{Markers: markers, Source: track.source(), Notice: track.notice}
	if len(markers) == 0 {
		view.Markers = a.registry.MapMarkers()
		view.Source = sourceFallback
	}
	return view
}

func (a *App) loadCameras(ctx context.Context) CamerasView {
	var view CamerasView
	raw, err := a.backend.Cameras(ctx)
	feeds := citydata.NormalizeCameras(raw)
	switch {
	case err != nil:
		a.log.Warn("cameras unavailable, using defaults", "err", err)
		view.Source = sourceFallback
		view.Notice = backend.UserMessage(err)
		view.Feeds = a.registry.CameraFeeds()
	case len(feeds) == 0:
		view.Source = sourceFallback
		view.Feeds = a.registry.CameraFeeds()
	default:
		view.Source = sourceLive
		view.Feeds = feeds
	}
	for _, f := range view.Feeds {
		if f.Status == citydata.CameraOnline {
			view.Online++
		} else {
			view.Offline++
		}
	}
	return view
}

var incidentFilters = []string{"all", string(citydata.StatusOpen), string(citydata.StatusInProgress), string(citydata.StatusResolved)}

func (a *App) loadIncidents(ctx context.Context, filter, query string) IncidentsView {
	raw, err := a.backend.Dashboard(ctx)
	var track sourceTracker
	all := a.incidentsOrDefault(raw, err, &track)

	view := IncidentsView{
		Source: track.source(),
		Notice: track.notice,
		Filter: filter,
		Query:  query,
		Stats:  incidentStats(all),
	}
	view.Incidents = filterIncidents(all, filter, query)
	return view
}

func filterIncidents(incidents []citydata.Incident, filter, query string) []citydata.Incident {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]citydata.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if filter != "all" && string(inc.Status) != filter {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(inc.LocationLabel), needle) &&
			!strings.Contains(strings.ToLower(inc.Description), needle) {
			continue
		}
		out = append(out, inc)
	}
	return out
}

func incidentStats(incidents []citydata.Incident) IncidentStats {
	stats := IncidentStats{Total: len(incidents)}
	for _, inc := range incidents {
		switch inc.Status {
		case citydata.StatusOpen:
			stats.Open++
		case citydata.StatusInProgress:
			stats.InProgress++
		case citydata.StatusResolved:
			stats.Resolved++
		}
	}
	return stats
}
