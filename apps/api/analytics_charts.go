package main

import (
	"bytes"
	"fmt"
	"net/http"

	"smartcity/libs/citydata"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const chartHeight = "360px"

// analyticsChartsHandler renders the analytics view as a standalone HTML
// page, for kiosks and for embedding in an iframe.
func (a *App) analyticsChartsHandler(c *gin.Context) {
	view := a.loadAnalytics(c.Request.Context())

	var buf bytes.Buffer
	if err := analyticsChartsPage(view).Render(&buf); err != nil {
		a.log.Error("failed to render analytics charts", "err", err)
		writeAPIError(c, &apiError{Status: http.StatusInternalServerError, Code: "render_failed", Message: "Failed to render analytics charts"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func analyticsChartsPage(view AnalyticsView) *components.Page {
	subtitle := fmt.Sprintf("source=%s", view.Source)
	if view.Notice != "" {
		subtitle += " | " + view.Notice
	}

	page := components.NewPage()
	page.SetPageTitle("Smart City analytics")
	page.AddCharts(
		lineChart(citydata.SeriesTrafficFlow, view.Series.TrafficFlow, subtitle),
		barChart(citydata.SeriesEnergyUsage, view.Series.EnergyUsage, subtitle),
		lineChart(citydata.SeriesAirQuality, view.Series.AirQuality, subtitle),
		pieChart(view.Series.IncidentsByType, subtitle),
	)
	return page
}

func chartLabels(points []citydata.Point) []string {
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = p.Label
	}
	return labels
}

func lineChart(kind citydata.SeriesKind, points []citydata.Point, subtitle string) *charts.Line {
	data := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.LineData{Value: p.Value})
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: seriesTitles[kind], Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(chartLabels(points)).AddSeries(kind.String(), data)
	return line
}

func barChart(kind citydata.SeriesKind, points []citydata.Point, subtitle string) *charts.Bar {
	data := make([]opts.BarData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.BarData{Value: p.Value})
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: seriesTitles[kind], Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(chartLabels(points)).
		AddSeries(kind.String(), data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

func pieChart(points []citydata.Point, subtitle string) *charts.Pie {
	data := make([]opts.PieData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.PieData{Name: p.Label, Value: p.Value})
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: seriesTitles[citydata.SeriesIncidentsByType], Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries(citydata.SeriesIncidentsByType.String(), data)
	return pie
}
