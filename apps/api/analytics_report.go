package main

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"smartcity/libs/citydata"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
)

func (a *App) analyticsReportHandler(c *gin.Context) {
	view := a.loadAnalytics(c.Request.Context())
	generatedAt := a.now().UTC()

	content, err := buildAnalyticsPDF(view, generatedAt)
	if err != nil {
		a.log.Error("failed to render analytics report", "err", err)
		writeAPIError(c, &apiError{Status: http.StatusInternalServerError, Code: "report_failed", Message: "Failed to render analytics report"})
		return
	}

	filename := fmt.Sprintf("analytics-report-%s.pdf", generatedAt.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", content)
}

var seriesTitles = map[citydata.SeriesKind]string{
	citydata.SeriesTrafficFlow:     "Traffic flow (24h, %)",
	citydata.SeriesEnergyUsage:     "Energy usage (weekly, GW)",
	citydata.SeriesAirQuality:      "Air quality index",
	citydata.SeriesIncidentsByType: "Incidents by type",
}

func buildAnalyticsPDF(view AnalyticsView, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Smart City analytics report", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 16)
	pdf.Cell(0, 10, "Smart City analytics report")

	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", generatedAt.Format(time.RFC1123)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Data source: %s", view.Source))
	pdf.Ln(7)
	if view.Notice != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Note: %s", view.Notice))
		pdf.Ln(7)
	}
	pdf.Ln(3)

	for i, kind := range citydata.AllSeries {
		points := view.Series.Get(kind)
		summary := view.Summary.Series[i]

		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 8, seriesTitles[kind])
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Mean %s, peak %s at %s", formatValue(summary.Mean), formatValue(summary.Peak), summary.PeakLabel))
		pdf.Ln(7)
		for _, p := range points {
			pdf.CellFormat(40, 6, p.Label, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, formatValue(p.Value), "1", 0, "R", false, 0, "")
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Incident distribution (total %s)", formatValue(view.Summary.IncidentTotal)))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, share := range view.Summary.IncidentShares {
		pdf.Cell(0, 6, fmt.Sprintf("- %s: %s (%.1f%%)", share.Label, formatValue(share.Count), share.Percent))
		pdf.Ln(6)
	}

	buffer := bytes.NewBuffer(nil)
	if err := pdf.Output(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
