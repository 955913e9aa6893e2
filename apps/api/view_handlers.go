package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (a *App) dashboardHandler(c *gin.Context) {
	c.JSON(http.StatusOK, a.loadDashboard(c.Request.Context()))
}

func (a *App) analyticsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, a.loadAnalytics(c.Request.Context()))
}

func (a *App) mapHandler(c *gin.Context) {
	c.JSON(http.StatusOK, a.loadMap(c.Request.Context()))
}

func (a *App) camerasHandler(c *gin.Context) {
	c.JSON(http.StatusOK, a.loadCameras(c.Request.Context()))
}

func (a *App) incidentsHandler(c *gin.Context) {
	filter := strings.ToLower(strings.TrimSpace(c.DefaultQuery("status", "all")))
	if !containsString(incidentFilters, filter) {
		writeAPIError(c, &apiError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_filter",
			Message: "status must be one of " + strings.Join(incidentFilters, ", "),
		})
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	if len(query) > 200 {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_query", Message: "Search text is too long"})
		return
	}
	c.JSON(http.StatusOK, a.loadIncidents(c.Request.Context(), filter, query))
}
