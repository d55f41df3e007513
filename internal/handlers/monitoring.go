package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Dashboard
// @Description  Sensors, relay, chart, logs, schedule, advice, weather and store health in one view
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  models.Dashboard
// @Router       /api/v1/dashboard [get]
func (h *Handler) getDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Dashboard())
}

// @Summary      Latest sensor snapshot
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  models.SensorState
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sensors [get]
func (h *Handler) getSensors(c *gin.Context) {
	s := h.services.Monitoring.Sensors()
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no sensor data received yet"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary      Chart points
// @Description  Up to 20 most recent points, oldest first. Use format=msgpack for MessagePack.
// @Tags         monitoring
// @Produce      json
// @Produce      application/x-msgpack
// @Param        format  query  string  false  "Response format"  Enums(json,msgpack)
// @Success      200  {object}  map[string]interface{}  "count, points"
// @Router       /api/v1/chart [get]
func (h *Handler) getChart(c *gin.Context) {
	points := h.services.Monitoring.Chart()
	h.respond(c, http.StatusOK, gin.H{
		"count":  len(points),
		"points": points,
	})
}

// @Summary      Chart statistics
// @Description  Mean, min, max, standard deviation and trend per series over the chart window
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  models.ChartStats
// @Router       /api/v1/chart/stats [get]
func (h *Handler) getChartStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.ChartStats())
}

// @Summary      Irrigation advice
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  models.Advice
// @Router       /api/v1/advice [get]
func (h *Handler) getAdvice(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Advice())
}

// @Summary      Five-day forecast
// @Description  A failed fetch is reported in "error" and replaces the forecast until the next success
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "days, error"
// @Router       /api/v1/weather [get]
func (h *Handler) getWeather(c *gin.Context) {
	days, err := h.services.Forecast.Forecast()
	resp := gin.H{"days": days}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}
