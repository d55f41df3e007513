package handlers

import (
	"net/http"

	"agrisense/internal/models"

	"github.com/gin-gonic/gin"
)

// TimerRequest is the payload of a timed pump run.
type TimerRequest struct {
	// Run length in seconds, must be positive
	Seconds int `json:"seconds" binding:"required" example:"300"`
}

// AutoControlRequest toggles the device's automatic mode.
type AutoControlRequest struct {
	Enabled *bool `json:"enabled" binding:"required" example:"true"`
}

// @Summary      Pump on
// @Tags         pump
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, entry, state"
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/pump/on [post]
func (h *Handler) pumpOn(c *gin.Context) {
	h.setRelay(c, models.RelayOn, statusPumpOn)
}

// @Summary      Pump off
// @Tags         pump
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, entry, state"
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/pump/off [post]
func (h *Handler) pumpOff(c *gin.Context) {
	h.setRelay(c, models.RelayOff, statusPumpOff)
}

func (h *Handler) setRelay(c *gin.Context, target models.RelayState, status string) {
	entry, err := h.services.Relay.SetRelay(c.Request.Context(), target)
	if err != nil {
		h.commandError(c, "pump_command_failed", err, "target", target)
		return
	}
	h.respondWithStatusAndState(c, status, gin.H{"entry": entry})
}

// @Summary      Timed pump run
// @Description  Stores the duration, records the request and switches the pump on
// @Tags         pump
// @Accept       json
// @Produce      json
// @Param        body  body   TimerRequest  true  "Timer payload"
// @Success      200   {object}  map[string]interface{}  "status, entry, state"
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/pump/timer [post]
func (h *Handler) pumpTimer(c *gin.Context) {
	var req TimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	entry, err := h.services.Relay.StartTimer(c.Request.Context(), req.Seconds)
	if err != nil {
		h.commandError(c, "pump_timer_failed", err, "seconds", req.Seconds)
		return
	}
	h.respondWithStatusAndState(c, statusTimerStarted, gin.H{"entry": entry})
}

// @Summary      Automatic mode
// @Tags         pump
// @Accept       json
// @Produce      json
// @Param        body  body   AutoControlRequest  true  "Auto control payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/pump/auto [post]
func (h *Handler) pumpAuto(c *gin.Context) {
	var req AutoControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Relay.SetAutoControl(c.Request.Context(), *req.Enabled); err != nil {
		h.commandError(c, "auto_control_failed", err, "enabled", *req.Enabled)
		return
	}
	h.respondWithStatusAndState(c, statusAutoSet, gin.H{"enabled": *req.Enabled})
}
