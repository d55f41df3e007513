package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ScheduleRequest carries the daily window as HH:MM strings.
type ScheduleRequest struct {
	Start string `json:"start" example:"06:30"`
	End   string `json:"end" example:"18:45"`
}

// @Summary      Current schedule
// @Description  The latest schedule received from the store and the edit form
// @Tags         schedule
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "schedule, form"
// @Router       /api/v1/schedule [get]
func (h *Handler) getSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"schedule": h.services.Scheduling.Current(),
		"form":     h.services.Scheduling.Form(),
	})
}

// @Summary      Save schedule
// @Description  Both times are required; the saved schedule is always enabled
// @Tags         schedule
// @Accept       json
// @Produce      json
// @Param        body  body   ScheduleRequest  true  "Schedule payload"
// @Success      200   {object}  map[string]interface{}  "status, schedule"
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/schedule [put]
func (h *Handler) updateSchedule(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	sched, err := h.services.Scheduling.Update(c.Request.Context(), req.Start, req.End)
	if err != nil {
		h.commandError(c, "schedule_update_failed", err, "start", req.Start, "end", req.End)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusScheduleSaved, "schedule": sched})
}

// @Summary      Load schedule
// @Description  Reads the stored schedule once into the edit form
// @Tags         schedule
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "found, schedule, form"
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/schedule/load [post]
func (h *Handler) loadSchedule(c *gin.Context) {
	found, err := h.services.Scheduling.Load(c.Request.Context())
	if err != nil {
		h.commandError(c, "schedule_load_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"found":    found,
		"schedule": h.services.Scheduling.Current(),
		"form":     h.services.Scheduling.Form(),
	})
}
