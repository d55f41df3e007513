package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"agrisense/internal/service"

	"github.com/gin-gonic/gin"
)

const errLimitInvalid = "invalid 'limit'; use a non-negative integer"

// @Summary      List irrigation log
// @Description  Newest first, at most 50 entries kept for the session. Use format=msgpack for MessagePack.
// @Tags         logs
// @Produce      json
// @Produce      application/x-msgpack
// @Param        action  query   string  false  "Command"  Enums(ON,OFF,TIMER)
// @Param        mode    query   string  false  "Initiator"  Enums(manual,auto,scheduled)
// @Param        limit   query   int     false  "Maximum entries"
// @Param        format  query   string  false  "Response format"  Enums(json,msgpack)
// @Success      200   {object}  map[string]interface{}  "count, entries"
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	f := service.LogFilter{
		Action: c.Query("action"),
		Mode:   c.Query("mode"),
	}
	if qs := c.Query("limit"); qs != "" {
		n, err := strconv.Atoi(qs)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
			return
		}
		f.Limit = n
	}

	entries, err := h.services.EventLog.List(f)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load logs", "logs_list_failed", err,
			"action", f.Action, "mode", f.Mode)
		return
	}
	h.respond(c, http.StatusOK, gin.H{
		"count":   len(entries),
		"entries": entries,
	})
}
