package handlers

import (
	"errors"
	"net/http"

	"agrisense/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/vmihailenco/msgpack/v5"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK            = "ok"
	statusPumpOn        = "pump_on"
	statusPumpOff       = "pump_off"
	statusTimerStarted  = "timer_started"
	statusAutoSet       = "auto_control_set"
	statusScheduleSaved = "schedule_saved"

	errStore           = "failed to reach the device store"
	errCommandPending  = "a pump command is already in progress"
	errAssistant       = "Failed to get response"
	errInvalidBodyPref = "invalid body: "

	formatMsgpack   = "msgpack"
	contentMsgpack  = "application/x-msgpack"
	msgpackJSONTags = "json"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// commandError maps service errors of store-backed commands to HTTP codes.
func (h *Handler) commandError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCommandPending):
		c.JSON(http.StatusConflict, gin.H{"error": errCommandPending})
	default:
		h.logAndJSONError(c, http.StatusBadGateway, errStore, logKey, err, kv...)
	}
}

// Respond with a status and include the current dashboard.
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	if h.services.Monitoring != nil {
		resp["state"] = h.services.Monitoring.Dashboard()
	}
	c.JSON(http.StatusOK, resp)
}

// respond writes JSON, or MessagePack when ?format=msgpack is given.
func (h *Handler) respond(c *gin.Context, code int, data any) {
	if c.Query("format") != formatMsgpack {
		c.JSON(code, data)
		return
	}
	c.Header("Content-Type", contentMsgpack)
	c.Status(code)
	enc := msgpack.NewEncoder(c.Writer)
	enc.SetCustomStructTag(msgpackJSONTags)
	if err := enc.Encode(data); err != nil && h.log != nil {
		h.log.Errorw("msgpack_encode_failed", "err", err, "path", c.FullPath())
	}
}

// @Summary      Health check
// @Description  Reports the device store connection alongside process liveness
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	resp := gin.H{"status": statusOK}
	if h.services.Monitoring != nil {
		resp["store"] = h.services.Monitoring.Health()
	}
	c.JSON(http.StatusOK, resp)
}
