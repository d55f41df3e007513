package handlers

import (
	"errors"
	"net/http"
	"strings"

	"agrisense/internal/service"

	"github.com/gin-gonic/gin"
)

const msgRecognitionUnsupported = "Speech recognition not supported. Please type your message."

// SpeakRequest asks the host to read text aloud.
type SpeakRequest struct {
	Text     string `json:"text" binding:"required" example:"Soil moisture optimal"`
	Language string `json:"language,omitempty" example:"en-US"`
}

// ListenRequest selects the recognition language.
type ListenRequest struct {
	Language string `json:"language,omitempty" example:"hi-IN"`
}

// @Summary      Speech capabilities
// @Tags         speech
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "synthesis, recognition, speaking"
// @Router       /api/v1/speech [get]
func (h *Handler) speechStatus(c *gin.Context) {
	sp := h.services.Speech
	c.JSON(http.StatusOK, gin.H{
		"synthesis":   sp.SynthesisSupported(),
		"recognition": sp.RecognitionSupported(),
		"speaking":    sp.Speaking(),
	})
}

// @Summary      Speak text
// @Description  Cancels any synthesis in progress. Never fails when synthesis is unavailable.
// @Tags         speech
// @Accept       json
// @Produce      json
// @Param        body  body   SpeakRequest  true  "Speak payload"
// @Success      200   {object}  map[string]interface{}  "supported"
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/speech/speak [post]
func (h *Handler) speak(c *gin.Context) {
	var req SpeakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	started := h.services.Speech.Speak(req.Text, strings.TrimSpace(req.Language))
	c.JSON(http.StatusOK, gin.H{"supported": started})
}

// @Summary      Stop speaking
// @Tags         speech
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/speech/stop [post]
func (h *Handler) stopSpeaking(c *gin.Context) {
	h.services.Speech.Stop()
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Listen for one utterance
// @Description  Without a recognizer the response says so and typed input stays available
// @Tags         speech
// @Accept       json
// @Produce      json
// @Param        body  body   ListenRequest  false  "Listen payload"
// @Success      200   {object}  map[string]interface{}  "supported, text"
// @Router       /api/v1/speech/listen [post]
func (h *Handler) listen(c *gin.Context) {
	var req ListenRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
			return
		}
	}
	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = service.DefaultLanguage
	}

	text, err := h.services.Speech.Listen(c.Request.Context(), lang)
	switch {
	case errors.Is(err, service.ErrNotSupported):
		c.JSON(http.StatusOK, gin.H{"supported": false, "message": msgRecognitionUnsupported})
	case err != nil:
		if h.log != nil {
			h.log.Warnw("speech_listen_failed", "err", err, "language", lang)
		}
		c.JSON(http.StatusOK, gin.H{"supported": true, "text": ""})
	default:
		c.JSON(http.StatusOK, gin.H{"supported": true, "text": text})
	}
}
