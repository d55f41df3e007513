package handlers

import (
	"errors"
	"net/http"
	"strings"

	"agrisense/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageRequest is one operator turn for the assistant.
type MessageRequest struct {
	Text string `json:"text" example:"When should I irrigate wheat?"`
	// BCP-47 code from /assistant/languages; en-US when empty
	Language string `json:"language,omitempty" example:"hi-IN"`
	// Read the reply aloud on the host
	Speak bool `json:"speak,omitempty"`
}

// @Summary      Conversation transcript
// @Tags         assistant
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "messages"
// @Router       /api/v1/assistant/messages [get]
func (h *Handler) getMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.services.Assistant.Messages()})
}

// @Summary      Ask the assistant
// @Description  The question is grounded in the latest sensor snapshot and forecast. Failed turns are not kept.
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Param        body  body   MessageRequest  true  "Message payload"
// @Success      200   {object}  map[string]interface{}  "reply, messages"
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/assistant/messages [post]
func (h *Handler) sendMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	lang := strings.TrimSpace(req.Language)
	if lang != "" && !service.IsSupportedLanguage(lang) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported language: " + lang})
		return
	}

	reply, err := h.services.Assistant.Send(c.Request.Context(), lang, req.Text, req.Speak)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusBadGateway, errAssistant, "assistant_send_failed", err, "language", lang)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reply":    reply,
		"messages": h.services.Assistant.Messages(),
	})
}

// @Summary      Clear conversation
// @Tags         assistant
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "messages"
// @Router       /api/v1/assistant/messages [delete]
func (h *Handler) resetMessages(c *gin.Context) {
	h.services.Assistant.Reset()
	c.JSON(http.StatusOK, gin.H{"messages": h.services.Assistant.Messages()})
}

// @Summary      Supported languages
// @Tags         assistant
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "default, languages"
// @Router       /api/v1/assistant/languages [get]
func (h *Handler) getLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default":   service.DefaultLanguage,
		"languages": service.SupportedLanguages,
	})
}
