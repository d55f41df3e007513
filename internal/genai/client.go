package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agrisense/internal/models"
)

const (
	DefaultBaseURL         = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel           = "gemini-2.0-flash-exp"
	DefaultMaxOutputTokens = 1000

	roleUser  = "user"
	roleModel = "model"
)

var (
	ErrMissingAPIKey = errors.New("text-generation API key not configured")
	ErrEmptyResponse = errors.New("text-generation returned no text")
)

type Config struct {
	BaseURL         string
	APIKey          string
	Model           string
	MaxOutputTokens int
	Timeout         time.Duration
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends the whole conversation and returns the model's reply text.
// Assistant turns are sent with the API's "model" role.
func (c *Client) Generate(ctx context.Context, history []models.ConversationMessage) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := generateRequest{
		Contents:         make([]content, 0, len(history)),
		GenerationConfig: generationConfig{MaxOutputTokens: c.cfg.MaxOutputTokens},
	}
	for _, m := range history {
		role := roleUser
		if m.Role == models.RoleAssistant {
			role = roleModel
		}
		reqBody.Contents = append(reqBody.Contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if gr.Error != nil && gr.Error.Message != "" {
			msg = gr.Error.Message
		}
		return "", fmt.Errorf("generate: status %d: %s", resp.StatusCode, msg)
	}

	var sb strings.Builder
	if len(gr.Candidates) > 0 {
		for _, p := range gr.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
