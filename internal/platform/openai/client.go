package openai

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

	"github.com/quotedesk/quotedesk-backend/internal/platform/httpx"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

// ContentItem is one piece of user content for a multimodal call.
// Exactly one of Text or ImageURL is set; ImageURL may be a remote
// https URL or an inline data: URL.
type ContentItem struct {
	Text     string
	ImageURL string
}

func TextItem(text string) ContentItem     { return ContentItem{Text: text} }
func ImageItem(imageURL string) ContentItem { return ContentItem{ImageURL: imageURL} }

// Client is the narrow inference boundary the estimation pipeline
// calls. One synchronous request, one response; the pipeline owns any
// deadline via ctx and never retries.
type Client interface {
	// GenerateJSON issues a structured-output call with a strict schema
	// and returns the decoded object. Callers must still validate: schema
	// enforcement on the provider side is a hint, not a guarantee.
	GenerateJSON(ctx context.Context, system string, content []ContentItem, schemaName string, schema map[string]any) (map[string]any, error)

	// GenerateText issues a plain text call (QA / secondary model use).
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

// Config carries the resolved credential and model for one client.
// The credential arrives from key resolution, never from process env,
// so tenant-owned and platform grace keys flow through the same path.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxOutputTokens int
	// Temperature of 0 is omitted so the provider default applies.
	Temperature float64
	Timeout     time.Duration
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai: missing api key")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("openai: missing model")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &client{
		log:        log.With("service", "OpenAIClient", "model", cfg.Model),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type responsesRequest struct {
	Model string `json:"model"`
	Input []struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	} `json:"input"`
	MaxOutputTokens int     `json:"max_output_tokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
	Text            struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`
}

type responsesResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text"`
			Refusal string `json:"refusal"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *client) GenerateJSON(ctx context.Context, system string, content []ContentItem, schemaName string, schema map[string]any) (map[string]any, error) {
	if schemaName == "" {
		return nil, errors.New("schemaName required")
	}
	if schema == nil {
		return nil, errors.New("schema required")
	}

	req := responsesRequest{Model: c.cfg.Model, MaxOutputTokens: c.cfg.MaxOutputTokens, Temperature: c.cfg.Temperature}
	req.Input = []struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	}{
		{Role: "system", Content: system},
		{Role: "user", Content: userContent(content)},
	}
	req.Text.Format = map[string]any{
		"type":   "json_schema",
		"name":   schemaName,
		"schema": schema,
		"strict": true,
	}

	var resp responsesResponse
	if err := c.doResponses(ctx, &req, &resp); err != nil {
		return nil, err
	}

	if refusal := extractRefusal(resp); refusal != "" {
		return nil, fmt.Errorf("model refused: %s", refusal)
	}
	jsonText := extractOutputText(resp)
	if strings.TrimSpace(jsonText) == "" {
		return nil, errors.New("no output_text found in response")
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(jsonText), &obj); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}
	return obj, nil
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	req := responsesRequest{Model: c.cfg.Model, MaxOutputTokens: c.cfg.MaxOutputTokens, Temperature: c.cfg.Temperature}
	req.Input = []struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	}{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}

	var resp responsesResponse
	if err := c.doResponses(ctx, &req, &resp); err != nil {
		return "", err
	}
	if refusal := extractRefusal(resp); refusal != "" {
		return "", fmt.Errorf("model refused: %s", refusal)
	}
	text := extractOutputText(resp)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no output_text found in response")
	}
	return text, nil
}

func userContent(items []ContentItem) any {
	if len(items) == 0 {
		return ""
	}
	content := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if it.ImageURL != "" {
			content = append(content, map[string]any{
				"type":      "input_image",
				"image_url": it.ImageURL,
			})
			continue
		}
		content = append(content, map[string]any{
			"type": "input_text",
			"text": it.Text,
		})
	}
	return content
}

// apiError carries the provider HTTP status so callers can classify it.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("openai: status %d: %s", e.status, e.body)
}
func (e *apiError) HTTPStatusCode() int { return e.status }

func (c *client) doResponses(ctx context.Context, req *responsesRequest, out *responsesResponse) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("openai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/responses", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("openai: read response: %w", err)
	}

	c.log.Debug("responses call finished",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"retryable", httpx.IsRetryableHTTPStatus(resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apiError{status: resp.StatusCode, body: truncate(string(body), 2000)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("openai: decode response: %w", err)
	}
	if out.Error != nil && out.Error.Message != "" {
		return fmt.Errorf("openai: %s", out.Error.Message)
	}
	return nil
}

func extractOutputText(resp responsesResponse) string {
	var b strings.Builder
	for _, out := range resp.Output {
		if out.Type != "" && out.Type != "message" {
			continue
		}
		for _, ct := range out.Content {
			if ct.Type == "output_text" && ct.Text != "" {
				b.WriteString(ct.Text)
			}
		}
	}
	return b.String()
}

func extractRefusal(resp responsesResponse) string {
	for _, out := range resp.Output {
		for _, ct := range out.Content {
			if ct.Type == "refusal" && ct.Refusal != "" {
				return ct.Refusal
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
