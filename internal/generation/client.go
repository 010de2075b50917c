package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/logger"
)

// Provider is the external plan generation service.
type Provider interface {
	// Generate returns the provider's response document with workout_plan, diet_plan
	// and metadata sections. Any non-200 status or undecodable body is an error.
	Generate(ctx context.Context, userID string, prefs domain.PreferencePayload) (map[string]interface{}, error)
	// Status reports the provider's health document.
	Status(ctx context.Context) (map[string]interface{}, error)
	// TriggerReindex asks the provider to rebuild its exercise and food index.
	TriggerReindex(ctx context.Context, mode string) (map[string]interface{}, error)
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (Provider, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("missing generation provider base URL")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &client{
		log:  log.With("client", "GenerationClient"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type generateRequest struct {
	UserID      string                   `json:"user_id"`
	Preferences domain.PreferencePayload `json:"preferences"`
}

func (c *client) Generate(ctx context.Context, userID string, prefs domain.PreferencePayload) (map[string]interface{}, error) {
	c.log.Info("requesting plan generation", "user_id", userID)
	out, err := c.doJSON(ctx, http.MethodPost, "/generate", generateRequest{UserID: userID, Preferences: prefs})
	if err != nil {
		c.log.Error("plan generation failed", "user_id", userID, "error", err)
		return nil, err
	}
	return out, nil
}

func (c *client) Status(ctx context.Context) (map[string]interface{}, error) {
	return c.doJSON(ctx, http.MethodGet, "/status", nil)
}

func (c *client) TriggerReindex(ctx context.Context, mode string) (map[string]interface{}, error) {
	if mode == "" {
		mode = "full"
	}
	c.log.Info("triggering provider reindex", "mode", mode)
	return c.doJSON(ctx, http.MethodPost, "/reindex", map[string]string{"mode": mode})
}

func (c *client) doJSON(ctx context.Context, method, path string, body any) (map[string]interface{}, error) {
	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
		reader = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("generation provider %s %s read body: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("generation provider %s %s: http %d: %s", method, path, resp.StatusCode, truncate(string(raw), 512))
	}

	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("generation provider %s %s decode: %w", method, path, err)
	}
	if out == nil {
		return nil, fmt.Errorf("generation provider %s %s: empty body", method, path)
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
