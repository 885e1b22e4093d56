package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to an OpenAI-compatible /audio/speech endpoint.
type Client struct {
	BaseURL      string
	APIKey       string
	Model        string
	Voice        string
	Instructions string

	Logger     *zap.Logger
	HTTPClient *http.Client
}

func NewClient(logger *zap.Logger, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   "gpt-4o-mini-tts",
		Voice:   "echo",
		Logger:  logger,
		HTTPClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	Instructions   string `json:"instructions,omitempty"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize returns the mp3 bytes for text.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(speechRequest{
		Model:          c.Model,
		Voice:          c.Voice,
		Input:          text,
		Instructions:   c.Instructions,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech request failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("speech request returned no audio")
	}
	return data, nil
}

// GenerateAll synthesizes every record in order into outDir and returns
// the written paths. It stops at the first failure.
func (c *Client) GenerateAll(ctx context.Context, records []Record, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(records))
	for _, r := range records {
		audio, err := c.Synthesize(ctx, BuildScript(r))
		if err != nil {
			return paths, fmt.Errorf("voice %s: %w", r.ID, err)
		}

		out := filepath.Join(outDir, FileName(r.ID))
		if err := os.WriteFile(out, audio, 0644); err != nil {
			return paths, err
		}
		c.Logger.Info("voice saved", zap.String("id", string(r.ID)), zap.String("path", out), zap.Int("bytes", len(audio)))
		paths = append(paths, out)
	}
	return paths, nil
}
