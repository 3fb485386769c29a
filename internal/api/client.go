// Package api provides a REST client for the document QA backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rahulvenkat/docchat/internal/metrics"
	"github.com/rahulvenkat/docchat/internal/models"
)

const basePath = "/api/v1"

// Client talks to the document QA backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	collector  *metrics.Collector
}

// New creates a new API client.
// If baseURL is empty, uses the DOCCHAT_SERVER_URL env var or defaults to
// localhost:8000. Timeout can be configured via DOCCHAT_CLIENT_TIMEOUT
// (default 2m to cover slow upload processing).
func New(baseURL string, logger *slog.Logger, collector *metrics.Collector) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("DOCCHAT_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := 2 * time.Minute
	if t := os.Getenv("DOCCHAT_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		collector:  collector,
	}
}

// apiError is the FastAPI error envelope.
type apiError struct {
	Detail string `json:"detail"`
}

// do sends a request and decodes the JSON response into result.
// Non-2xx responses are turned into errors carrying the backend detail.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+basePath+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("request completed",
		"method", method,
		"path", path,
		"request_id", requestID,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Detail != "" {
			return fmt.Errorf("server error: %s - %s", resp.Status, apiErr.Detail)
		}
		return fmt.Errorf("server error: %s - %s", resp.Status, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// postJSON marshals payload and POSTs it to path.
func (c *Client) postJSON(ctx context.Context, path string, payload, result any) error {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(reqBody), "application/json", result)
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// ChatResponse is the answer payload shared by the general and
// document-scoped chat endpoints.
type ChatResponse struct {
	Answer    string            `json:"answer"`
	Citations []models.Citation `json:"citations"`
	Usage     models.Usage      `json:"usage"`
	LatencyMs float64           `json:"latency_ms"`
	AnswerID  string            `json:"answer_id"`
	Cost      string            `json:"cost,omitempty"`
}

// Chat sends a general (non-document-scoped) query.
func (c *Client) Chat(ctx context.Context, query string) (*ChatResponse, error) {
	start := time.Now()

	var result ChatResponse
	payload := map[string]any{"query": query}
	if err := c.postJSON(ctx, "/chat", payload, &result); err != nil {
		return nil, err
	}

	if c.collector != nil {
		c.collector.RecordChatUsage(metrics.OpChat, time.Since(start),
			int64(result.Usage.PromptTokens), int64(result.Usage.CompletionTokens))
	}
	return &result, nil
}

// DocumentChat sends a query scoped to a previously uploaded document.
func (c *Client) DocumentChat(ctx context.Context, query, documentID string) (*ChatResponse, error) {
	start := time.Now()

	var result ChatResponse
	payload := map[string]any{"query": query, "course_id": documentID}
	if err := c.postJSON(ctx, "/document-chat/chat", payload, &result); err != nil {
		return nil, err
	}

	if c.collector != nil {
		c.collector.RecordChatUsage(metrics.OpDocChat, time.Since(start),
			int64(result.Usage.PromptTokens), int64(result.Usage.CompletionTokens))
	}
	return &result, nil
}

// Translate translates text into the target language.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	start := time.Now()

	var result struct {
		Translated string `json:"translated"`
	}
	payload := map[string]any{"text": text, "target_lang": targetLang}
	if err := c.postJSON(ctx, "/simple-chat/translate", payload, &result); err != nil {
		return "", err
	}

	if c.collector != nil {
		c.collector.RecordTiming(metrics.OpTranslate, time.Since(start))
	}
	return result.Translated, nil
}

// =============================================================================
// DOCUMENT OPERATIONS
// =============================================================================

// Upload sends a PDF to the backend as multipart form data.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (*models.UploadRecord, error) {
	start := time.Now()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("copy file content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	var result models.UploadRecord
	if err := c.do(ctx, http.MethodPost, "/documents/upload", &buf, mw.FormDataContentType(), &result); err != nil {
		return nil, err
	}

	if c.collector != nil {
		c.collector.RecordTiming(metrics.OpUpload, time.Since(start))
	}
	return &result, nil
}

// ListDocuments returns all uploaded documents.
func (c *Client) ListDocuments(ctx context.Context) ([]models.Document, error) {
	start := time.Now()

	var result struct {
		Documents []models.Document `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, "/documents/list", nil, "", &result); err != nil {
		return nil, err
	}

	if c.collector != nil {
		c.collector.RecordTiming(metrics.OpListDocs, time.Since(start))
	}
	return result.Documents, nil
}

// DeleteDocument deletes a document and all its chunks.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	return c.do(ctx, http.MethodDelete, "/documents/"+documentID, nil, "", nil)
}

// ModelInfo returns the backend's model configuration.
func (c *Client) ModelInfo(ctx context.Context) (*models.ModelInfo, error) {
	var result models.ModelInfo
	if err := c.do(ctx, http.MethodGet, "/models", nil, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}
