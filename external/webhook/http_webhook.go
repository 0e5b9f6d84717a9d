package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/foxseedlab/nikki/internal/webhook"
)

const (
	uploadLogPath        = "/upload-log"
	maxErrorBodyBytes    = 2048
	notionDBLogPrefixLen = 8
)

// HTTPUploader posts a day's log to the n8n summarization workflow.
type HTTPUploader struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

func NewHTTPUploader(baseURL string, timeout time.Duration) webhook.LogUploader {
	return &HTTPUploader{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{},
	}
}

func (u *HTTPUploader) UploadLog(ctx context.Context, payload webhook.UploadLogRequest) (*webhook.SummaryResponse, error) {
	if u.baseURL == "" {
		return nil, webhook.ErrNotConfigured
	}
	slog.Info("sending log to summary webhook",
		"date", payload.Date,
		"message_count", len(payload.Messages),
		"notion_db", maskID(payload.NotionDB))

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+uploadLogPath, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := u.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("summary webhook timed out after %s: %w", u.timeout, err)
		}
		return nil, fmt.Errorf("summary webhook unreachable: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read summary webhook response: %w", err)
	}
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return nil, &webhook.StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBodyBytes)}
	}

	var out webhook.SummaryResponse
	if err := decodeJSONObject(body, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		if out.Message != "" {
			return nil, fmt.Errorf("summary webhook reported failure: %s", out.Message)
		}
		return nil, errors.New("summary webhook reported failure")
	}
	slog.Info("summary webhook completed", "date", payload.Date, "notion_url", out.NotionURL)
	return &out, nil
}

// decodeJSONObject accepts either an object or the single-element array n8n's respond node emits.
func decodeJSONObject(body []byte, v any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return webhook.ErrMalformedResponse
	}
	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("%w: %v", webhook.ErrMalformedResponse, err)
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: empty array", webhook.ErrMalformedResponse)
		}
		trimmed = items[0]
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", webhook.ErrMalformedResponse, err)
	}
	return nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func maskID(id string) string {
	if len(id) <= notionDBLogPrefixLen {
		return id
	}
	return id[:notionDBLogPrefixLen] + "..."
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
