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

	"github.com/cenkalti/backoff/v4"
	"github.com/foxseedlab/nikki/internal/webhook"
)

const (
	summarizePath  = "/summarize"
	transcriptPath = "/transcript"

	summarizeRetries  = 4
	transcriptRetries = 3

	defaultInitialBackoff = 400 * time.Millisecond

	clientExtVersion = "1.0.0"
	clientPlatform   = "chrome"
)

type VideoClientConfig struct {
	BaseURL           string
	APIKey            string
	SummaryTimeout    time.Duration
	TranscriptTimeout time.Duration
}

// HTTPVideoClient calls the video summarizer workflow with retries on transient failures.
type HTTPVideoClient struct {
	baseURL           string
	apiKey            string
	summaryTimeout    time.Duration
	transcriptTimeout time.Duration
	initialBackoff    time.Duration
	client            *http.Client
}

func NewHTTPVideoClient(cfg VideoClientConfig) *HTTPVideoClient {
	return &HTTPVideoClient{
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:            cfg.APIKey,
		summaryTimeout:    cfg.SummaryTimeout,
		transcriptTimeout: cfg.TranscriptTimeout,
		initialBackoff:    defaultInitialBackoff,
		client:            &http.Client{},
	}
}

var _ webhook.VideoSummarizer = (*HTTPVideoClient)(nil)

type videoOptions struct {
	LanguagePref      string `json:"language_pref"`
	IncludeTimestamps bool   `json:"include_timestamps,omitempty"`
	MaxSummaryTokens  int    `json:"max_summary_tokens,omitempty"`
}

type videoClientInfo struct {
	ExtVersion string `json:"ext_version"`
	Platform   string `json:"platform"`
}

type videoRequest struct {
	webhook.VideoInfo
	Options videoOptions    `json:"options"`
	Client  videoClientInfo `json:"client"`
}

type videoErrorBody struct {
	Code string `json:"code"`
}

type summarizeResponse struct {
	OK      bool            `json:"ok"`
	Error   *videoErrorBody `json:"error"`
	Title   *string         `json:"title"`
	Summary *string         `json:"summary"`
	Data    *struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
	} `json:"data"`
}

type transcriptResponse struct {
	OK         bool                `json:"ok"`
	Error      *videoErrorBody     `json:"error"`
	Transcript *webhook.Transcript `json:"transcript"`
}

func (c *HTTPVideoClient) Summarize(ctx context.Context, video webhook.VideoInfo) (*webhook.VideoSummary, error) {
	body := videoRequest{
		VideoInfo: video,
		Options:   videoOptions{LanguagePref: "ko", IncludeTimestamps: true, MaxSummaryTokens: 1200},
		Client:    videoClientInfo{ExtVersion: clientExtVersion, Platform: clientPlatform},
	}
	var resp summarizeResponse
	if err := c.postJSON(ctx, summarizePath, body, &resp, summarizeRetries, c.summaryTimeout); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, errors.New(errorCode(resp.Error, "SUMMARY_FAILED"))
	}
	out := &webhook.VideoSummary{}
	if resp.Data != nil {
		out.Title, out.Summary = resp.Data.Title, resp.Data.Summary
	}
	if resp.Title != nil {
		out.Title = *resp.Title
	}
	if resp.Summary != nil {
		out.Summary = *resp.Summary
	}
	return out, nil
}

func (c *HTTPVideoClient) Transcript(ctx context.Context, video webhook.VideoInfo) (*webhook.Transcript, error) {
	body := videoRequest{
		VideoInfo: video,
		Options:   videoOptions{LanguagePref: "ko"},
		Client:    videoClientInfo{ExtVersion: clientExtVersion, Platform: clientPlatform},
	}
	var resp transcriptResponse
	if err := c.postJSON(ctx, transcriptPath, body, &resp, transcriptRetries, c.transcriptTimeout); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, errors.New(errorCode(resp.Error, "TRANSCRIPT_FAILED"))
	}
	if resp.Transcript == nil {
		return &webhook.Transcript{}, nil
	}
	return resp.Transcript, nil
}

// postJSON retries network errors, timeouts, 429, 5xx and empty bodies with exponential backoff.
// Any other failure is returned immediately.
func (c *HTTPVideoClient) postJSON(ctx context.Context, path string, payload, out any, retries uint64, timeout time.Duration) error {
	if c.baseURL == "" {
		return webhook.ErrNotConfigured
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := c.baseURL + path

	attempt := 0
	operation := func() error {
		attempt++
		body, err := c.doOnce(ctx, url, b, timeout)
		if err != nil {
			var se *webhook.StatusError
			if errors.As(err, &se) && !se.Retryable() {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return fmt.Errorf("%w: empty body", webhook.ErrMalformedResponse)
		}
		if err := decodeJSONObject(body, out); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("video webhook attempt failed; retrying", "path", path, "attempt", attempt, "wait", wait, "error", err)
	}
	return backoff.RetryNotify(operation, c.retryPolicy(ctx, retries), notify)
}

func (c *HTTPVideoClient) doOnce(ctx context.Context, url string, payload []byte, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	slog.Debug("video webhook response", "url", url, "status", resp.StatusCode, "content_type", resp.Header.Get("Content-Type"))
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return nil, &webhook.StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBodyBytes)}
	}
	return body, nil
}

func (c *HTTPVideoClient) retryPolicy(ctx context.Context, retries uint64) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

func errorCode(e *videoErrorBody, fallback string) string {
	if e == nil || e.Code == "" {
		return fallback
	}
	return e.Code
}
