package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/foxseedlab/nikki/internal/journal"
)

var (
	// ErrNotConfigured is returned without any network call when the base URL is empty.
	ErrNotConfigured     = errors.New("webhook base url is not configured")
	ErrMalformedResponse = errors.New("webhook returned a malformed response body")
)

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("webhook returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is transient (429 or 5xx).
func (e *StatusError) Retryable() bool {
	return e.StatusCode == 429 || (e.StatusCode >= 500 && e.StatusCode <= 599)
}

type UploadLogRequest struct {
	Date      string            `json:"date"`
	Messages  []journal.Message `json:"messages"`
	NotionKey string            `json:"notion_key"`
	NotionDB  string            `json:"notion_db"`
}

type SummaryResponse struct {
	Success      bool   `json:"success"`
	NotionURL    string `json:"notion_url"`
	Message      string `json:"message"`
	Date         string `json:"date"`
	MessageCount int    `json:"message_count"`
}

// LogUploader sends one logical day to the summarization workflow, which writes it to Notion.
type LogUploader interface {
	UploadLog(ctx context.Context, req UploadLogRequest) (*SummaryResponse, error)
}

type VideoSummary struct {
	Title   string
	Summary string
}

type TranscriptFile struct {
	Filename string `json:"filename"`
	FileURL  string `json:"file_url"`
}

type Transcript struct {
	PrimaryLanguage string          `json:"primary_language"`
	Bilingual       bool            `json:"bilingual"`
	Content         *string         `json:"content"`
	File            *TranscriptFile `json:"file"`
}

type VideoSummarizer interface {
	Summarize(ctx context.Context, video VideoInfo) (*VideoSummary, error)
	Transcript(ctx context.Context, video VideoInfo) (*Transcript, error)
}
