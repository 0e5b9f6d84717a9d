package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foxseedlab/nikki/internal/journal"
	"github.com/foxseedlab/nikki/internal/webhook"
)

func testUploadRequest() webhook.UploadLogRequest {
	return webhook.UploadLogRequest{
		Date: "2024-01-01",
		Messages: []journal.Message{
			{ID: "m1", Timestamp: "2024-01-01T12:00:00Z", Author: journal.AuthorUser, Text: "hello"},
		},
		NotionKey: "ntn_secret",
		NotionDB:  "0123456789abcdef0123456789abcdef",
	}
}

func TestUploadLog_EmptyBaseURL(t *testing.T) {
	uploader := NewHTTPUploader("", time.Second)
	_, err := uploader.UploadLog(context.Background(), testUploadRequest())
	if !errors.Is(err, webhook.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestUploadLog_Success(t *testing.T) {
	var got webhook.UploadLogRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/webhook/upload-log" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"success":true,"notion_url":"https://notion.so/page","message":"ok","date":"2024-01-01","message_count":1}`))
	}))
	defer server.Close()

	uploader := NewHTTPUploader(server.URL+"/webhook/", time.Second)
	resp, err := uploader.UploadLog(context.Background(), testUploadRequest())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if resp.NotionURL != "https://notion.so/page" || resp.MessageCount != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if got.Date != "2024-01-01" || len(got.Messages) != 1 || got.Messages[0].Text != "hello" {
		t.Fatalf("unexpected request body: %+v", got)
	}
	if got.NotionKey != "ntn_secret" || got.NotionDB != "0123456789abcdef0123456789abcdef" {
		t.Fatalf("notion credentials not forwarded: %+v", got)
	}
}

func TestUploadLog_UnwrapsSingleElementArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"success":true,"notion_url":"https://notion.so/a"}]`))
	}))
	defer server.Close()

	resp, err := NewHTTPUploader(server.URL, time.Second).UploadLog(context.Background(), testUploadRequest())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if resp.NotionURL != "https://notion.so/a" {
		t.Fatalf("unexpected notion url: %s", resp.NotionURL)
	}
}

func TestUploadLog_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad notion key"))
	}))
	defer server.Close()

	_, err := NewHTTPUploader(server.URL, time.Second).UploadLog(context.Background(), testUploadRequest())
	var se *webhook.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusBadRequest || se.Body != "bad notion key" {
		t.Fatalf("unexpected status error: %+v", se)
	}
}

func TestUploadLog_MalformedBody(t *testing.T) {
	for _, body := range []string{"", "   ", "not json", "[]"} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		_, err := NewHTTPUploader(server.URL, time.Second).UploadLog(context.Background(), testUploadRequest())
		server.Close()
		if !errors.Is(err, webhook.ErrMalformedResponse) {
			t.Fatalf("body %q: expected ErrMalformedResponse, got %v", body, err)
		}
	}
}

func TestUploadLog_SuccessFalseIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"notion write failed"}`))
	}))
	defer server.Close()

	_, err := NewHTTPUploader(server.URL, time.Second).UploadLog(context.Background(), testUploadRequest())
	if err == nil {
		t.Fatal("expected error for success=false")
	}
}

func TestUploadLog_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewHTTPUploader(server.URL, 50*time.Millisecond).UploadLog(context.Background(), testUploadRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
