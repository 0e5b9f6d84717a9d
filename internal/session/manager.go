package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foxseedlab/nikki/internal/journal"
	"github.com/foxseedlab/nikki/internal/repository"
	"github.com/foxseedlab/nikki/internal/webhook"
)

var (
	ErrUserConfigMissing  = errors.New("user config is not set up")
	ErrNothingToSummarize = errors.New("no messages to summarize")
	ErrSummaryInProgress  = errors.New("a summary request is already in progress")
	ErrEmptyMessage       = errors.New("message text is empty")
)

type Manager struct {
	repo      repository.Repository
	uploader  webhook.LogUploader
	loc       *time.Location
	retention time.Duration
	now       func() time.Time

	// mu serializes read-append-save cycles on a bucket.
	mu        sync.Mutex
	uploading atomic.Bool
}

func NewManager(repo repository.Repository, uploader webhook.LogUploader, loc *time.Location, retention time.Duration) *Manager {
	if loc == nil {
		loc = time.UTC
	}
	return &Manager{
		repo:      repo,
		uploader:  uploader,
		loc:       loc,
		retention: retention,
		now:       time.Now,
	}
}

func (m *Manager) Location() *time.Location {
	return m.loc
}

func (m *Manager) UserConfig(ctx context.Context) (*journal.UserConfig, error) {
	return m.repo.GetUserConfig(ctx)
}

func (m *Manager) SaveUserConfig(ctx context.Context, cfg journal.UserConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := m.repo.SaveUserConfig(ctx, cfg); err != nil {
		return fmt.Errorf("save user config: %w", err)
	}
	slog.Info("user config saved", "report_time", cfg.ReportTime)
	return nil
}

// CurrentLogicalDate reads the user config on every call so report_time edits apply immediately.
func (m *Manager) CurrentLogicalDate(ctx context.Context) (string, error) {
	cfg, err := m.repo.GetUserConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load user config: %w", err)
	}
	return journal.LogicalDate(journal.ReportTimeOf(cfg), m.now(), m.loc), nil
}

func (m *Manager) TodayLog(ctx context.Context) (string, []journal.Message, error) {
	date, err := m.CurrentLogicalDate(ctx)
	if err != nil {
		return "", nil, err
	}
	msgs, err := m.repo.GetLog(ctx, date)
	if err != nil {
		return "", nil, fmt.Errorf("load log %s: %w", date, err)
	}
	return date, msgs, nil
}

func (m *Manager) Log(ctx context.Context, date string) ([]journal.Message, error) {
	return m.repo.GetLog(ctx, date)
}

func (m *Manager) ExportLogs(ctx context.Context) (map[string][]journal.Message, error) {
	return m.repo.ExportLogs(ctx)
}

// SendMessage appends a user message to the bucket of the logical date at send time.
func (m *Manager) SendMessage(ctx context.Context, text string) (string, journal.Message, error) {
	if strings.TrimSpace(text) == "" {
		return "", journal.Message{}, ErrEmptyMessage
	}
	date, err := m.CurrentLogicalDate(ctx)
	if err != nil {
		return "", journal.Message{}, err
	}
	msg := journal.NewMessage(journal.AuthorUser, text, m.now())
	if err := m.appendToLog(ctx, date, msg); err != nil {
		return "", journal.Message{}, err
	}
	slog.Debug("message appended", "date", date, "message_id", msg.ID)
	return date, msg, nil
}

// RequestSummary summarizes the current logical date on demand. The returned message is the system
// message that was appended to the log, also on failure.
func (m *Manager) RequestSummary(ctx context.Context) (journal.Message, error) {
	cfg, err := m.repo.GetUserConfig(ctx)
	if err != nil {
		return journal.Message{}, fmt.Errorf("load user config: %w", err)
	}
	if cfg == nil {
		return journal.Message{}, ErrUserConfigMissing
	}
	date := journal.LogicalDate(journal.ReportTimeOf(cfg), m.now(), m.loc)
	msgs, err := m.repo.GetLog(ctx, date)
	if err != nil {
		return journal.Message{}, fmt.Errorf("load log %s: %w", date, err)
	}
	if len(msgs) == 0 {
		return journal.Message{}, ErrNothingToSummarize
	}
	if !m.beginUpload() {
		return journal.Message{}, ErrSummaryInProgress
	}
	defer m.endUpload()

	slog.Info("manual summary requested", "date", date, "message_count", len(msgs))
	resp, err := m.uploader.UploadLog(ctx, uploadRequest(date, msgs, cfg))
	if err != nil {
		slog.Error("manual summary failed", "error", err, "date", date)
		failure := journal.NewSystemMessage(summaryFailedText(err), "", m.now())
		if appendErr := m.appendToCurrentLog(ctx, cfg, failure); appendErr != nil {
			slog.Error("failed to record summary failure", "error", appendErr, "date", date)
		}
		return failure, err
	}

	done := journal.NewSystemMessage(messageSummaryCompleted, resp.NotionURL, m.now())
	if err := m.appendToCurrentLog(ctx, cfg, done); err != nil {
		return journal.Message{}, err
	}
	slog.Info("manual summary completed", "date", date, "notion_url", resp.NotionURL)
	return done, nil
}

func (m *Manager) IsUploading() bool {
	return m.uploading.Load()
}

func (m *Manager) beginUpload() bool {
	return m.uploading.CompareAndSwap(false, true)
}

func (m *Manager) endUpload() {
	m.uploading.Store(false)
}

// appendToCurrentLog writes msg to the bucket current at write time, which may differ from the
// bucket that was summarized.
func (m *Manager) appendToCurrentLog(ctx context.Context, cfg *journal.UserConfig, msg journal.Message) error {
	return m.appendToLog(ctx, journal.LogicalDate(journal.ReportTimeOf(cfg), m.now(), m.loc), msg)
}

func (m *Manager) appendToLog(ctx context.Context, date string, msg journal.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs, err := m.repo.GetLog(ctx, date)
	if err != nil {
		return fmt.Errorf("load log %s: %w", date, err)
	}
	next := make([]journal.Message, 0, len(msgs)+1)
	next = append(next, msgs...)
	next = append(next, msg)
	if err := m.repo.SaveLog(ctx, date, next); err != nil {
		return fmt.Errorf("save log %s: %w", date, err)
	}
	return nil
}

func uploadRequest(date string, msgs []journal.Message, cfg *journal.UserConfig) webhook.UploadLogRequest {
	return webhook.UploadLogRequest{
		Date:      date,
		Messages:  msgs,
		NotionKey: cfg.NotionKey,
		NotionDB:  cfg.NotionDB,
	}
}
