package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/nikki/internal/journal"
)

// TickOutcome describes what a single AutoUploader tick did.
type TickOutcome string

const (
	TickIdle         TickOutcome = "idle"
	TickAlreadyDone  TickOutcome = "already_attempted"
	TickBusy         TickOutcome = "busy"
	TickEmptyLog     TickOutcome = "empty_log"
	TickUploaded     TickOutcome = "uploaded"
	TickUploadFailed TickOutcome = "upload_failed"
)

// AutoUploader summarizes the previous logical day when the clock hits report_time.
// A minute in which no tick ran is never caught up.
type AutoUploader struct {
	manager  *Manager
	interval time.Duration

	mu            sync.Mutex
	lastAttempted string
}

func NewAutoUploader(manager *Manager, interval time.Duration) *AutoUploader {
	return &AutoUploader{manager: manager, interval: interval}
}

// Run ticks immediately and then every interval until ctx is done.
func (a *AutoUploader) Run(ctx context.Context) {
	slog.Info("auto uploader started", "poll_interval", a.interval)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	a.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("auto uploader stopped")
			return
		case <-ticker.C:
			a.Tick(ctx)
		}
	}
}

func (a *AutoUploader) Tick(ctx context.Context) TickOutcome {
	m := a.manager
	cfg, err := m.repo.GetUserConfig(ctx)
	if err != nil {
		slog.Error("auto upload: failed to load user config", "error", err)
		return TickIdle
	}
	if cfg == nil || cfg.ReportTime == "" {
		return TickIdle
	}
	rt, err := journal.ParseReportTime(cfg.ReportTime)
	if err != nil {
		slog.Warn("auto upload: invalid report time", "report_time", cfg.ReportTime, "error", err)
		return TickIdle
	}
	now := m.now().In(m.loc)
	if !rt.Matches(now) {
		return TickIdle
	}

	// One minute back lands safely inside the day that just ended.
	target := journal.LogicalDate(rt, now.Add(-time.Minute), m.loc)

	msgs, outcome := a.claim(ctx, target)
	if outcome != "" {
		return outcome
	}
	defer m.endUpload()

	slog.Info("auto upload started", "date", target, "message_count", len(msgs))
	progress := journal.NewSystemMessage(autoUploadProgressText(target), "", m.now())
	if err := m.appendToCurrentLog(ctx, cfg, progress); err != nil {
		slog.Error("auto upload: failed to record progress", "error", err, "date", target)
	}

	resp, err := m.uploader.UploadLog(ctx, uploadRequest(target, msgs, cfg))
	if err != nil {
		slog.Error("auto upload failed", "error", err, "date", target)
		failure := journal.NewSystemMessage(autoUploadFailedText(err), "", m.now())
		if appendErr := m.appendToCurrentLog(ctx, cfg, failure); appendErr != nil {
			slog.Error("auto upload: failed to record failure", "error", appendErr, "date", target)
		}
		return TickUploadFailed
	}

	done := journal.NewSystemMessage(messageSummaryCompleted, resp.NotionURL, m.now())
	if err := m.appendToCurrentLog(ctx, cfg, done); err != nil {
		slog.Error("auto upload: failed to record completion", "error", err, "date", target)
	}
	slog.Info("auto upload completed", "date", target, "notion_url", resp.NotionURL)
	return TickUploaded
}

// claim marks target attempted and takes the upload flag. A non-empty outcome means the tick stops
// there. Failures are not retried automatically, so target is marked before the webhook is called.
func (a *AutoUploader) claim(ctx context.Context, target string) ([]journal.Message, TickOutcome) {
	m := a.manager
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastAttempted == target {
		return nil, TickAlreadyDone
	}
	if m.IsUploading() {
		return nil, TickBusy
	}

	msgs, err := m.repo.GetLog(ctx, target)
	if err != nil {
		slog.Error("auto upload: failed to load log", "error", err, "date", target)
		return nil, TickIdle
	}
	if len(msgs) == 0 {
		slog.Info("auto upload: nothing to upload", "date", target)
		a.lastAttempted = target
		return nil, TickEmptyLog
	}
	if !m.beginUpload() {
		return nil, TickBusy
	}
	a.lastAttempted = target
	return msgs, ""
}

func (a *AutoUploader) LastAttempted() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastAttempted
}
