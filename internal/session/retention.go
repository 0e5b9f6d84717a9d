package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/nikki/internal/journal"
)

// SweepExpiredLogs deletes every bucket whose date is older than now minus the retention window.
// Keys that do not parse as dates are left alone.
func (m *Manager) SweepExpiredLogs(ctx context.Context) (int, error) {
	dates, err := m.repo.ListLogDates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list log dates: %w", err)
	}
	cutoff := m.now().In(m.loc).Add(-m.retention)

	var expired []string
	for _, key := range dates {
		day, err := journal.ParseDateKey(key, m.loc)
		if err != nil {
			slog.Warn("skipping log with unparsable date key", "key", key, "error", err)
			continue
		}
		if day.Before(cutoff) {
			expired = append(expired, key)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}
	if err := m.repo.DeleteLogs(ctx, expired); err != nil {
		return 0, fmt.Errorf("delete expired logs: %w", err)
	}
	return len(expired), nil
}

// SweepOnStart runs the retention sweep and only logs failures; startup continues regardless.
func (m *Manager) SweepOnStart(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("retention sweep panicked", "panic", r)
		}
	}()
	n, err := m.SweepExpiredLogs(ctx)
	if err != nil {
		slog.Error("retention sweep failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("retention sweep removed expired logs", "count", n, "retention_days", int(m.retention.Hours()/24))
	}
}
