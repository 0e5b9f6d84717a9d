package repository

import (
	"context"

	"github.com/foxseedlab/nikki/internal/journal"
)

// LogRepository stores session logs keyed by logical date (YYYY-MM-DD).
type LogRepository interface {
	// GetLog returns an empty, non-nil slice when nothing is stored for date.
	GetLog(ctx context.Context, date string) ([]journal.Message, error)
	// SaveLog replaces the whole sequence stored for date.
	SaveLog(ctx context.Context, date string, messages []journal.Message) error
	ListLogDates(ctx context.Context) ([]string, error)
	DeleteLogs(ctx context.Context, dates []string) error
	ExportLogs(ctx context.Context) (map[string][]journal.Message, error)
}

type UserConfigRepository interface {
	// GetUserConfig returns nil, nil when the user has not finished setup.
	GetUserConfig(ctx context.Context) (*journal.UserConfig, error)
	SaveUserConfig(ctx context.Context, cfg journal.UserConfig) error
}

type Repository interface {
	LogRepository
	UserConfigRepository
}
