package config

import (
	"fmt"
	"time"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Env                       string
	HTTPAddr                  string
	StorageDriver             string
	DatabaseURL               string
	JournalTimezone           string
	LogRetentionDays          int
	SchedulerPollIntervalSec  int
	SummaryWebhookURL         string
	SummaryTimeoutSec         int
	VideoWebhookURL           string
	VideoWebhookAPIKey        string
	VideoSummaryTimeoutSec    int
	VideoTranscriptTimeoutSec int
}

func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=%s", StorageDriverPostgres)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverPostgres, StorageDriverMemory, c.StorageDriver)
	}
	if c.JournalTimezone == "" {
		return fmt.Errorf("JOURNAL_TIMEZONE is required")
	}
	if _, err := time.LoadLocation(c.JournalTimezone); err != nil {
		return fmt.Errorf("JOURNAL_TIMEZONE is invalid: %w", err)
	}
	for _, p := range c.positiveFieldChecks() {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}
	return nil
}

type positiveEnvField struct {
	name  string
	value int
}

func (c *Config) positiveFieldChecks() []positiveEnvField {
	return []positiveEnvField{
		{name: "LOG_RETENTION_DAYS", value: c.LogRetentionDays},
		{name: "SCHEDULER_POLL_INTERVAL_SEC", value: c.SchedulerPollIntervalSec},
		{name: "SUMMARY_TIMEOUT_SEC", value: c.SummaryTimeoutSec},
		{name: "VIDEO_SUMMARY_TIMEOUT_SEC", value: c.VideoSummaryTimeoutSec},
		{name: "VIDEO_TRANSCRIPT_TIMEOUT_SEC", value: c.VideoTranscriptTimeoutSec},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location assumes Validate has succeeded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.JournalTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.LogRetentionDays) * 24 * time.Hour
}

func (c *Config) SchedulerPollInterval() time.Duration {
	return time.Duration(c.SchedulerPollIntervalSec) * time.Second
}
