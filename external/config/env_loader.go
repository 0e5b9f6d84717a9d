package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/nikki/internal/config"
)

type envConfig struct {
	Env                       string `env:"ENV" envDefault:"production"`
	HTTPAddr                  string `env:"HTTP_ADDR" envDefault:":8080"`
	StorageDriver             string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL               string `env:"DATABASE_URL"`
	JournalTimezone           string `env:"JOURNAL_TIMEZONE" envDefault:"Asia/Seoul"`
	LogRetentionDays          int    `env:"LOG_RETENTION_DAYS" envDefault:"14"`
	SchedulerPollIntervalSec  int    `env:"SCHEDULER_POLL_INTERVAL_SEC" envDefault:"10"`
	SummaryWebhookURL         string `env:"SUMMARY_WEBHOOK_URL"`
	SummaryTimeoutSec         int    `env:"SUMMARY_TIMEOUT_SEC" envDefault:"60"`
	VideoWebhookURL           string `env:"VIDEO_WEBHOOK_URL"`
	VideoWebhookAPIKey        string `env:"VIDEO_WEBHOOK_API_KEY"`
	VideoSummaryTimeoutSec    int    `env:"VIDEO_SUMMARY_TIMEOUT_SEC" envDefault:"120"`
	VideoTranscriptTimeoutSec int    `env:"VIDEO_TRANSCRIPT_TIMEOUT_SEC" envDefault:"30"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                       raw.Env,
		HTTPAddr:                  raw.HTTPAddr,
		StorageDriver:             raw.StorageDriver,
		DatabaseURL:               raw.DatabaseURL,
		JournalTimezone:           raw.JournalTimezone,
		LogRetentionDays:          raw.LogRetentionDays,
		SchedulerPollIntervalSec:  raw.SchedulerPollIntervalSec,
		SummaryWebhookURL:         raw.SummaryWebhookURL,
		SummaryTimeoutSec:         raw.SummaryTimeoutSec,
		VideoWebhookURL:           raw.VideoWebhookURL,
		VideoWebhookAPIKey:        raw.VideoWebhookAPIKey,
		VideoSummaryTimeoutSec:    raw.VideoSummaryTimeoutSec,
		VideoTranscriptTimeoutSec: raw.VideoTranscriptTimeoutSec,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
