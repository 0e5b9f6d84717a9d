package webhook

import (
	"time"

	"github.com/foxseedlab/nikki/internal/config"
	"github.com/foxseedlab/nikki/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (webhook.LogUploader, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPUploader(c.SummaryWebhookURL, time.Duration(c.SummaryTimeoutSec)*time.Second), nil
	})
	do.Provide(injector, func(i do.Injector) (webhook.VideoSummarizer, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPVideoClient(VideoClientConfig{
			BaseURL:           c.VideoWebhookURL,
			APIKey:            c.VideoWebhookAPIKey,
			SummaryTimeout:    time.Duration(c.VideoSummaryTimeoutSec) * time.Second,
			TranscriptTimeout: time.Duration(c.VideoTranscriptTimeoutSec) * time.Second,
		}), nil
	})
}
