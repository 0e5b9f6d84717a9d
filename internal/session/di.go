package session

import (
	"github.com/foxseedlab/nikki/internal/config"
	"github.com/foxseedlab/nikki/internal/repository"
	"github.com/foxseedlab/nikki/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[repository.Repository](i)
		uploader := do.MustInvoke[webhook.LogUploader](i)
		return NewManager(repo, uploader, cfg.Location(), cfg.RetentionWindow()), nil
	})
	do.Provide(injector, func(i do.Injector) (*AutoUploader, error) {
		cfg := do.MustInvoke[*config.Config](i)
		manager := do.MustInvoke[*Manager](i)
		return NewAutoUploader(manager, cfg.SchedulerPollInterval()), nil
	})
}
