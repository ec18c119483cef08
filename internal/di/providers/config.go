// Package providers contains dependency injection providers for the OhMyReads server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/config"
	"github.com/ohmyreads/ohmyreads-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(_ do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
		Service:     "ohmyreads",
	})

	log.Info("Starting OhMyReads Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Storage.DataPath,
		"store_backend", cfg.Storage.Backend,
		"recommendation_source", cfg.Recommendations.Source,
	)

	return log, nil
}
