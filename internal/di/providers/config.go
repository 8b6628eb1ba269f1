package providers

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/guftaho/guftaho-server/internal/config"
	"github.com/guftaho/guftaho-server/internal/logger"
)

// ProvideConfig provides the application configuration and ensures the data
// directory exists.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Data.BasePath, 0o755); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Guftaho Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
	)

	return log, nil
}
