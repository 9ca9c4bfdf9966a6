// Package app holds process-wide state for the service.
package app

import (
	"time"

	"github.com/rs/zerolog"

	"ai-advisor-stream-service/internal/config"
	"ai-advisor-stream-service/internal/observability/logging"
)

// Application ties configuration and logging together for the process.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config
}

// New constructs an Application and initializes the global logger from
// the provided configuration.
func New(cfg *config.Config) *Application {
	logFormat := cfg.Observability.LogFormat
	if cfg.Service.Environment == "dev" {
		logFormat = "console"
	}
	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     logFormat,
		TimeFormat: time.RFC3339,
	})

	a := &Application{
		Logger: logging.WithComponent("application"),
		Cfg:    cfg,
	}
	a.Logger.Info().
		Str("environment", cfg.Service.Environment).
		Str("logLevel", cfg.Observability.LogLevel).
		Msg("Advisor stream service application created")
	return a
}

// Start records startup time before serving traffic.
func (a *Application) Start() {
	a.StartupTime = time.Now().UTC()
	a.Logger.Info().
		Time("startupTime", a.StartupTime).
		Msg("Advisor stream service starting")
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	a.Logger.Info().
		Dur("uptime", time.Since(a.StartupTime)).
		Msg("Advisor stream service shutting down")
}
