// app/app.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/onlyoffice/signupgate/config"
	"github.com/onlyoffice/signupgate/logging"
	"github.com/onlyoffice/signupgate/metrics"
	"github.com/onlyoffice/signupgate/server"
	"github.com/onlyoffice/signupgate/version"
	"go.uber.org/zap"
)

// Hooks are the integration points an HTTP host provides to Run.
type Hooks struct {
	// Name is used only for logging.
	Name string

	// LoadConfig returns the host config. Defaults to config.Load with no args.
	LoadConfig func(logger *zap.Logger) (*config.CoreConfig, error)

	// BuildHandler constructs the final http.Handler.
	BuildHandler func(cfg *config.CoreConfig, logger *zap.Logger) (http.Handler, error)
}

// Run executes the startup sequence:
//
//  1. Bootstrap logger
//  2. Load config (Hooks.LoadConfig)
//  3. Build final logger and install it as the zap global
//  4. Register default metrics
//  5. Wire shutdown signals to a context
//  6. Build the HTTP handler (Hooks.BuildHandler)
//  7. Serve until shutdown
func Run(ctx context.Context, hooks Hooks) error {
	bootstrap := logging.BootstrapLogger()
	defer bootstrap.Sync()
	bootstrap.Info("bootstrap logger initialized", zap.String("app", hooks.Name))

	load := hooks.LoadConfig
	if load == nil {
		load = func(l *zap.Logger) (*config.CoreConfig, error) { return config.Load(l, nil) }
	}
	cfg, err := load(bootstrap)
	if err != nil {
		bootstrap.Error("config load failed", zap.Error(err))
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.MustBuildLogger(cfg.LogLevel, cfg.Env)
	defer logger.Sync()
	restore := zap.ReplaceGlobals(logger)
	defer restore()
	logger.Info("logger initialized",
		zap.String("app", hooks.Name),
		zap.String("env", cfg.Env),
		zap.String("version", version.String()),
	)
	logger.Debug("effective config", zap.String("config", cfg.Dump()))

	metrics.RegisterDefault(logger)

	ctx, cancel := server.WithShutdownSignals(ctx, logger)
	defer cancel()

	handler, err := hooks.BuildHandler(cfg, logger)
	if err != nil {
		logger.Error("handler build failed", zap.Error(err))
		return fmt.Errorf("build handler: %w", err)
	}

	if err := server.ListenAndServeWithContext(ctx, cfg, handler, logger); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
