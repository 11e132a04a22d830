package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"shenanigigs/common/errors"
	"shenanigigs/common/telemetry"
	"shenanigigs/services/render/internal/config"
	"shenanigigs/services/render/internal/renderer"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.LogDevelopment {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = level
	return zapConfig.Build(zap.Fields(zap.String("service", cfg.ServiceName)))
}

func registerTracing(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) {
	if cfg.OTelCollectorURL == "" {
		logger.Debug("Tracing disabled, no collector configured")
		return
	}

	var shutdown func(context.Context) error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			shutdown, err = telemetry.InitTracer(ctx, telemetry.TracerConfig{
				ServiceName:    cfg.ServiceName,
				ServiceVersion: cfg.ServiceVersion,
				CollectorURL:   cfg.OTelCollectorURL,
				SampleRatio:    cfg.OTelSampleRatio,
			})
			return err
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}

func registerRender(lc fx.Lifecycle, r *renderer.Renderer, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			raw, err := readInput(cfg.InputPath)
			if err != nil {
				logger.Error("Failed to read job posting", zap.String("path", cfg.InputPath), zap.Error(err))
				return err
			}

			script, err := r.Render(ctx, raw)
			if err != nil {
				return err
			}

			if err := writeOutput(cfg.OutputPath, script); err != nil {
				logger.Error("Failed to write script", zap.String("path", cfg.OutputPath), zap.Error(err))
				return err
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// stderr cannot be synced on every platform
			_ = logger.Sync()
			return nil
		},
	})
}

func readInput(path string) ([]byte, error) {
	if path == config.StdStream {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.NotFound("input file "+path, err)
	}
	return data, err
}

func writeOutput(path, script string) error {
	if path == config.StdStream {
		_, err := fmt.Fprintln(os.Stdout, script)
		return err
	}
	return os.WriteFile(path, []byte(script+"\n"), 0o644)
}

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		fx.Provide(
			config.LoadConfig,
			newLogger,
			renderer.NewRenderer,
		),
		fx.Invoke(
			registerTracing,
			registerRender,
		),
	)

	startCtx := context.Background()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	stopCtx := context.Background()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
