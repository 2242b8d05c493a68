package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/adapters/driven/audit"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/adapters/driven/auth"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/adapters/driven/config/file"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/adapters/driven/metrics"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/adapters/driven/notify"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/adapters/driven/orderapi"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/adapters/driven/transfer"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/adapters/driving/cli"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/services"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/logger"
)

// bootstrap loads the configuration and wires every adapter into the flow runner.
func bootstrap(_ context.Context, opts cli.Options) (*cli.App, error) {
	cfg, err := file.NewConfigStore(opts.ConfigPath).Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{Verbose: opts.Verbose, LogDir: cfg.LogDir()})
	if err != nil {
		return nil, fmt.Errorf("starting logger: %w", err)
	}
	log.Debug("configuration loaded", zap.String("path", cfg.Path), zap.String("log_file", log.Path))

	tokens := auth.NewProvider(cfg.Auth, cfg.Resolve, log.Logger)
	api := orderapi.NewClient(nil, tokens, log.Logger)
	lookup := orderapi.NewPackagingClient(api, cfg.Packaging, cfg.Globals.BaseURL)
	resolver := converters.NewResolver(converters.NewDefaultRegistry(), lookup, nil, log.Logger)
	transfers := transfer.NewFactory(cfg, log.Logger)
	sink := openAudit(cfg, log.Logger)

	pipelineOpts := []services.Option{
		services.WithNotifier(notify.New(cfg.Email, log.Logger)),
		services.WithAudit(sink),
	}
	runner := services.NewRunner(
		cfg,
		resolver,
		services.NewInboundPipeline(cfg, transfers, api, pipelineOpts...),
		services.NewOutboundPipeline(cfg, transfers, api, pipelineOpts...),
		services.WithMetrics(metrics.New(cfg.Metrics, log.Logger)),
		services.WithLogger(log.Logger),
	)

	return &cli.App{
		Runner: runner,
		Tokens: tokens,
		Close: func() error {
			return errors.Join(sink.Close(), log.Close())
		},
	}, nil
}

// openAudit opens the audit database, degrading to no auditing when it is unavailable.
func openAudit(cfg *domain.Config, log *zap.Logger) driven.AuditSink {
	if !cfg.DB.Enabled {
		return audit.NullSink{}
	}
	sink, err := audit.Open(cfg.DB, cfg.Resolve)
	if err != nil {
		log.Warn("audit database unavailable, responses will not be recorded",
			zap.String("driver", cfg.DB.Driver), zap.Error(err))
		return audit.NullSink{}
	}
	return sink
}
