package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driving"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/logger"
)

// Ensure Runner implements the interface.
var _ driving.FlowRunner = (*Runner)(nil)

// Runner resolves a flow and its converter and hands it to the matching pipeline.
type Runner struct {
	cfg        *domain.Config
	converters driven.ConverterResolver
	inbound    *InboundPipeline
	outbound   *OutboundPipeline
	metrics    driven.MetricsRecorder
	logger     *zap.Logger
	newID      func() string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMetrics sets where run metrics are published.
func WithMetrics(m driven.MetricsRecorder) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithLogger sets the base logger runs derive their loggers from.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithRunIDs sets the run ID generator.
func WithRunIDs(newID func() string) RunnerOption {
	return func(r *Runner) { r.newID = newID }
}

// NewRunner creates a flow runner.
func NewRunner(
	cfg *domain.Config,
	converters driven.ConverterResolver,
	inbound *InboundPipeline,
	outbound *OutboundPipeline,
	opts ...RunnerOption,
) *Runner {
	r := &Runner{
		cfg:        cfg,
		converters: converters,
		inbound:    inbound,
		outbound:   outbound,
		logger:     zap.NewNop(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one flow to completion.
func (r *Runner) Run(ctx context.Context, direction domain.Direction, partner, name string) (*domain.RunSummary, error) {
	flow, err := r.cfg.Flow(partner, direction, name)
	if err != nil {
		return nil, err
	}
	conv, err := r.converters.Resolve(flow)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", flow.Key(), err)
	}

	inv := Invocation{ID: r.newID(), Flow: flow, Converter: conv}
	inv.Logger = logger.ForRun(r.logger, inv.ID, flow)
	inv.Logger.Info("starting flow", zap.String("converter", flow.Converter), zap.String("transfer", string(flow.Mode())))

	var summary *domain.RunSummary
	switch direction {
	case domain.DirectionInbound:
		summary, err = r.inbound.Run(ctx, inv)
	case domain.DirectionOutbound:
		summary, err = r.outbound.Run(ctx, inv)
	default:
		return nil, fmt.Errorf("%w: direction %q", domain.ErrUsage, direction)
	}

	if summary != nil {
		if summary.FinishedAt.IsZero() {
			summary.FinishedAt = time.Now()
		}
		r.record(ctx, inv, summary)
	}
	if err != nil {
		inv.Logger.Error("flow failed", zap.Error(err))
		return summary, err
	}
	return summary, nil
}

func (r *Runner) record(ctx context.Context, inv Invocation, s *domain.RunSummary) {
	inv.Logger.Info("flow finished",
		zap.Int("files_succeeded", s.Succeeded()),
		zap.Int("files_failed", s.FailedFiles()),
		zap.Int("files_excluded", len(s.Excluded)),
		zap.Int("delivered", len(s.Delivered)),
		zap.Int("skipped", len(s.Skipped)),
		zap.Duration("duration", s.Duration()),
	)
	if r.metrics == nil {
		return
	}
	// An interrupted run still publishes what it did.
	if err := r.metrics.RecordRun(context.WithoutCancel(ctx), *s); err != nil {
		inv.Logger.Warn("failed to publish run metrics", zap.Error(err))
	}
}

// Flows lists every configured flow.
func (r *Runner) Flows() []domain.FlowDefinition {
	return r.cfg.Flows()
}

// WatchDir returns the input directory of a local inbound flow.
func (r *Runner) WatchDir(partner, name string) (string, error) {
	flow, err := r.cfg.Flow(partner, domain.DirectionInbound, name)
	if err != nil {
		return "", err
	}
	if flow.Mode() != domain.TransferLocal || flow.LocalInputDir == "" {
		return "", fmt.Errorf("%w: %s is not a local inbound flow", domain.ErrUsage, flow.Key())
	}
	return r.cfg.Resolve(flow.LocalInputDir), nil
}
