package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// DefaultOutputDir holds outbound artifacts when a flow sets no local_output_dir.
const DefaultOutputDir = "output"

// OutboundPipeline turns order API data into partner files and delivers them.
type OutboundPipeline struct {
	cfg       *domain.Config
	transfers driven.TransferFactory
	api       driven.OrderAPI
	opts      pipelineOptions
}

// NewOutboundPipeline creates an outbound pipeline.
func NewOutboundPipeline(cfg *domain.Config, transfers driven.TransferFactory, api driven.OrderAPI, opts ...Option) *OutboundPipeline {
	return &OutboundPipeline{cfg: cfg, transfers: transfers, api: api, opts: buildOptions(opts)}
}

// Run refreshes the payload date window, optionally fetches data from the
// API, converts it and delivers every artifact that carries data.
func (p *OutboundPipeline) Run(ctx context.Context, inv Invocation) (*domain.RunSummary, error) {
	flow := inv.Flow
	log := inv.log()
	now := p.opts.now()
	summary := &domain.RunSummary{RunID: inv.ID, Flow: flow, StartedAt: now}
	defer func() { summary.FinishedAt = p.opts.now() }()

	if flow.PayloadFile == "" {
		return summary, fmt.Errorf("%w: payload_file for %s", domain.ErrMissingConfig, flow.Key())
	}
	payloadPath := p.cfg.Resolve(flow.PayloadFile)
	rewritten, err := RewritePayloadFile(payloadPath, now)
	if err != nil {
		return summary, err
	}
	log.Info("updated payload date range", zap.String("payload", payloadPath), zap.Strings("filters", rewritten))

	outDir := flow.LocalOutputDir
	if outDir == "" {
		outDir = DefaultOutputDir
	}
	outDir = p.cfg.Resolve(outDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return summary, fmt.Errorf("create output dir: %w", err)
	}

	input := payloadPath
	if flow.API != nil {
		if input, err = p.fetch(ctx, inv, payloadPath, outDir); err != nil {
			return summary, err
		}
	}

	artifacts, err := inv.Converter.Convert(ctx, input, outDir)
	if err != nil {
		return summary, fmt.Errorf("convert %s: %w", filepath.Base(input), err)
	}

	var (
		ch      driven.TransferChannel
		openErr error
	)
	defer func() {
		if ch != nil && openErr == nil {
			ch.Close()
		}
	}()

	var delivered []string
	for _, art := range artifacts {
		if art.Rows == 0 || !hasData(art.Path) {
			log.Info("skipping artifact without data", zap.String("artifact", filepath.Base(art.Path)))
			summary.Skipped = append(summary.Skipped, domain.SkippedArtifact{Path: art.Path, Reason: domain.ReasonNoData})
			continue
		}

		name := flow.OutputName(now, filepath.Base(art.Path))
		local := filepath.Join(outDir, name)
		if err := copyFile(art.Path, local); err != nil {
			return summary, fmt.Errorf("stage %s: %w", name, err)
		}

		if p.shouldDeliver(flow) {
			if ch == nil && openErr == nil {
				if ch, openErr = p.transfers.Open(ctx, flow); openErr != nil {
					log.Warn("transfer unavailable, keeping local copies", zap.Error(openErr))
				}
			}
			if openErr != nil {
				summary.Fallbacks++
			} else if dest, err := ch.Deliver(ctx, local, flow.Remote.OutputDir, name); err != nil {
				log.Warn("delivery failed, keeping local copy", zap.String("file", name), zap.Error(err))
				summary.Fallbacks++
			} else {
				log.Info("delivered file", zap.String("file", name), zap.String("destination", dest))
			}
		}
		log.Info("file processed", zap.String("file", name))
		delivered = append(delivered, local)
	}
	summary.Delivered = delivered

	if len(delivered) == 0 {
		log.Info("no output files generated, email skipped")
		return summary, nil
	}
	notify(ctx, p.opts.notifier, OutboundReport(flow, delivered), log)
	return summary, nil
}

// shouldDeliver reports whether artifacts go anywhere beyond the output dir.
func (p *OutboundPipeline) shouldDeliver(flow domain.FlowDefinition) bool {
	return flow.Mode() != domain.TransferLocal || flow.Remote.OutputDir != ""
}

// fetch calls the flow's API with the payload and saves the response as
// the converter input. Only HTTP 200 is accepted.
func (p *OutboundPipeline) fetch(ctx context.Context, inv Invocation, payloadPath, outDir string) (string, error) {
	flow := inv.Flow
	log := inv.log()

	url, err := requireURL(p.cfg, flow)
	if err != nil {
		return "", err
	}
	req := driven.APIRequest{
		Method:    flow.API.HTTPMethod(http.MethodGet),
		URL:       url,
		Headers:   flow.API.Headers,
		Timeout:   flow.API.Timeout(),
		Retry:     flow.API.Retry,
		RateLimit: flow.API.RateLimit,
	}
	if req.Method != http.MethodGet {
		if req.Body, err = os.ReadFile(payloadPath); err != nil {
			return "", fmt.Errorf("read payload: %w", err)
		}
	}

	log.Info("calling order API", zap.String("method", req.Method), zap.String("url", url))
	resp, err := p.api.Send(ctx, req)
	if err != nil && isFatal(err) {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s %s returned %d: %s",
			domain.ErrAPIRequest, req.Method, url, resp.StatusCode, truncate(resp.Body, MaxResponseChars))
	}

	path := filepath.Join(outDir, "api_response_"+flow.Name+".json")
	if err := os.WriteFile(path, []byte(resp.Body), 0o644); err != nil {
		return "", fmt.Errorf("save API response: %w", err)
	}
	log.Info("saved API response", zap.String("path", path), zap.Int("bytes", len(resp.Body)))
	return path, nil
}
