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
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/fixedwidth"
)

// InboundPipeline fetches partner files, converts them and posts the results.
// Files and their units are processed one at a time in name order.
type InboundPipeline struct {
	cfg       *domain.Config
	transfers driven.TransferFactory
	api       driven.OrderAPI
	opts      pipelineOptions
}

// NewInboundPipeline creates an inbound pipeline.
func NewInboundPipeline(cfg *domain.Config, transfers driven.TransferFactory, api driven.OrderAPI, opts ...Option) *InboundPipeline {
	return &InboundPipeline{cfg: cfg, transfers: transfers, api: api, opts: buildOptions(opts)}
}

// Run processes every matching file of the flow's source directory.
// Unit and file failures are recorded on the summary. The returned error
// is non-nil only for failures that abort the run.
func (p *InboundPipeline) Run(ctx context.Context, inv Invocation) (*domain.RunSummary, error) {
	flow := inv.Flow
	log := inv.log()
	summary := &domain.RunSummary{RunID: inv.ID, Flow: flow, StartedAt: p.opts.now()}
	defer func() { summary.FinishedAt = p.opts.now() }()

	source := flow.SourceDir()
	if source == "" {
		return summary, fmt.Errorf("%w: source directory for %s", domain.ErrMissingConfig, flow.Key())
	}
	var url string
	if flow.API != nil {
		var err error
		if url, err = requireURL(p.cfg, flow); err != nil {
			return summary, err
		}
	}

	ch, err := p.transfers.Open(ctx, flow)
	if err != nil {
		return summary, fmt.Errorf("open %s transfer: %w", flow.Mode(), err)
	}
	defer ch.Close()

	workDir := filepath.Join(p.cfg.TmpDir(), flow.Partner+"_"+flow.Name+"_in")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return summary, fmt.Errorf("create work dir: %w", err)
	}
	splitDir := filepath.Join(workDir, "splits")
	defer os.RemoveAll(splitDir)

	files, err := ch.Fetch(ctx, source, workDir)
	if err != nil {
		return summary, fmt.Errorf("fetch %s: %w", source, err)
	}
	log.Info("fetched files", zap.String("source", source), zap.Int("count", len(files)))

	var matched []string
	for _, f := range files {
		if flow.MatchesStartPattern(filepath.Base(f)) {
			matched = append(matched, f)
			continue
		}
		summary.Excluded = append(summary.Excluded, f)
		log.Info("excluded file", zap.String("file", filepath.Base(f)), zap.String("start_pattern", flow.StartPattern))
		os.Remove(f)
	}
	if len(matched) == 0 {
		log.Warn("no files matching start pattern", zap.String("start_pattern", flow.StartPattern))
		return summary, nil
	}

	for _, f := range matched {
		outcome, err := p.processFile(ctx, inv, ch, url, f, splitDir)
		if err != nil {
			return summary, err
		}
		summary.Files = append(summary.Files, outcome)
	}
	return summary, nil
}

// processFile converts and posts one file, then archives or dead-letters it.
func (p *InboundPipeline) processFile(
	ctx context.Context, inv Invocation, ch driven.TransferChannel, url, path, splitDir string,
) (domain.ProcessingOutcome, error) {
	flow := inv.Flow
	name := filepath.Base(path)
	log := inv.log().With(zap.String("file", name))
	outcome := domain.ProcessingOutcome{File: path}

	units := []string{path}
	if flow.Split.Enabled {
		dir := filepath.Join(splitDir, name)
		split, err := fixedwidth.NewSplitter(flow.Split.FieldStart, flow.Split.FieldEnd).Split(path, dir)
		switch {
		case err != nil:
			log.Error("split failed", zap.Error(err))
			outcome.Add(domain.UnitOutcome{Unit: name, Reason: domain.ReasonSplitFailed, Err: err})
			units = nil
		case len(split) == 0:
			log.Warn("file has no records to split")
			outcome.Add(domain.UnitOutcome{Unit: name, Reason: domain.ReasonNoData})
			units = nil
		default:
			log.Info("split file", zap.Int("units", len(split)))
			units = split
		}
		defer os.RemoveAll(dir)
	}

	for _, unit := range units {
		results, err := p.processUnit(ctx, inv, url, unit)
		if err != nil {
			return outcome, err
		}
		for _, r := range results {
			outcome.Add(r)
		}
		if flow.Split.Enabled {
			os.Remove(unit)
		}
	}

	success := outcome.Success()
	dest := flow.DispositionDir(success)
	if err := ch.Move(ctx, flow.SourceDir(), name, path, dest); err != nil {
		log.Error("failed to move source file", zap.String("destination", dest), zap.Error(err))
	} else {
		outcome.Disposition = dest
		log.Info("moved source file", zap.String("destination", dest), zap.Bool("success", success))
	}
	os.Remove(path)

	switch {
	case flow.Split.Enabled && len(outcome.Units) > 0:
		notify(ctx, p.opts.notifier, SplitReport(flow, outcome), log)
	case !flow.Split.Enabled && !success:
		notify(ctx, p.opts.notifier, FailureReport(flow, outcome), log)
	}
	return outcome, nil
}

// processUnit converts one unit and posts each artifact it produced.
// Only a fatal error is returned; everything else is an outcome.
func (p *InboundPipeline) processUnit(ctx context.Context, inv Invocation, url, unit string) ([]domain.UnitOutcome, error) {
	flow := inv.Flow
	log := inv.log().With(zap.String("unit", filepath.Base(unit)))

	outDir := p.cfg.Resolve(flow.OutputJSONDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	artifacts, err := inv.Converter.Convert(ctx, unit, outDir)
	if err != nil {
		log.Error("conversion failed", zap.Error(err))
		return []domain.UnitOutcome{{Unit: unit, Reason: domain.ReasonConversionFailed, Err: err}}, nil
	}
	if len(artifacts) == 0 {
		log.Warn("converter produced no documents")
		return []domain.UnitOutcome{{Unit: unit, Reason: domain.ReasonNoData}}, nil
	}

	results := make([]domain.UnitOutcome, 0, len(artifacts))
	for _, art := range artifacts {
		u := domain.UnitOutcome{Unit: unit, Artifact: art.Path}
		payload, err := os.ReadFile(art.Path)
		if err != nil {
			u.Reason, u.Err = domain.ReasonConversionFailed, fmt.Errorf("read converted document: %w", err)
			log.Error("converted document unreadable", zap.String("artifact", art.Path), zap.Error(err))
			results = append(results, u)
			continue
		}
		u.OrderRef = OrderRefFromPayload(payload)
		log.Debug("posting document", zap.String("artifact", art.Path), zap.String("order_ref", u.OrderRef))

		if flow.API != nil {
			if err := p.post(ctx, inv, url, payload, &u); err != nil {
				return results, err
			}
		}
		results = append(results, u)
	}
	return results, nil
}

// post sends payload to the order API and records the response on u,
// in the response log and in the audit sink.
func (p *InboundPipeline) post(ctx context.Context, inv Invocation, url string, payload []byte, u *domain.UnitOutcome) error {
	flow := inv.Flow
	log := inv.log()

	resp, err := p.api.Send(ctx, driven.APIRequest{
		Method:    flow.API.HTTPMethod(http.MethodPost),
		URL:       url,
		Headers:   flow.API.Headers,
		Body:      payload,
		Timeout:   flow.API.Timeout(),
		Retry:     flow.API.Retry,
		RateLimit: flow.API.RateLimit,
	})
	if err != nil && isFatal(err) {
		return fmt.Errorf("post %s: %w", filepath.Base(u.Artifact), err)
	}
	u.Response = &resp
	switch {
	case resp.OK():
		log.Info("document accepted", zap.String("artifact", filepath.Base(u.Artifact)),
			zap.Int("status", resp.StatusCode), zap.Int("attempts", resp.Attempts))
	case resp.StatusCode == 0:
		u.Reason, u.Err = domain.ReasonAPIUnreachable, err
		log.Error("order API unreachable", zap.String("artifact", filepath.Base(u.Artifact)), zap.Error(err))
	default:
		u.Reason, u.Err = domain.ReasonAPIRejected, err
		log.Error("document rejected", zap.String("artifact", filepath.Base(u.Artifact)),
			zap.Int("status", resp.StatusCode), zap.Int("attempts", resp.Attempts))
	}

	p.writeResponseLog(flow, u.Artifact, resp, log)

	if p.opts.audit != nil {
		event := domain.AuditEvent{
			RunID:      inv.ID,
			FlowKey:    flow.Key(),
			FileName:   filepath.Base(u.Artifact),
			Payload:    string(payload),
			StatusCode: resp.StatusCode,
			Response:   resp.Body,
			CreatedAt:  p.opts.now(),
		}
		if err := p.opts.audit.Record(ctx, event); err != nil {
			log.Warn("failed to record audit event", zap.Error(err))
		}
	}
	return nil
}

// writeResponseLog persists the final status and body of a post.
func (p *InboundPipeline) writeResponseLog(flow domain.FlowDefinition, artifact string, resp domain.APIResponse, log *zap.Logger) {
	dir := filepath.Join(p.cfg.Resolve(flow.LocalProcessedDir), "response")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error("failed to create response dir", zap.Error(err))
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.%d.response.txt", filepath.Base(artifact), p.opts.now().Unix()))
	body := fmt.Sprintf("status_code: %d\n\n%s", resp.StatusCode, resp.Body)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		log.Error("failed to write response file", zap.String("path", path), zap.Error(err))
	}
}

