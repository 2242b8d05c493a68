package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// Invocation is one run of one flow.
type Invocation struct {
	ID        string
	Flow      domain.FlowDefinition
	Converter driven.Converter
	// Logger is already tagged with the run and flow. Nil means no logging.
	Logger *zap.Logger
}

func (inv Invocation) log() *zap.Logger {
	if inv.Logger == nil {
		return zap.NewNop()
	}
	return inv.Logger
}

// Option configures a pipeline.
type Option func(*pipelineOptions)

type pipelineOptions struct {
	now      func() time.Time
	notifier driven.Notifier
	audit    driven.AuditSink
}

// WithClock sets the clock used for file names and date windows.
func WithClock(now func() time.Time) Option {
	return func(o *pipelineOptions) { o.now = now }
}

// WithNotifier sets where operator emails are sent.
func WithNotifier(n driven.Notifier) Option {
	return func(o *pipelineOptions) { o.notifier = n }
}

// WithAudit sets where posted responses are recorded.
func WithAudit(a driven.AuditSink) Option {
	return func(o *pipelineOptions) { o.audit = a }
}

func buildOptions(opts []Option) pipelineOptions {
	o := pipelineOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// notify sends n, logging instead of failing.
func notify(ctx context.Context, n driven.Notifier, msg domain.Notification, log *zap.Logger) {
	if n == nil {
		return
	}
	if err := n.Send(ctx, msg); err != nil {
		log.Error("failed to send notification", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	log.Info("notification sent", zap.String("subject", msg.Subject))
}

// isFatal reports whether err must abort the whole run.
func isFatal(err error) bool {
	return errors.Is(err, domain.ErrTokenRequest) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// hasData reports whether path exists and holds at least one non-blank line.
func hasData(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			return true
		}
	}
	return false
}

// copyFile copies src to dst, creating dst's directory.
func copyFile(src, dst string) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// requireURL resolves a flow's API URL, failing when none is configured.
func requireURL(cfg *domain.Config, flow domain.FlowDefinition) (string, error) {
	url := flow.API.ResolveURL(cfg.Globals.BaseURL)
	if url == "" {
		return "", fmt.Errorf("%w: api.url or api.endpoint for %s", domain.ErrMissingConfig, flow.Key())
	}
	return url, nil
}
