package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// DefaultJob is the Pushgateway job name when none is configured.
const DefaultJob = "jtlflow"

const namespace = "jtlflow"

const pushTimeout = 10 * time.Second

var (
	_ driven.MetricsRecorder = (*PushRecorder)(nil)
	_ driven.MetricsRecorder = (*NullRecorder)(nil)
)

// runGauges are the values pushed for one run.
type runGauges struct {
	filesSucceeded prometheus.Gauge
	filesFailed    prometheus.Gauge
	filesExcluded  prometheus.Gauge
	unitsPosted    prometheus.Gauge
	unitsFailed    prometheus.Gauge
	apiAttempts    prometheus.Gauge
	delivered      prometheus.Gauge
	skipped        prometheus.Gauge
	fallbacks      prometheus.Gauge
	duration       prometheus.Gauge
	finishedAt     prometheus.Gauge
}

func newRunGauges() *runGauges {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      name,
			Help:      help,
		})
	}
	return &runGauges{
		filesSucceeded: gauge("files_succeeded", "Inbound files archived after every unit succeeded."),
		filesFailed:    gauge("files_failed", "Inbound files moved to the dead-letter folder."),
		filesExcluded:  gauge("files_excluded", "Fetched inbound files not matching the start pattern."),
		unitsPosted:    gauge("units_posted", "Split units posted to the order API."),
		unitsFailed:    gauge("units_failed", "Split units that failed to convert or were rejected."),
		apiAttempts:    gauge("api_attempts", "Order API requests sent, retries included."),
		delivered:      gauge("artifacts_delivered", "Outbound artifacts delivered to the partner."),
		skipped:        gauge("artifacts_skipped", "Outbound artifacts skipped for lack of data."),
		fallbacks:      gauge("delivery_fallbacks", "Deliveries that fell back to a local copy."),
		duration:       gauge("duration_seconds", "Wall-clock duration of the run."),
		finishedAt:     gauge("last_finished_timestamp_seconds", "Unix time the run finished."),
	}
}

func (g *runGauges) register(reg *prometheus.Registry) {
	reg.MustRegister(
		g.filesSucceeded, g.filesFailed, g.filesExcluded,
		g.unitsPosted, g.unitsFailed, g.apiAttempts,
		g.delivered, g.skipped, g.fallbacks,
		g.duration, g.finishedAt,
	)
}

func (g *runGauges) observe(s domain.RunSummary) {
	var posted, failed, attempts int
	for _, f := range s.Files {
		for _, r := range f.Responses() {
			posted++
			attempts += r.Attempts
		}
		failed += len(f.Failed())
	}
	g.filesSucceeded.Set(float64(s.Succeeded()))
	g.filesFailed.Set(float64(s.FailedFiles()))
	g.filesExcluded.Set(float64(len(s.Excluded)))
	g.unitsPosted.Set(float64(posted))
	g.unitsFailed.Set(float64(failed))
	g.apiAttempts.Set(float64(attempts))
	g.delivered.Set(float64(len(s.Delivered)))
	g.skipped.Set(float64(len(s.Skipped)))
	g.fallbacks.Set(float64(s.Fallbacks))
	g.duration.Set(s.Duration().Seconds())
	g.finishedAt.Set(float64(s.FinishedAt.Unix()))
}

// PushRecorder pushes run gauges to a Pushgateway.
type PushRecorder struct {
	url    string
	job    string
	client *http.Client
	logger *zap.Logger
}

// NewPushRecorder creates a recorder for the gateway at url.
func NewPushRecorder(url, job string, client *http.Client, logger *zap.Logger) *PushRecorder {
	if job == "" {
		job = DefaultJob
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PushRecorder{url: url, job: job, client: client, logger: logger}
}

// New returns a PushRecorder when a gateway is configured, else a NullRecorder.
func New(settings domain.MetricsSettings, logger *zap.Logger) driven.MetricsRecorder {
	if settings.PushgatewayURL == "" {
		return NullRecorder{}
	}
	client := &http.Client{Timeout: pushTimeout}
	return NewPushRecorder(settings.PushgatewayURL, settings.Job, client, logger)
}

// RecordRun replaces the flow's metric group with the values of summary.
func (r *PushRecorder) RecordRun(ctx context.Context, s domain.RunSummary) error {
	reg := prometheus.NewRegistry()
	g := newRunGauges()
	g.register(reg)
	g.observe(s)

	err := push.New(r.url, r.job).
		Client(r.client).
		Gatherer(reg).
		Grouping("partner", s.Flow.Partner).
		Grouping("direction", string(s.Flow.Direction)).
		Grouping("flow", s.Flow.Name).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("pushing metrics for %s: %w", s.Flow.Key(), err)
	}
	r.logger.Debug("pushed run metrics", zap.String("flow", s.Flow.Key()), zap.String("gateway", r.url))
	return nil
}

// NullRecorder discards run metrics.
type NullRecorder struct{}

// RecordRun does nothing.
func (NullRecorder) RecordRun(context.Context, domain.RunSummary) error { return nil }
