package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driving"
)

var (
	_ driving.FlowRunner   = (*mockRunner)(nil)
	_ driving.TokenService = (*mockTokens)(nil)
)

type runCall struct {
	direction domain.Direction
	partner   string
	flow      string
}

// mockRunner implements driving.FlowRunner for testing.
type mockRunner struct {
	summary  *domain.RunSummary
	err      error
	flows    []domain.FlowDefinition
	watchDir string
	watchErr error
	calls    []runCall
}

func (m *mockRunner) Run(_ context.Context, direction domain.Direction, partner, flow string) (*domain.RunSummary, error) {
	m.calls = append(m.calls, runCall{direction, partner, flow})
	return m.summary, m.err
}

func (m *mockRunner) Flows() []domain.FlowDefinition {
	return m.flows
}

func (m *mockRunner) WatchDir(_, _ string) (string, error) {
	return m.watchDir, m.watchErr
}

// mockTokens implements driving.TokenService for testing.
type mockTokens struct {
	tok domain.Token
	err error
}

func (m *mockTokens) Token(_ context.Context) (domain.Token, error) {
	return m.tok, m.err
}

// setupApp makes every command run against app and captures its output.
func setupApp(t *testing.T, app *App) *bytes.Buffer {
	t.Helper()
	oldBootstrap := bootstrap
	oldShow := tokenShow
	bootstrap = func(_ context.Context, _ Options) (*App, error) {
		return app, nil
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	t.Cleanup(func() {
		bootstrap = oldBootstrap
		tokenShow = oldShow
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return buf
}

func inboundFlow() domain.FlowDefinition {
	return domain.FlowDefinition{
		Partner:   "FC",
		Direction: domain.DirectionInbound,
		Name:      "orders",
		Converter: "fc_orders",
	}
}
