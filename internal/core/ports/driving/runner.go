package driving

import (
	"context"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

// FlowRunner executes configured flows.
type FlowRunner interface {
	// Run executes one flow. The summary is returned even when err is non-nil
	// if the flow got far enough to produce one.
	Run(ctx context.Context, direction domain.Direction, partner, flow string) (*domain.RunSummary, error)

	// Flows lists every configured flow.
	Flows() []domain.FlowDefinition

	// WatchDir returns the absolute local input directory of a local inbound flow.
	WatchDir(partner, flow string) (string, error)
}

// TokenService exposes the current access token for diagnostics.
type TokenService interface {
	Token(ctx context.Context) (domain.Token, error)
}
