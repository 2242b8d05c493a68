package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

func TestFlowsCmd_Empty(t *testing.T) {
	buf := setupApp(t, &App{Runner: &mockRunner{}})

	code := Execute(context.Background(), []string{"flows"})

	require.Equal(t, ExitOK, code)
	assert.Contains(t, buf.String(), "No flows configured.")
}

func TestFlowsCmd_ListsFlows(t *testing.T) {
	in := inboundFlow()
	in.Split = domain.SplitSettings{Enabled: true, FieldStart: 3, FieldEnd: 13}
	out := domain.FlowDefinition{
		Partner:   "FC",
		Direction: domain.DirectionOutbound,
		Name:      "shipments",
		Converter: "fc_shipments",
	}
	buf := setupApp(t, &App{Runner: &mockRunner{flows: []domain.FlowDefinition{in, out}}})

	code := Execute(context.Background(), []string{"flows"})

	require.Equal(t, ExitOK, code)
	s := buf.String()
	assert.Contains(t, s, "fc_orders")
	assert.Contains(t, s, "shipments")
	assert.Contains(t, s, "outbound")
	assert.Contains(t, s, "3-13")
}

func TestFlowsCmd_RejectsArgs(t *testing.T) {
	setupApp(t, &App{Runner: &mockRunner{}})

	code := Execute(context.Background(), []string{"flows", "extra"})

	assert.Equal(t, ExitUsage, code)
}
