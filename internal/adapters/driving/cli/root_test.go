package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"usage", fmt.Errorf("wrap: %w", domain.ErrUsage), ExitUsage},
		{"unknown command", errors.New(`unknown command "bogus" for "jtlflow"`), ExitUsage},
		{"api failure", fmt.Errorf("post: %w", domain.ErrAPIRequest), ExitFatal},
		{"missing config", domain.ErrMissingConfig, ExitFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	buf := setupApp(t, &App{})

	code := Execute(context.Background(), []string{"bogus"})

	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, buf.String(), "Error:")
}

func TestExecute_UnknownFlag(t *testing.T) {
	setupApp(t, &App{})

	code := Execute(context.Background(), []string{"flows", "--nope"})

	assert.Equal(t, ExitUsage, code)
}

func TestExecute_BootstrapFailure(t *testing.T) {
	buf := setupApp(t, &App{})
	bootstrap = func(_ context.Context, _ Options) (*App, error) {
		return nil, fmt.Errorf("load config: %w", domain.ErrMissingConfig)
	}

	code := Execute(context.Background(), []string{"flows"})

	assert.Equal(t, ExitFatal, code)
	assert.Contains(t, buf.String(), "missing required configuration")
}

func TestExecute_PassesGlobalFlags(t *testing.T) {
	setupApp(t, &App{Runner: &mockRunner{}})
	var got Options
	bootstrap = func(_ context.Context, o Options) (*App, error) {
		got = o
		return &App{Runner: &mockRunner{}}, nil
	}
	defer func() {
		opts = Options{ConfigPath: "config.yaml"}
	}()

	code := Execute(context.Background(), []string{"flows", "-c", "/etc/jtlflow.toml", "-v"})

	require.Equal(t, ExitOK, code)
	assert.Equal(t, "/etc/jtlflow.toml", got.ConfigPath)
	assert.True(t, got.Verbose)
}

func TestWithApp_ClosesServices(t *testing.T) {
	closed := false
	setupApp(t, &App{
		Runner: &mockRunner{},
		Close: func() error {
			closed = true
			return nil
		},
	})

	code := Execute(context.Background(), []string{"flows"})

	assert.Equal(t, ExitOK, code)
	assert.True(t, closed)
}

func TestWithApp_NoBootstrap(t *testing.T) {
	setupApp(t, &App{})
	bootstrap = nil

	code := Execute(context.Background(), []string{"flows"})

	assert.Equal(t, ExitFatal, code)
}
