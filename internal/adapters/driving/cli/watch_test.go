package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

func TestTriggersRun(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "FC_ORDERS_1.txt")
	hidden := filepath.Join(dir, ".FC_ORDERS_1.txt.part")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(hidden, []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(sub, 0o755))

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"create", fsnotify.Event{Name: file, Op: fsnotify.Create}, true},
		{"write", fsnotify.Event{Name: file, Op: fsnotify.Write}, true},
		{"chmod", fsnotify.Event{Name: file, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: file, Op: fsnotify.Remove}, false},
		{"hidden", fsnotify.Event{Name: hidden, Op: fsnotify.Create}, false},
		{"directory", fsnotify.Event{Name: sub, Op: fsnotify.Create}, false},
		{"vanished", fsnotify.Event{Name: filepath.Join(dir, "gone.txt"), Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, triggersRun(tt.ev))
		})
	}
}

func TestWatchLoop_DebouncesBursts(t *testing.T) {
	file := filepath.Join(t.TempDir(), "FC_ORDERS_1.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	events := make(chan fsnotify.Event)
	errs := make(chan error)
	runs := make(chan struct{}, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, events, errs, 30*time.Millisecond, func() error {
			runs <- struct{}{}
			return nil
		}, io.Discard)
	}()

	events <- fsnotify.Event{Name: file, Op: fsnotify.Create}
	events <- fsnotify.Event{Name: file, Op: fsnotify.Write}
	events <- fsnotify.Event{Name: file, Op: fsnotify.Write}

	select {
	case <-runs:
	case <-time.After(2 * time.Second):
		t.Fatal("no run after burst")
	}
	select {
	case <-runs:
		t.Fatal("burst triggered more than one run")
	case <-time.After(150 * time.Millisecond):
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchLoop_KeepsWatchingAfterRunError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "FC_ORDERS_1.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	events := make(chan fsnotify.Event)
	runs := make(chan struct{}, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, events, nil, time.Millisecond, func() error {
			runs <- struct{}{}
			return fmt.Errorf("post: %w", domain.ErrAPIRequest)
		}, io.Discard)
	}()

	for i := 0; i < 2; i++ {
		events <- fsnotify.Event{Name: file, Op: fsnotify.Create}
		select {
		case <-runs:
		case <-time.After(2 * time.Second):
			t.Fatalf("run %d did not happen", i+1)
		}
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchLoop_StopsOnConfigError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "FC_ORDERS_1.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	events := make(chan fsnotify.Event, 1)
	events <- fsnotify.Event{Name: file, Op: fsnotify.Create}

	err := watchLoop(context.Background(), events, nil, time.Millisecond, func() error {
		return fmt.Errorf("%w: converter", domain.ErrConverterNotRegistered)
	}, io.Discard)

	assert.ErrorIs(t, err, domain.ErrConverterNotRegistered)
}

func TestWatchCmd_RequiresLocalInbound(t *testing.T) {
	runner := &mockRunner{watchErr: fmt.Errorf("%w: FC.orders is not a local inbound flow", domain.ErrUsage)}
	setupApp(t, &App{Runner: runner})

	code := Execute(context.Background(), []string{"watch", "FC", "orders"})

	assert.Equal(t, ExitUsage, code)
	assert.Empty(t, runner.calls)
}

func TestWatchCmd_RunsOnceThenStops(t *testing.T) {
	runner := &mockRunner{
		watchDir: t.TempDir(),
		summary:  &domain.RunSummary{RunID: "run-w", Flow: inboundFlow()},
	}
	setupApp(t, &App{Runner: runner})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := Execute(ctx, []string{"watch", "FC", "orders"})

	assert.Equal(t, ExitOK, code)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, domain.DirectionInbound, runner.calls[0].direction)
}
