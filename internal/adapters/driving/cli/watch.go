package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <partner> <flow>",
	Short: "Run a local inbound flow whenever files arrive",
	Long: `Watches the input directory of a local inbound flow and runs the flow
once at start and again whenever files are created or written there.
Bursts of events are coalesced. Stop with Ctrl+C.`,
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second, "quiet period before a run starts")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	partner, flow := args[0], args[1]
	return withApp(cmd, func(ctx context.Context, app *App) error {
		if app.Runner == nil {
			return errors.New("flow runner not configured")
		}
		dir, err := app.Runner.WatchDir(partner, flow)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create input dir: %w", err)
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}

		run := func() error {
			summary, err := app.Runner.Run(ctx, domain.DirectionInbound, partner, flow)
			if summary != nil && len(summary.Files)+len(summary.Excluded) > 0 {
				cmd.Println(renderSummary(*summary))
			}
			return err
		}

		cmd.Printf("Watching %s for %s.%s\n", dir, partner, flow)
		if err := run(); err != nil && stopsWatch(err) {
			return err
		}
		return watchLoop(ctx, watcher.Events, watcher.Errors, watchDebounce, run, cmd.ErrOrStderr())
	})
}

// watchLoop runs fn once per burst of triggering events until ctx ends.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	debounce time.Duration,
	fn func() error,
	out io.Writer,
) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !triggersRun(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			fmt.Fprintln(out, "Warning: watcher:", err)

		case <-fire:
			fire = nil
			if err := fn(); err != nil {
				if stopsWatch(err) {
					return err
				}
				fmt.Fprintln(out, "Error:", err)
			}
		}
	}
}

// triggersRun reports whether an event announces a new or changed input file.
func triggersRun(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	info, err := os.Stat(ev.Name)
	return err == nil && !info.IsDir()
}

// stopsWatch reports whether a run error will repeat on every run.
func stopsWatch(err error) bool {
	return errors.Is(err, domain.ErrFlowNotFound) ||
		errors.Is(err, domain.ErrMissingConfig) ||
		errors.Is(err, domain.ErrConverterNotRegistered) ||
		errors.Is(err, domain.ErrUsage)
}
