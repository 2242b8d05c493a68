// Package cli implements the jtlflow command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driving"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitFatal = 1
	ExitUsage = 2
)

// version is set at build time via ldflags.
var version = "dev"

// Options are the global flags every command shares.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// App is the set of services a command runs against.
type App struct {
	Runner driving.FlowRunner
	Tokens driving.TokenService
	// Close releases connections and flushes the run log.
	Close func() error
}

// BootstrapFunc loads configuration and wires the services.
type BootstrapFunc func(ctx context.Context, opts Options) (*App, error)

var (
	opts      Options
	bootstrap BootstrapFunc
)

var rootCmd = &cobra.Command{
	Use:   "jtlflow",
	Short: "Partner flat-file integration engine",
	Long: `jtlflow moves partner flat files to and from the order API.

Inbound flows fetch partner files, convert them into canonical orders and
post them. Outbound flows fetch order data and deliver partner files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.yaml", "configuration file (YAML or TOML)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log debug output to the console")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", domain.ErrUsage, err)
	})
}

// SetBootstrap registers how commands obtain their services.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	return ExitCode(err)
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, domain.ErrUsage), strings.HasPrefix(err.Error(), "unknown command"):
		return ExitUsage
	default:
		return ExitFatal
	}
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrUsage, err)
		}
		return nil
	}
}

// withApp bootstraps the services, runs fn and releases them.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	if bootstrap == nil {
		return errors.New("services not configured")
	}
	// Subcommands keep the context of their first execution; the root is
	// updated on every ExecuteContext.
	ctx := cmd.Root().Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	if app.Close != nil {
		defer func() {
			if cerr := app.Close(); cerr != nil {
				fmt.Fprintln(os.Stderr, "Warning: closing services:", cerr)
			}
		}()
	}
	return fn(ctx, app)
}
