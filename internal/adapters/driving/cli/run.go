package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

var runCmd = &cobra.Command{
	Use:   "run <inbound|outbound> <partner> <flow>",
	Short: "Run one configured flow",
	Long: `Runs one configured flow to completion.

Inbound flows fetch, split, convert and post partner files, then archive
or dead-letter each file. Outbound flows refresh the payload date window,
call the order API, convert the result and deliver the partner files.

Exit status is 0 when the run completed, 2 for usage errors and 1 when
the run was aborted.`,
	Args: usageArgs(cobra.ExactArgs(3)),
	RunE: runFlow,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runFlow(cmd *cobra.Command, args []string) error {
	direction, err := domain.ParseDirection(args[0])
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, app *App) error {
		if app.Runner == nil {
			return errors.New("flow runner not configured")
		}
		summary, err := app.Runner.Run(ctx, direction, args[1], args[2])
		if summary != nil {
			cmd.Println(renderSummary(*summary))
		}
		return err
	})
}
