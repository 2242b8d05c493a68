package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var flowsCmd = &cobra.Command{
	Use:   "flows",
	Short: "List configured flows",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(_ context.Context, app *App) error {
			if app.Runner == nil {
				return errors.New("flow runner not configured")
			}
			flows := app.Runner.Flows()
			if len(flows) == 0 {
				cmd.Println("No flows configured.")
				return nil
			}
			cmd.Println(renderFlows(flows))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(flowsCmd)
}
