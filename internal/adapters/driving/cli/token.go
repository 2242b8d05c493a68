package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
)

var tokenShow bool

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Show the cached API access token status",
	Long: `Shows whether a valid access token is cached and when it expires.
A new token is requested from the token endpoint when needed.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *App) error {
			if app.Tokens == nil {
				return errors.New("token service not configured")
			}
			tok, err := app.Tokens.Token(ctx)
			if err != nil {
				return err
			}
			if tok.AccessToken == "" {
				cmd.Println("No token endpoint configured.")
				return nil
			}
			expiry := tok.Expiry()
			cmd.Printf("Token:   %s\n", maskToken(tok.AccessToken, tokenShow))
			cmd.Printf("Expires: %s (in %s)\n",
				expiry.Format(time.RFC3339), time.Until(expiry).Round(time.Second))
			return nil
		})
	},
}

func init() {
	tokenCmd.Flags().BoolVar(&tokenShow, "show", false, "print the full token")
	rootCmd.AddCommand(tokenCmd)
}

// maskToken hides all but the first and last four characters.
func maskToken(tok string, show bool) string {
	if show {
		return tok
	}
	if len(tok) <= 12 {
		return "****"
	}
	return tok[:4] + "..." + tok[len(tok)-4:]
}
