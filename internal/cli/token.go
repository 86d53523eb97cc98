package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// tokenCmd acquires a token and prints it, mostly for piping into curl
// or checking that the app registration works.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Acquire an access token and print it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		tr, _, err := client.AcquireToken(cmd.Context(), cfg.Credentials())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), tr.AccessToken)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
