package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Sign out and start onboarding again",
		Long:  "Clear the signed-in user and profile choice. Orders and the theme are kept unless --all is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if err := appSession.storage.RemoveItem(cmd.Context(), appSession.cfg.Storage.Key); err != nil {
					return fmt.Errorf("remove session: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Session removed.")
				return nil
			}
			appSession.store.Reset()
			if err := appSession.saved(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also delete orders and preferences")
	return cmd
}
