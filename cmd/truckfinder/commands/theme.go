package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/truckfinder/internal/theme"
)

func themeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the colour theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), theme.For(appSession.store.Snapshot().DarkModeEnabled).Name)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between the light and dark theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dark := appSession.store.ToggleTheme()
			if err := appSession.saved(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme.For(dark).Name)
			return nil
		},
	})
	return cmd
}
