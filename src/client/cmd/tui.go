package cmd

import (
	"github.com/spf13/cobra"

	"github.com/apimgr/catalog/src/client/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the catalog interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer s.Close()

		return tui.Run(cmd.Context(), s.client)
	},
}
