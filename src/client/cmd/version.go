package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apimgr/catalog/src/common/version"
	"github.com/apimgr/catalog/src/presenter"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		out := cmd.OutOrStdout()

		format, err := presenter.ParseFormat(getOutputFormat())
		if err != nil {
			return err
		}

		if format == presenter.FormatJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		fmt.Fprint(out, info.Full())
		return nil
	},
}
