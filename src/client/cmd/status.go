package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apimgr/catalog/src/model"
	"github.com/apimgr/catalog/src/presenter"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the catalog API is reachable",
	Long: `Fetch the product list once and report whether the catalog answered.
Exits with code 0 if reachable, 1 otherwise.

Examples:
  ` + getBinaryName() + ` status
  ` + getBinaryName() + ` --output json status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, out io.Writer) error {
	s, err := newSession(out)
	if err != nil {
		return err
	}
	defer s.Close()

	// newSession has already validated the format
	format, _ := presenter.ParseFormat(getOutputFormat())

	start := time.Now()
	products, err := s.client.GetAllProducts(cmd.Context())
	elapsed := time.Since(start)

	server := viper.GetString("server.address")

	if err != nil {
		switch format {
		case presenter.FormatJSON:
			resp := map[string]interface{}{
				"status":        "error",
				"server":        server,
				"error":         model.KindOf(err).Code(),
				"message":       err.Error(),
				"response_time": elapsed.Milliseconds(),
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			enc.Encode(resp)
		default:
			fmt.Fprintf(out, "Status: ERROR\n")
			fmt.Fprintf(out, "Server: %s\n", server)
			fmt.Fprintf(out, "Error: %v\n", err)
			fmt.Fprintf(out, "Response time: %dms\n", elapsed.Milliseconds())
		}
		return errFailed
	}

	switch format {
	case presenter.FormatJSON:
		resp := map[string]interface{}{
			"status":        "ok",
			"server":        server,
			"products":      len(products),
			"response_time": elapsed.Milliseconds(),
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	default:
		fmt.Fprintf(out, "Status: OK\n")
		fmt.Fprintf(out, "Server: %s\n", server)
		fmt.Fprintf(out, "Products: %d\n", len(products))
		fmt.Fprintf(out, "Response time: %dms\n", elapsed.Milliseconds())
	}
	return nil
}
