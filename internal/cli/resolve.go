package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	resolveRaw    bool
	resolveOutput string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <coordinate>",
	Short: "Decode a coordinate into its knowledge tree",
	Long: `Decode a Web4 coordinate against the ledger and render the normalized
result: coherence, mediator, type, the reconstructed summary, and the
ranked claim list.

Examples:
  web4r resolve EV-Demo-Session-123
  web4r resolve "WX:city-weather-44" --raw
  web4r resolve EV-882 --output yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveRaw, "raw", false, "include the raw ledger JSON")
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "text", "output format: text, json or yaml")
}

func runResolve(cmd *cobra.Command, args []string) error {
	coordinate := args[0]

	result, err := apiClient.Decode(cmd.Context(), coordinate)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	switch resolveOutput {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(result)
	case "text":
		fmt.Print(renderDecodeResult(result, resolveRaw))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", resolveOutput)
	}
}
