package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dualsubstrate/web4r-go/internal/graph"
	"github.com/dualsubstrate/web4r-go/internal/models"
	"github.com/dualsubstrate/web4r-go/internal/walk"
)

var loadOffline bool

var loadCmd = &cobra.Command{
	Use:   "load <file.json>",
	Short: "Rebuild a walk graph from a saved response",
	Long: `Load a previously captured walk response from a JSON file and rebuild
its graph without re-running the traversal.

The path is searched at the payload's top level and inside the usual
envelope sub-objects. Use --offline to skip resolving each hop's
coordinate against the ledger.

Examples:
  web4r load walk.json
  web4r load walk.json --offline --dot walk.dot`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().BoolVar(&loadOffline, "offline", false, "do not resolve hop coordinates over the network")
	loadCmd.Flags().StringVar(&walkDotPath, "dot", "", "write the walk graph as Graphviz dot to this file")
	loadCmd.Flags().BoolVar(&walkInspect, "inspect", true, "show the walk inspection table")
	loadCmd.Flags().BoolVar(&walkHopNumbers, "hop-numbers", true, "prefix node labels with hop numbers")
}

func runLoad(cmd *cobra.Command, args []string) error {
	file := args[0]

	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("parsing %s: %w", file, err)
	}

	path, steps, ok := walk.ExtractPath(payload)
	if !ok {
		return fmt.Errorf("no walk path found in %s", file)
	}

	result := &models.WalkResult{
		Path:  path,
		Steps: steps,
		Raw:   payload,
	}
	if len(path) > 0 {
		result.Start = path[0]
	}

	maxHops := len(steps)

	if loadOffline {
		resolve := func(coord string) models.DecodeResult {
			return models.ErrorResult("offline")
		}
		var opts []graph.Option
		if walkHopNumbers {
			opts = append(opts, graph.WithHopNumbers())
		}
		g := graph.Build(result.Path, result.Steps, maxHops, resolve, opts...)
		return renderWalk(result, g)
	}

	g, err := assembleGraph(cmd.Context(), result, maxHops)
	if err != nil {
		return err
	}
	return renderWalk(result, g)
}
