package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dualsubstrate/web4r-go/internal/graph"
	"github.com/dualsubstrate/web4r-go/internal/models"
	"github.com/dualsubstrate/web4r-go/internal/walk"
)

var (
	walkHops       int
	walkNamespace  string
	walkDotPath    string
	walkInspect    bool
	walkHopNumbers bool
)

var walkCmd = &cobra.Command{
	Use:   "walk <start-coordinate>",
	Short: "Walk the knowledge graph from a starting coordinate",
	Long: `Simulate the inference engine traversing the knowledge graph: hop from
a starting coordinate to related memories based on coherence scores.

Each hop is resolved against the ledger for display; the chosen transition
renders as a solid edge and the best rejected alternatives as dashed,
score-labeled branches.

Examples:
  web4r walk EV-882
  web4r walk EV:882 --hops 8 --dot walk.dot
  web4r walk EV-882 --inspect=false --hop-numbers=false`,
	Args: cobra.ExactArgs(1),
	RunE: runWalk,
}

func init() {
	walkCmd.Flags().IntVarP(&walkHops, "hops", "n", 5, "maximum number of hops (1-25)")
	walkCmd.Flags().StringVar(&walkNamespace, "namespace", "", "override the derived namespace")
	walkCmd.Flags().StringVar(&walkDotPath, "dot", "", "write the walk graph as Graphviz dot to this file")
	walkCmd.Flags().BoolVar(&walkInspect, "inspect", true, "show the walk inspection table")
	walkCmd.Flags().BoolVar(&walkHopNumbers, "hop-numbers", true, "prefix node labels with hop numbers")
}

func runWalk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := args[0]

	resolution, err := walker.ResolveStart(ctx, start)
	if err != nil {
		return fmt.Errorf("cannot start walk: %w", err)
	}
	namespace := resolution.Namespace
	if walkNamespace != "" {
		namespace = walkNamespace
	}

	result, err := walker.Run(ctx, resolution.Coordinate, walkHops, namespace)
	if errors.Is(err, walk.ErrEmptyPath) {
		return fmt.Errorf("backend returned no path; the walk requires flow-rules output")
	}
	if err != nil {
		return fmt.Errorf("walk failed: %w", err)
	}

	g, err := assembleGraph(ctx, result, walkHops)
	if err != nil {
		return err
	}

	return renderWalk(result, g)
}

// assembleGraph builds the walk graph, resolving each hop's coordinate
// against the ledger. On a TTY the assembly renders incrementally.
func assembleGraph(ctx context.Context, result *models.WalkResult, maxHops int) (*graph.Graph, error) {
	resolve := func(coord string) models.DecodeResult {
		details, err := apiClient.Decode(ctx, coord)
		if err != nil {
			// A hop that cannot be resolved still renders, just unlabeled.
			return models.ErrorResult(err.Error())
		}
		return details
	}

	var opts []graph.Option
	if walkHopNumbers {
		opts = append(opts, graph.WithHopNumbers())
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return runWalkProgress(result, maxHops, resolve, opts...)
	}

	opts = append(opts, graph.WithObserver(func(u graph.HopUpdate) {
		fmt.Printf("Hop %d: %s\n", u.Hop, u.Coord)
	}))
	return graph.Build(result.Path, result.Steps, maxHops, resolve, opts...), nil
}

// renderWalk prints the traversal summary shared by walk and load.
func renderWalk(result *models.WalkResult, g *graph.Graph) error {
	fmt.Println()
	fmt.Println(defaultTheme.completedStyle().Render(fmt.Sprintf("Walk complete: %d nodes, %d edges", len(g.Nodes), len(g.Edges))))
	if result.TerminationReason != "" {
		fmt.Printf("%s %s\n", defaultTheme.metricLabelStyle().Render("termination"), result.TerminationReason)
	}

	if series := renderCoherenceSeries(g.Coherence); series != "" {
		fmt.Println(series)
	}

	if walkInspect {
		if rows := result.InspectionRows(); len(rows) > 0 {
			fmt.Println()
			fmt.Println(renderInspection(rows))
		}
	}

	if walkDotPath != "" {
		if err := os.WriteFile(walkDotPath, []byte(g.DOT()), 0o644); err != nil {
			return fmt.Errorf("writing dot file: %w", err)
		}
		fmt.Println(defaultTheme.hintStyle().Render(fmt.Sprintf("Graph written to %s", walkDotPath)))
	}
	return nil
}
