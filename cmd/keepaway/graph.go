package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/keepaway/internal/compiler"
	"github.com/aretw0/keepaway/internal/presentation/graph"
	"github.com/aretw0/keepaway/pkg/domain"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the throw topology as a Mermaid diagram",
	Long:  `Outputs a Mermaid flowchart (graph LR) of which agent throws to which. With --run, the busiest agents of a bounded run are highlighted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		withRun, _ := cmd.Flags().GetBool("run")

		defs, err := compiler.Load(args[0])
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if withRun {
			res, err := newSolver().Simulate(cmd.Context(), defs, domain.BoundedRounds, domain.BoundedDampener)
			if err != nil {
				return err
			}
			overlay = &graph.Overlay{Inspections: res.Inspections}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(defs, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("run", false, "Run a bounded simulation and highlight the busiest agents")
}
