package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/keepaway/internal/presentation/tui"
	"github.com/aretw0/keepaway/pkg/domain"
)

var solveCmd = &cobra.Command{
	Use:   "solve <file>",
	Short: "Run the simulation and print the answer",
	Long: `Runs the simulation over a puzzle file (.txt) or a structured definition
document (.yaml, .yml, .json) and prints the answer.

Modes:
  bounded    20 rounds, every value divided by 3 (alias: part1, 1)
  unbounded  10000 rounds, values kept small by the product of all divisors (alias: part2, 2)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeStr, _ := cmd.Flags().GetString("mode")
		rounds, _ := cmd.Flags().GetInt("rounds")
		dampener, _ := cmd.Flags().GetInt64("dampener")
		report, _ := cmd.Flags().GetBool("report")
		asJSON, _ := cmd.Flags().GetBool("json")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		mode, err := domain.ParseMode(modeStr)
		if err != nil {
			return err
		}

		solver := newSolver(timeoutOption(timeout)...)
		defs, res, err := runFile(cmd.Context(), solver, args[0], mode, rounds, dampener)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case asJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		case report:
			md := tui.Report(defs, res)
			if !isTerminal(out) {
				fmt.Fprint(out, md)
				return nil
			}
			rendered, err := tui.NewRenderer()(md)
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
		default:
			fmt.Fprintln(out, res.Answer)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().StringP("mode", "m", "bounded", "Simulation mode: bounded or unbounded")
	solveCmd.Flags().Int("rounds", 0, "Override the number of rounds")
	solveCmd.Flags().Int64("dampener", 0, "Override the dampener")
	solveCmd.Flags().Bool("report", false, "Render a Markdown report of the run")
	solveCmd.Flags().Bool("json", false, "Print the full result as JSON")
	solveCmd.Flags().Duration("timeout", 0, "Abort if the run takes longer than this")
}

// isTerminal reports whether w is an interactive terminal; piped output gets raw Markdown.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
