package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/keepaway/internal/compiler"
	"github.com/aretw0/keepaway/pkg/registry"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check agent definitions without running them",
	Long:  `Parses the definitions, checks every successor id, divisor and operation, and reports the global modulus.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defs, err := compiler.Load(args[0])
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		reg, err := registry.New(defs)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Definitions are valid! ✅ %d agents, %d items, modulus %d\n",
			reg.Len(), reg.TotalItems(), reg.GlobalModulus())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
