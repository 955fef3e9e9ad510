package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/keepaway"
	"github.com/aretw0/keepaway/internal/compiler"
	"github.com/aretw0/keepaway/pkg/domain"
)

// runFile solves the file at path. Puzzle text goes through Solve so the
// answer is cached by content; structured documents are decoded first.
func runFile(ctx context.Context, solver *keepaway.Solver, path string, mode domain.Mode, rounds int, dampener int64) ([]domain.Definition, domain.Result, error) {
	custom := rounds != 0 || dampener != 0

	if compiler.FormatFromPath(path) == compiler.FormatText && !custom {
		input, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.Result{}, fmt.Errorf("failed to read input: %w", err)
		}
		defs, err := solver.Parse(input)
		if err != nil {
			return nil, domain.Result{}, err
		}
		res, err := solver.Solve(ctx, input, mode)
		return defs, res, err
	}

	defs, err := compiler.Load(path)
	if err != nil {
		return nil, domain.Result{}, err
	}
	r, d := mode.Params()
	if rounds != 0 {
		r = rounds
	}
	if dampener != 0 {
		d = dampener
	}
	res, err := solver.Simulate(ctx, defs, r, d)
	return defs, res, err
}

func newSolver(opts ...keepaway.Option) *keepaway.Solver {
	return keepaway.New(append([]keepaway.Option{keepaway.WithLogger(slog.Default())}, opts...)...)
}

func timeoutOption(d time.Duration) []keepaway.Option {
	if d > 0 {
		return []keepaway.Option{keepaway.WithTimeout(d)}
	}
	return nil
}
