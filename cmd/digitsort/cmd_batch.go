package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"digitsort/internal/batch"
	"digitsort/internal/ingest"
	"digitsort/internal/logging"
	"digitsort/internal/radix"
	"digitsort/internal/render"

	"github.com/spf13/cobra"
)

var (
	batchFile     string
	batchWorkers  int
	batchFailFast bool
)

// batchCmd sorts many sequences concurrently
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Sort one sequence per input line, concurrently",
	Long: `Reads one sequence per line from --file (or stdin) and sorts every line
independently. Output keeps input order, one sorted line per input line.
Blank lines and lines starting with '#' are skipped. A line that does not
parse as non-negative integers is reported on stderr, leaves an empty
output line and makes the command exit non-zero; the other lines are still
sorted. With --fail-fast the run stops at the first such line instead.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "Read sequences from file instead of stdin")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Parallel workers (default from config)")
	batchCmd.Flags().BoolVar(&batchFailFast, "fail-fast", false, "Stop at the first invalid sequence")
}

func runBatch(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if batchFile != "" {
		f, err := os.Open(batchFile)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	lines, err := ingest.ParseLines(r)
	if err != nil {
		return err
	}
	if err := ingest.CheckBatchLimit(len(lines), cfg.Limits.MaxBatchInputs); err != nil {
		return err
	}

	inputs := make([]batch.Input, len(lines))
	for i, l := range lines {
		inputs[i] = batch.Input{Values: l.Values, Err: l.Err}
		if l.Err == nil {
			if err := ingest.CheckLimit(l.Values, cfg.Limits.MaxValues); err != nil {
				inputs[i] = batch.Input{Err: fmt.Errorf("line %d: %w", l.Number, err)}
			}
		}
	}

	workers := cfg.EffectiveWorkers()
	if batchWorkers > 0 {
		workers = batchWorkers
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := batch.Run(ctx, inputs, batch.Options{
		Workers:  workers,
		FailFast: batchFailFast || cfg.Batch.FailFast,
		Sorter:   radix.NewSorter(radix.WithLogger(logging.Get(logging.CategoryRadix))),
		Logger:   logging.Get(logging.CategoryBatch),
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Err)
			fmt.Fprintln(w)
			continue
		}
		if err := render.Values(w, res.Values); err != nil {
			return err
		}
	}
	if n := batch.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d sequences failed", n, len(results))
	}
	return nil
}
