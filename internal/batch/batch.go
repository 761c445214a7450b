// Package batch sorts many independent sequences concurrently.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"digitsort/internal/radix"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options controls a batch run.
type Options struct {
	Workers  int  // <= 0 means runtime.NumCPU()
	FailFast bool // stop at the first invalid input
	Sorter   *radix.Sorter
	Logger   *zap.Logger
}

// Input is one sequence to sort. An Input with Err set was rejected upstream
// (for example by the parser); it is reported like a sort failure and obeys
// FailFast the same way.
type Input struct {
	Values []int
	Err    error
}

// Sequences wraps plain sequences as Inputs.
func Sequences(seqs [][]int) []Input {
	inputs := make([]Input, len(seqs))
	for i, s := range seqs {
		inputs[i] = Input{Values: s}
	}
	return inputs
}

// Result is the outcome for one input, at the same index it had in the batch.
type Result struct {
	Index  int
	Values []int
	Err    error
}

// Run sorts each input. Results are returned in input order. Without
// FailFast, per-input errors are recorded in the Result and the run
// continues; the returned error is then only non-nil on cancellation.
func Run(ctx context.Context, inputs []Input, opts Options) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sorter := opts.Sorter
	if sorter == nil {
		sorter = radix.NewSorter()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	start := time.Now()
	results := make([]Result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, in := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var (
				out []int
				err = in.Err
			)
			if err == nil {
				out, err = sorter.Sort(in.Values)
			}
			results[i] = Result{Index: i, Values: out, Err: err}
			if err != nil {
				logger.Debug("batch input rejected", zap.Int("index", i), zap.Error(err))
				if opts.FailFast {
					return fmt.Errorf("input %d: %w", i, err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("batch complete",
		zap.Int("inputs", len(inputs)),
		zap.Int("workers", workers),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

// Failed counts results carrying an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
