package main

import (
	"fmt"
	"io"
	"os"

	"digitsort/internal/ingest"
	"digitsort/internal/logging"
	"digitsort/internal/radix"
	"digitsort/internal/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sortFile   string
	sortFormat string
	sortJSON   bool
	sortTrace  bool
	sortPlain  bool
)

// sortCmd sorts a single sequence
var sortCmd = &cobra.Command{
	Use:   "sort [values...]",
	Short: "Sort one sequence of non-negative integers",
	Long: `Sorts the given values. Without arguments the sequence is read from
--file, or from stdin when no file is given.

Examples:
  digitsort sort 1 4 23 46 123 2 5
  echo "100,10,1" | digitsort sort
  digitsort sort --file values.json --format json --json
  digitsort sort --trace 170 45 75 90 802 24 2 66`,
	RunE: runSort,
}

func init() {
	sortCmd.Flags().StringVarP(&sortFile, "file", "f", "", "Read values from file instead of stdin")
	sortCmd.Flags().StringVar(&sortFormat, "format", "text", "Input format: text or json")
	sortCmd.Flags().BoolVar(&sortJSON, "json", false, "Write output as a JSON array")
	sortCmd.Flags().BoolVar(&sortTrace, "trace", false, "Print every bucketing pass")
	sortCmd.Flags().BoolVar(&sortPlain, "plain", false, "Disable colors in trace output")
}

func runSort(cmd *cobra.Command, args []string) error {
	values, err := readSortInput(cmd, args)
	if err != nil {
		return err
	}
	if err := ingest.CheckLimit(values, cfg.Limits.MaxValues); err != nil {
		return err
	}

	log := logging.Get(logging.CategoryCLI)
	sorter := radix.NewSorter(radix.WithLogger(logging.Get(logging.CategoryRadix)))

	var (
		out    []int
		passes []radix.Pass
	)
	if sortTrace {
		out, passes, err = sorter.Trace(values)
	} else {
		out, err = sorter.Sort(values)
	}
	if err != nil {
		return err
	}
	log.Debug("sorted", zap.Int("values", len(out)), zap.Int("width", radix.Width(out)))

	w := cmd.OutOrStdout()
	if sortTrace {
		styles := render.DefaultStyles()
		if sortPlain {
			styles = render.PlainStyles()
		}
		if err := render.Trace(w, passes, styles); err != nil {
			return err
		}
	}
	if sortJSON {
		return render.JSON(w, out)
	}
	return render.Values(w, out)
}

func readSortInput(cmd *cobra.Command, args []string) ([]int, error) {
	if len(args) > 0 {
		if sortFile != "" {
			return nil, fmt.Errorf("cannot combine value arguments with --file")
		}
		return ingest.ParseArgs(args)
	}

	var r io.Reader = cmd.InOrStdin()
	if sortFile != "" {
		f, err := os.Open(sortFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	switch sortFormat {
	case "text":
		return ingest.ParseText(r)
	case "json":
		return ingest.ParseJSON(r)
	default:
		return nil, fmt.Errorf("unknown input format: %q (expected text or json)", sortFormat)
	}
}
