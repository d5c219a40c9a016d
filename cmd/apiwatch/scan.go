package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/joshuapare/apiwatch/declindex"
	"github.com/joshuapare/apiwatch/detect"
	"github.com/joshuapare/apiwatch/lookup"
	"github.com/joshuapare/apiwatch/pkg/report"
	"github.com/joshuapare/apiwatch/pkg/scan"
)

var (
	scanIndexes            []string
	scanAnnotations        string
	scanWorkers            int
	scanCacheSize          int
	scanMinMajor           uint16
	scanIncludeDescriptors bool
	scanFailOnUsage        bool
	scanBaseline           string
	scanMetricsFile        string
	scanPaths              bool
	scanOutput             string
)

func init() {
	cmd := newScanCmd()
	cmd.Flags().StringSliceVarP(&scanIndexes, "index", "i", nil, "Declarative index file (repeatable)")
	cmd.Flags().StringVar(&scanAnnotations, "annotations", "", "YAML annotation index for annotated-usage detection")
	cmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "Parallel parse workers")
	cmd.Flags().IntVar(&scanCacheSize, "cache-size", 0, "Class result cache entries (0 disables)")
	cmd.Flags().Uint16Var(&scanMinMajor, "min-major", 0, "Reject class files below this major version")
	cmd.Flags().BoolVar(&scanIncludeDescriptors, "include-descriptors", false, "Also scan module-info and package-info")
	cmd.Flags().BoolVar(&scanFailOnUsage, "fail-on-usage", false, "Exit with status 2 when usages are found")
	cmd.Flags().StringVar(&scanBaseline, "baseline", "", "Text report of accepted usages")
	cmd.Flags().StringVar(&scanMetricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file")
	cmd.Flags().BoolVar(&scanPaths, "paths", false, "Prefix each usage with its class file")
	cmd.Flags().StringVarP(&scanOutput, "output", "o", "", "Write the report to a file instead of stdout")
	rootCmd.AddCommand(cmd)
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <path>...",
		Short: "Scan class files, directories and jars for tracked API usage",
		Long: `The scan command parses every class file under the given paths and
reports each reference to tracked API.

Example:
  apiwatch scan --index experimental.idx build/classes
  apiwatch scan -i a.idx -i b.idx libs/app.jar --fail-on-usage
  apiwatch scan -i a.idx build/classes --baseline accepted.txt --fail-on-usage
  apiwatch scan -i a.idx build/classes --json --metrics-file scan.prom`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			applyScanFlags(cmd.Flags(), &c)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()
			return runScan(ctx, &c, args)
		},
	}
	return cmd
}

// applyScanFlags overrides c with every flag set on the command line.
func applyScanFlags(fs *pflag.FlagSet, c *Config) {
	if fs.Changed("index") {
		c.Indexes = scanIndexes
	}
	if fs.Changed("annotations") {
		c.Annotations = scanAnnotations
	}
	if fs.Changed("workers") {
		c.Workers = scanWorkers
	}
	if fs.Changed("cache-size") {
		c.CacheSize = scanCacheSize
	}
	if fs.Changed("min-major") {
		c.MinMajorVersion = scanMinMajor
	}
	if fs.Changed("include-descriptors") {
		c.IncludeDescriptors = scanIncludeDescriptors
	}
	if fs.Changed("fail-on-usage") {
		c.FailOnUsage = scanFailOnUsage
	}
	if fs.Changed("baseline") {
		c.Baseline = scanBaseline
	}
	if fs.Changed("metrics-file") {
		c.MetricsFile = scanMetricsFile
	}
}

// loadIndex reads and merges declarative index files.
func loadIndex(paths []string) (*declindex.Index, error) {
	merged := declindex.New()
	for _, p := range paths {
		ix, err := declindex.ReadFile(p)
		if err != nil {
			return nil, err
		}
		printVerbose("Loaded %s: %d tracked annotation(s)\n", p, ix.Len())
		merged.Merge(ix)
	}
	return merged, nil
}

func runScan(ctx context.Context, c *Config, paths []string) error {
	out := io.Writer(os.Stdout)
	if scanOutput != "" {
		f, err := os.Create(scanOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	res, err := scanWithConfig(ctx, c, paths, out)
	if err != nil {
		return err
	}
	printStatus("%s\n", report.Summary(res))
	return checkUsages(c, res)
}

// scanWithConfig runs a scan and writes the report to out.
func scanWithConfig(ctx context.Context, c *Config, paths []string, out io.Writer) (*scan.Result, error) {
	if len(c.Indexes) == 0 {
		return nil, fmt.Errorf("no declarative index given (use --index or APIWATCH_INDEX)")
	}
	decl, err := loadIndex(c.Indexes)
	if err != nil {
		return nil, err
	}
	ix, err := lookup.Build(decl)
	if err != nil {
		return nil, err
	}

	opts := c.ScanOptions()
	if c.Annotations != "" {
		ai, err := detect.LoadAnnotationIndexFile(c.Annotations)
		if err != nil {
			return nil, err
		}
		opts.Annotations = ai
	}
	reg := prometheus.NewRegistry()
	if c.MetricsFile != "" {
		opts.Metrics = scan.NewMetrics(reg)
	}

	s, err := scan.New(ix, opts)
	if err != nil {
		return nil, err
	}
	res, err := s.Scan(ctx, paths...)
	if err != nil {
		return nil, err
	}

	if jsonOut {
		err = report.WriteJSON(out, res, report.JSONOptions{})
	} else {
		err = report.WriteText(out, res, report.TextOptions{Paths: scanPaths, Errors: true})
	}
	if err != nil {
		return nil, err
	}

	if c.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(c.MetricsFile, reg); err != nil {
			return nil, fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return res, nil
}

// checkUsages applies the fail-on-usage policy. With a baseline only usages
// missing from the baseline count.
func checkUsages(c *Config, res *scan.Result) error {
	lines := report.Lines(res)
	if c.Baseline != "" {
		f, err := os.Open(c.Baseline)
		if err != nil {
			return fmt.Errorf("failed to open baseline: %w", err)
		}
		old, err := report.ReadLines(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to read baseline: %w", err)
		}
		delta := report.Compare(old, lines)
		for _, l := range delta.Added {
			printStatus("new: %s\n", l)
		}
		for _, l := range delta.Removed {
			printVerbose("gone: %s\n", l)
		}
		lines = delta.Added
	}
	if c.FailOnUsage && len(lines) > 0 {
		return &exitError{code: 2, msg: fmt.Sprintf("%d usage(s) of tracked API", len(lines))}
	}
	return nil
}
