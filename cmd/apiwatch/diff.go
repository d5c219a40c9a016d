package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/apiwatch/pkg/report"
)

var (
	diffContext int
	diffFail    bool
)

func init() {
	cmd := newDiffCmd()
	cmd.Flags().IntVarP(&diffContext, "context", "U", 3, "Lines of context in unified output")
	cmd.Flags().BoolVar(&diffFail, "fail-on-added", false, "Exit with status 2 when the new report adds usages")
	rootCmd.AddCommand(cmd)
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old-report> <new-report>",
		Short: "Compare two text reports",
		Long: `The diff command compares two text reports written by scan and shows
which usages were added or removed. Line order does not matter.

Example:
  apiwatch diff baseline.txt current.txt
  apiwatch diff baseline.txt current.txt --json
  apiwatch diff baseline.txt current.txt --fail-on-added`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args)
		},
	}
}

func readReport(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return report.ReadLines(f)
}

func runDiff(args []string) error {
	old, err := readReport(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	cur, err := readReport(args[1])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[1], err)
	}

	delta := report.Compare(old, cur)
	if jsonOut {
		if err := printJSON(delta); err != nil {
			return err
		}
	} else {
		out, err := report.Unified(args[0], args[1], old, cur, diffContext)
		if err != nil {
			return err
		}
		if out == "" {
			printInfo("No differences\n")
		} else {
			fmt.Fprint(os.Stdout, out)
		}
	}

	if diffFail && len(delta.Added) > 0 {
		return &exitError{code: 2, msg: fmt.Sprintf("%d usage(s) added", len(delta.Added))}
	}
	return nil
}
