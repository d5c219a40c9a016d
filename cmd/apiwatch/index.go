package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/apiwatch/declindex"
	"github.com/joshuapare/apiwatch/lookup"
)

var (
	indexStats  bool
	indexOutput string
)

func init() {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect and merge declarative index files",
	}

	show := &cobra.Command{
		Use:   "show <index>...",
		Short: "Print the merged content of index files",
		Long: `The show command merges the given index files and prints the result
in canonical (sorted) form.

Example:
  apiwatch index show experimental.idx
  apiwatch index show a.idx b.idx --stats
  apiwatch index show a.idx --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexShow(args)
		},
	}
	show.Flags().BoolVar(&indexStats, "stats", false, "Print lookup index statistics instead of entries")

	merge := &cobra.Command{
		Use:   "merge <index>...",
		Short: "Merge index files into one",
		Long: `The merge command writes the union of the given index files. Merging
is order-independent and idempotent.

Example:
  apiwatch index merge a.idx b.idx -o merged.idx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexMerge(args)
		},
	}
	merge.Flags().StringVarP(&indexOutput, "output", "o", "", "Output file (default stdout)")

	cmd.AddCommand(show, merge)
	rootCmd.AddCommand(cmd)
}

// AnnotationSummary is the JSON form of one index block.
type AnnotationSummary struct {
	Annotation   string `json:"annotation"`
	Interfaces   int    `json:"interfaces"`
	Classes      int    `json:"classes"`
	Annotations  int    `json:"annotations"`
	Methods      int    `json:"methods"`
	Constructors int    `json:"constructors"`
	Fields       int    `json:"fields"`
}

func runIndexShow(args []string) error {
	decl, err := loadIndex(args)
	if err != nil {
		return err
	}

	if indexStats {
		ix, err := lookup.Build(decl)
		if err != nil {
			return err
		}
		st := ix.Stats()
		if jsonOut {
			return printJSON(st)
		}
		printInfo("Tracked annotations: %d\n", st.TrackedAnnotations)
		printInfo("Classes:             %d\n", st.Classes)
		printInfo("Annotation types:    %d\n", st.AnnotationTypes)
		printInfo("Methods:             %d (%d owners)\n", st.Methods, st.MethodOwners)
		printInfo("Fields:              %d (%d owners)\n", st.Fields, st.FieldOwners)
		return nil
	}

	if jsonOut {
		out := make([]AnnotationSummary, 0, decl.Len())
		for _, name := range decl.TrackedAnnotations() {
			e, _ := decl.Lookup(name)
			out = append(out, AnnotationSummary{
				Annotation:   name,
				Interfaces:   len(e.Interfaces),
				Classes:      len(e.Classes),
				Annotations:  len(e.Annotations),
				Methods:      len(e.Methods),
				Constructors: len(e.Constructors),
				Fields:       len(e.Fields),
			})
		}
		return printJSON(out)
	}
	return declindex.Write(os.Stdout, decl)
}

func runIndexMerge(args []string) error {
	decl, err := loadIndex(args)
	if err != nil {
		return err
	}
	if indexOutput == "" {
		return declindex.Write(os.Stdout, decl)
	}
	if err := declindex.WriteFile(indexOutput, decl); err != nil {
		return fmt.Errorf("failed to write %s: %w", indexOutput, err)
	}
	printStatus("Merged %d file(s), %d tracked annotation(s) into %s\n", len(args), decl.Len(), indexOutput)
	return nil
}
