package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/kubev2v/capacity-planner/api/v1alpha1"
	"github.com/kubev2v/capacity-planner/internal/handlers/v1alpha1/mappers"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type AnalyzeOptions struct {
	GlobalOptions
	SelectionOptions

	Output string

	out io.Writer
}

func DefaultAnalyzeOptions() *AnalyzeOptions {
	return &AnalyzeOptions{
		GlobalOptions:    DefaultGlobalOptions(),
		SelectionOptions: DefaultSelectionOptions(),
	}
}

func NewCmdAnalyze() *cobra.Command {
	o := DefaultAnalyzeOptions()
	cmd := &cobra.Command{
		Use:     "analyze FILE",
		Short:   "Size the clusters of a Collector workbook.",
		Example: "analyze collector.xlsx --clusters prod-a --cpu-basis p95-on --cpu-growth 20",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *AnalyzeOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	o.SelectionOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s). A table when empty.", strings.Join(legalOutputTypes, ", ")))
}

func (o *AnalyzeOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}
	o.out = cmd.OutOrStdout()
	return nil
}

func (o *AnalyzeOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if err := o.SelectionOptions.Validate(); err != nil {
		return err
	}
	return validateOutput(o.Output)
}

func (o *AnalyzeOptions) Run(ctx context.Context, args []string) error {
	planner, ds, err := loadWorkbook(ctx, args[0])
	if err != nil {
		return err
	}

	analysis, err := planner.Analyze(ctx, ds.ID, o.Selection())
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", ds.Name, err)
	}

	result := mappers.AnalysisToApi(analysis)
	printed, err := printStructured(o.out, result, o.Output)
	if printed || err != nil {
		return err
	}

	w := tabwriter.NewWriter(o.out, 0, 8, 1, '\t', 0)
	printRecommendationsTable(w, result)
	return w.Flush()
}

func printRecommendationsTable(w io.Writer, a v1alpha1.Analysis) {
	fmt.Fprintf(w, "CLUSTERS\t%s\n", strings.Join(a.Clusters, ", "))
	fmt.Fprintln(w, "RESOURCE\tBASIS\tGROWTH\tBASIS VALUE\tRECOMMENDED\tUNIT\tSAVINGS")
	for _, r := range a.Recommendations {
		if r.Failed {
			fmt.Fprintf(w, "%s\t-\t%g\t-\t-\t-\t%s\n", r.Resource, r.Growth, r.Reason)
			continue
		}
		savings := "-"
		if r.Savings != nil {
			savings = fmt.Sprintf("%g", *r.Savings)
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%s\t%s\n", r.Resource, r.BasisLabel, r.Growth, r.BasisValue, r.FinalValue, r.Unit, savings)
	}
}
