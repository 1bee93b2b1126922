package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kubev2v/capacity-planner/api/v1alpha1"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type ClustersOptions struct {
	GlobalOptions

	Output string

	out io.Writer
}

func DefaultClustersOptions() *ClustersOptions {
	return &ClustersOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdClusters() *cobra.Command {
	o := DefaultClustersOptions()
	cmd := &cobra.Command{
		Use:   "clusters FILE",
		Short: "List the clusters of a Collector workbook.",
		Args:  cobra.ExactArgs(1),
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

func (o *ClustersOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
}

func (o *ClustersOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}
	o.out = cmd.OutOrStdout()
	return nil
}

func (o *ClustersOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	return validateOutput(o.Output)
}

func (o *ClustersOptions) Run(ctx context.Context, args []string) error {
	planner, ds, err := loadWorkbook(ctx, args[0])
	if err != nil {
		return err
	}

	clusters, err := planner.Clusters(ctx, ds.ID)
	if err != nil {
		return err
	}

	printed, err := printStructured(o.out, v1alpha1.ClusterList{Clusters: clusters}, o.Output)
	if printed || err != nil {
		return err
	}
	for _, c := range clusters {
		fmt.Fprintln(o.out, c)
	}
	return nil
}
