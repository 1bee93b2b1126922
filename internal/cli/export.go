package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kubev2v/capacity-planner/api/v1alpha1"
	"github.com/kubev2v/capacity-planner/internal/config"
	"github.com/kubev2v/capacity-planner/internal/service"
	"github.com/kubev2v/capacity-planner/pkg/objectstore"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type ExportOptions struct {
	GlobalOptions
	SelectionOptions

	Format     string
	OutputFile string
	Publish    bool

	out io.Writer
}

func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{
		GlobalOptions:    DefaultGlobalOptions(),
		SelectionOptions: DefaultSelectionOptions(),
		Format:           string(v1alpha1.ReportFormatXLSX),
	}
}

func NewCmdExport() *cobra.Command {
	o := DefaultExportOptions()
	cmd := &cobra.Command{
		Use:     "export FILE",
		Short:   "Write the right sizing report of a Collector workbook.",
		Example: "export collector.xlsx --format csv --output-file sizing.csv\nexport collector.xlsx --publish",
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

func (o *ExportOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	o.SelectionOptions.Bind(fs)

	fs.StringVar(&o.Format, "format", o.Format, "Report format. One of: (xlsx, csv).")
	fs.StringVarP(&o.OutputFile, "output-file", "f", o.OutputFile, "Report path. Defaults to the generated report name.")
	fs.BoolVar(&o.Publish, "publish", o.Publish, "Upload the report to the object store configured by the CAPACITY_PLANNER_S3_* variables")
}

func (o *ExportOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}
	o.Format = string(v1alpha1.StringToReportFormat(o.Format))
	o.out = cmd.OutOrStdout()
	return nil
}

func (o *ExportOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if err := o.SelectionOptions.Validate(); err != nil {
		return err
	}
	switch v1alpha1.ReportFormat(o.Format) {
	case v1alpha1.ReportFormatXLSX, v1alpha1.ReportFormatCSV:
	default:
		return fmt.Errorf("format must be one of xlsx, csv, got %q", o.Format)
	}
	if o.Publish && o.OutputFile != "" {
		return fmt.Errorf("--output-file and --publish are mutually exclusive")
	}
	return nil
}

func (o *ExportOptions) Run(ctx context.Context, args []string) error {
	if o.Publish {
		return o.publish(ctx, args[0])
	}

	planner, ds, err := loadWorkbook(ctx, args[0])
	if err != nil {
		return err
	}

	artifact, err := planner.Export(ctx, ds.ID, o.Selection(), service.ReportFormat(o.Format))
	if err != nil {
		return fmt.Errorf("exporting %s: %w", ds.Name, err)
	}

	path := o.OutputFile
	if path == "" {
		path = artifact.Name
	}
	if err := os.WriteFile(path, artifact.Content, 0o600); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	zap.S().Named("cli").Debugw("report written", "path", path, "size", len(artifact.Content))

	fmt.Fprintf(o.out, "Report written to %s\n", path)
	return nil
}

func (o *ExportOptions) publish(ctx context.Context, path string) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	if !cfg.ObjectStore.Enabled() {
		return fmt.Errorf("publishing requires CAPACITY_PLANNER_S3_ENDPOINT")
	}

	uploader, err := newUploader(ctx, cfg)
	if err != nil {
		return err
	}

	planner, ds, err := loadWorkbook(ctx, path, service.WithUploader(uploader))
	if err != nil {
		return err
	}

	location, err := planner.Publish(ctx, ds.ID, o.Selection(), service.ReportFormat(o.Format))
	if err != nil {
		return fmt.Errorf("publishing %s: %w", ds.Name, err)
	}

	fmt.Fprintf(o.out, "Report published to %s\n", location)
	return nil
}

// newUploader connects to the configured bucket and creates it when missing.
func newUploader(ctx context.Context, cfg *config.Config) (*objectstore.MinioUploader, error) {
	uploader, err := objectstore.NewMinioUploader(cfg.ObjectStore.MinioOpts()...)
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}
	if err := uploader.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return uploader, nil
}
