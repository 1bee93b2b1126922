package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kubev2v/capacity-planner/api/v1alpha1"
	"github.com/kubev2v/capacity-planner/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type VersionOptions struct {
	GlobalOptions

	Output string
	Remote bool

	out io.Writer
}

func DefaultVersionOptions() *VersionOptions {
	return &VersionOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Output:        "",
	}
}

func NewCmdVersion() *cobra.Command {
	o := DefaultVersionOptions()
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print capacity planner version information",
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

func (o *VersionOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.BoolVar(&o.Remote, "remote", o.Remote, "Also print the version of the server")
}

func (o *VersionOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}
	o.out = cmd.OutOrStdout()
	return nil
}

func (o *VersionOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	return validateOutput(o.Output)
}

type versions struct {
	Client version.Info   `json:"client"`
	Server *v1alpha1.Info `json:"server,omitempty"`
}

func (o *VersionOptions) Run(ctx context.Context, args []string) error {
	v := versions{Client: version.Get()}
	if o.Remote {
		info, err := o.serverInfo(ctx)
		if err != nil {
			return err
		}
		v.Server = info
	}

	printed, err := printStructured(o.out, v, o.Output)
	if printed || err != nil {
		return err
	}

	fmt.Fprintf(o.out, "Capacity Planner Version: %s\n", v.Client.String())
	if v.Server != nil {
		fmt.Fprintf(o.out, "Server Version: %s\n", version.Info{GitVersion: v.Server.VersionName, GitCommit: v.Server.GitCommit}.String())
	}
	return nil
}

func (o *VersionOptions) serverInfo(ctx context.Context) (*v1alpha1.Info, error) {
	url := strings.TrimSuffix(o.ServerUrl, "/") + "/api/v1/info"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := o.Client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("reading server info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reading server info: unexpected status %d", resp.StatusCode)
	}

	var info v1alpha1.Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding server info: %w", err)
	}
	return &info, nil
}
