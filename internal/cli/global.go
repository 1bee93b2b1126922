package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kubev2v/capacity-planner/pkg/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type GlobalOptions struct {
	ServerUrl string
	LogLevel  string
	Timeout   time.Duration
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		ServerUrl: "http://localhost:3443",
		LogLevel:  "warn",
		Timeout:   2 * time.Minute,
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ServerUrl, "server-url", "u", o.ServerUrl, "Address of the server")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level. One of: (debug, info, warn, error).")
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "Timeout of requests to the server")
}

// Complete sets up the global logger at the requested level.
func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	lvl, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(log.InitLog(lvl))
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.Timeout)
	}
	return nil
}

func (o *GlobalOptions) Client() *http.Client {
	return &http.Client{Timeout: o.Timeout}
}
