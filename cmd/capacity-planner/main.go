package main

import (
	"os"

	"github.com/kubev2v/capacity-planner/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	command := NewCapacityPlannerCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewCapacityPlannerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capacity-planner [flags] [options]",
		Short: "capacity-planner sizes the VMs of a Nutanix Collector workbook.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdAnalyze())
	cmd.AddCommand(cli.NewCmdClusters())
	cmd.AddCommand(cli.NewCmdExport())
	cmd.AddCommand(cli.NewCmdUpload())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
