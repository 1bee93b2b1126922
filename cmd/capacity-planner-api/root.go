package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "capacity-planner-api",
	Short: "Serve the capacity planner API",
}

func init() {
	rootCmd.AddCommand(runCmd)
}
