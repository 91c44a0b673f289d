// cmd/assistant/main.go
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "assistant",
		Short:         "Jira support assistant",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (defaults to ./configs/config.yaml)")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newAskCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
