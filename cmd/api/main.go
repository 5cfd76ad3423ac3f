package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "api",
		Short:         "Starter backend with content negotiation and request validation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to an env file loaded before the configuration")

	serveCmd := newServeCommand(&envFile)
	rootCmd.AddCommand(serveCmd, newRoutesCommand(&envFile), newTokenCommand(&envFile))
	rootCmd.RunE = serveCmd.RunE

	return rootCmd
}
