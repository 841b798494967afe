// Command sitemapctl generates sitemap files from a catalog without running
// the server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "sitemapctl",
		Short:         "Generate and check sitemap feeds from a catalog file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newGenerateCmd(&logLevel),
		newValidateCmd(),
		newVersionCmd(),
	)
	return root
}
