// Command boilerplate runs the API server and its database maintenance tasks.
//
//	boilerplate serve     start the HTTP server and job workers
//	boilerplate migrate   apply the embedded migrations
//	boilerplate seed      replace the examples table with sample rows
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set with -ldflags at build time.
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "boilerplate",
		Short:         "REST API boilerplate with a documented service catalog",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
