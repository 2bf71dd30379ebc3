package main

import (
	"context"
	"os"

	"github.com/scijava/javadoc-wrangler/internal/app"
	"github.com/spf13/cobra"
)

var (
	// Version is injected at build time
	Version = "dev"
	// Build is injected at build time
	Build = "unknown"
	// ProgramName is injected at build time
	ProgramName = "javadoc-wrangler"
)

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := Execute(Version, Build, ProgramName, args[1:]); err != nil {
		exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version, build, programName string, args []string) error {
	rootCmd := &cobra.Command{
		Use:     programName + " [version|groupId:artifactId:version ...]",
		Short:   "Unpack javadoc archives into a coherent multi-project site",
		Long:    "Unpacks the javadoc archives of every component managed by a BOM,\nrewrites legacy links to canonical versioned paths, and synthesizes a\nunioned redirect index per BOM version. With no arguments the current\nrelease version of the configured BOM is wrangled.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunWithDeps(context.Background(), app.DefaultRunParams(), cmd.Flags(), version, args)
		},
	}

	rootCmd.SetVersionTemplate(`{{.Version}}
`)
	app.RegisterFlags(rootCmd.Flags())

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve class lookup tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunMCPWithDeps(context.Background(), app.DefaultRunParams(), cmd.Flags(), version)
		},
	}
	app.RegisterFlags(mcpCmd.Flags())
	rootCmd.AddCommand(mcpCmd)

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
