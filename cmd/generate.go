/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tristendillon/httpskin/core/generator"
	"github.com/tristendillon/httpskin/core/logger"
	"github.com/tristendillon/httpskin/core/sink"
)

var dryRun bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates the request class for the project",
	Long: `Scans the configured sources and manifests and writes the generated
request class under the output directory. Endpoints that cannot be
generated are reported and left out; the command then exits non-zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("generate called")
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var out sink.OutputSink
		memory := sink.NewMemorySink()
		if dryRun {
			out = memory
		} else {
			out = sink.NewFilesystemSink(cfg.OutputDir())
		}

		project, err := generator.NewProject(cfg, out, nil)
		if err != nil {
			return fmt.Errorf("failed to set up generator: %w", err)
		}
		report, err := project.Run(cmd.Context())
		if err != nil {
			return err
		}

		if dryRun {
			for _, path := range memory.Paths() {
				fmt.Fprintf(os.Stdout, "// %s\n%s", path, memory.Get(path))
			}
		}
		if n := report.Failures(); n > 0 {
			return fmt.Errorf("%d endpoint(s) failed, see errors above", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the generated class instead of writing it")
}
