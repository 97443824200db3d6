/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tristendillon/httpskin/core/generator"
	"github.com/tristendillon/httpskin/core/logger"
	"github.com/tristendillon/httpskin/core/sink"
	"github.com/tristendillon/httpskin/core/walker"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Prints the discovered endpoints as a tree",
	Long: `Scans the configured sources and manifests without generating and
prints every discovered endpoint grouped by URL path, followed by any
problems found while scanning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("inspect called")
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		project, err := generator.NewProject(cfg, sink.NewMemorySink(), nil)
		if err != nil {
			return fmt.Errorf("failed to set up generator: %w", err)
		}
		parsed, err := project.Scan()
		if err != nil {
			return fmt.Errorf("failed to scan sources: %w", err)
		}

		ifaces := walker.Interfaces(parsed)
		logger.Info("%d file(s), %d interface(s), %d endpoint(s)", len(parsed), len(ifaces), project.Walker.Tree.Count)
		project.Walker.Tree.PrintTree(logger.INFO)

		problems := walker.Problems(parsed)
		for _, problem := range problems {
			logger.Warn("%s", problem)
		}
		if len(problems) > 0 {
			return fmt.Errorf("%d problem(s) found", len(problems))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
