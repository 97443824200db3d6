/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tristendillon/httpskin/core/config"
	"github.com/tristendillon/httpskin/core/logger"
	"github.com/tristendillon/httpskin/core/template_engine"
)

var (
	force       bool
	basePackage string
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize httpskin in a Java project",
	Long: `Writes an httpskin.yaml, an example @ApiInterface service and an example
endpoint manifest into dir (default the current directory).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("init called")
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}

		initData := map[string]string{
			"BasePackage": basePackage,
			"ApiPackage":  "api",
		}
		engine := template_engine.NewTemplateEngine()
		written, err := engine.GenerateFolder(template_engine.TEMPLATES.INIT.Ref, dir, initData, force)
		if errors.Is(err, template_engine.ErrExists) {
			return fmt.Errorf("%w, use --force to overwrite", err)
		}
		if err != nil {
			return fmt.Errorf("failed to scaffold project: %w", err)
		}
		for _, f := range written {
			logger.Debug("Wrote %s", f)
		}

		// Validate what was just written so a bad --base-package fails here.
		cfg, err := config.Load(filepath.Join(dir, config.DefaultFileName))
		if err != nil {
			return fmt.Errorf("generated config is invalid: %w", err)
		}
		fmt.Printf("Successfully initialized httpskin in %s\n", cfg.Dir)
		fmt.Printf("Next Steps:\n")
		fmt.Printf("  - cd %s\n", dir)
		fmt.Printf("  - httpskin inspect\n")
		fmt.Printf("  - httpskin generate\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing files")
	initCmd.Flags().StringVar(&basePackage, "base-package", "kale.net.http", "Java package of the generated class")
}
