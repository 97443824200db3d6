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
	"github.com/tristendillon/httpskin/core/openapi"
	"github.com/tristendillon/httpskin/core/sink"
	"github.com/tristendillon/httpskin/core/version"
	"github.com/tristendillon/httpskin/core/walker"
)

var (
	openapiFormat string
	openapiOut    string
	openapiTitle  string
)

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Exports the discovered endpoints as an OpenAPI 3 document",
	Long: `Builds an OpenAPI 3 document from the same endpoints the generator
sees. Declared parameters are required, query defaults become schema
defaults and each response is described by its model class.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("openapi called")
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

		title := openapiTitle
		if title == "" {
			title = cfg.ClassName
		}
		doc, skipped := openapi.Build(walker.Interfaces(parsed), openapi.Options{
			Title:       title,
			Version:     version.Version,
			BasePackage: cfg.BasePackage,
		})
		for _, e := range skipped {
			logger.Warn("%v", e)
		}

		data, err := openapi.Marshal(doc, openapiFormat)
		if err != nil {
			return err
		}
		if openapiOut == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(openapiOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", openapiOut, err)
		}
		logger.Info("Wrote %d path(s) to %s", len(doc.Paths), openapiOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openapiCmd)

	openapiCmd.Flags().StringVar(&openapiFormat, "format", "yaml", "Output format: json or yaml")
	openapiCmd.Flags().StringVar(&openapiOut, "out", "", "File to write (default stdout)")
	openapiCmd.Flags().StringVar(&openapiTitle, "title", "", "Document title (default class name)")
}
