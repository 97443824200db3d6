/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tristendillon/httpskin/core/config"
	"github.com/tristendillon/httpskin/core/logger"
)

var rootCmd = &cobra.Command{
	Use:   "httpskin",
	Short: "Generates a Java HTTP request class from annotated API interfaces.",
	Long: `httpskin reads interfaces marked with @ApiInterface (or a YAML manifest
describing the same endpoints) and generates one class that implements them
by building each request and handing it to your HttpRequest transport.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		logger.SetColor(!noColor)
		if logfile != "" {
			closer, err := logger.AddLogFile(logfile)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			logCloser = closer
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

var (
	logfile    string
	verbose    bool
	noColor    bool
	configPath string
	logCloser  io.Closer
)

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored log output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./httpskin.yaml)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("Loaded config for %s.%s from %s", cfg.BasePackage, cfg.ClassName, cfg.Dir)
	return cfg, nil
}
