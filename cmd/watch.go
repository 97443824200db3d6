/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tristendillon/httpskin/core/generator"
	"github.com/tristendillon/httpskin/core/logger"
	"github.com/tristendillon/httpskin/core/sink"
	"github.com/tristendillon/httpskin/core/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerates the request class whenever sources change",
	Long: `Generates once, then watches the source roots and manifests and
regenerates after every burst of changes until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("watch called")
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		project, err := generator.NewProject(cfg, sink.NewFilesystemSink(cfg.OutputDir()), nil)
		if err != nil {
			return fmt.Errorf("failed to set up generator: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		exclude := append([]string{cfg.Output}, cfg.Watch.Exclude...)
		fw, err := watcher.NewFileWatcher(cfg.SourceDirs(), cfg.ManifestFiles(), exclude, cfg.Watch.Debounce, project.Walker.Cache)
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}

		run := func(ctx context.Context) error {
			if _, err := project.Run(ctx); err != nil {
				// Keep watching; the next save may fix it.
				logger.Error("%v", err)
			}
			return nil
		}
		fw.FileWatcher.AddOnStartFunc(func() error {
			return run(ctx)
		})
		fw.FileWatcher.AddOnChangeFunc(func(changed []string) error {
			logger.Info("%d file(s) changed, regenerating", len(changed))
			for _, path := range changed {
				logger.Debug("  changed: %s", path)
			}
			return run(ctx)
		})
		fw.FileWatcher.AddOnCloseFunc(func() error {
			project.Walker.Cache.LogStats()
			return nil
		})

		logger.Info("Watching %d source root(s) and %d manifest(s), press Ctrl+C to stop", len(cfg.SourceDirs()), len(cfg.ManifestFiles()))
		if err := fw.Watch(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("watcher stopped: %w", err)
		}
		logger.Info("Stopped watching")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
