package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"

	"github.com/IvarWithoutBones/er-savepatcher/internal/logger"
	"github.com/IvarWithoutBones/er-savepatcher/internal/save"
)

func watchCmd() *cli.Command {
	var (
		dir       string
		logLevel  string
		logFormat string
	)

	return &cli.Command{
		Name:  "watch",
		Usage: "Watch a directory and report save file fields whenever the game writes one",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "directory to watch (defaults to the configured save_dir, then the working directory)",
				Destination: &dir,
			},
		}, logFlags(&logLevel, &logFormat)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			applyLogConfig(cmd, cfg, &logLevel, &logFormat)
			applyWatchConfig(cmd, cfg, &dir)
			log := logger.Setup(os.Stderr, logLevel, logFormat)

			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: resolve working directory: %v", err), 1)
				}
				dir = wd
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: create watcher: %v", err), 1)
			}
			defer func() { _ = watcher.Close() }()

			if err := watcher.Add(dir); err != nil {
				return cli.Exit(fmt.Sprintf("error: watch %s: %v", dir, err), 1)
			}
			log.Info("watching save directory", "dir", dir)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()

			for {
				select {
				case <-ctx.Done():
					log.Info("stopping")
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Has(fsnotify.Write) && isSaveFile(event.Name) {
						reportChange(log, event.Name)
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.Error("watch error", "err", err)
				}
			}
		},
	}
}

func isSaveFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".sl2")
}

// reportChange re-validates and reports a save file after the game wrote
// it. Failures are logged rather than fatal: the game may still be mid
// write when the event fires.
func reportChange(log logger.Logger, path string) {
	sf, err := save.Load(path)
	if err != nil {
		log.Warn("save file changed but could not be loaded", "path", path, "err", err)
		return
	}

	valid, err := sf.ChecksumMatches(sf.Original())
	if err != nil {
		log.Warn("could not verify checksum", "path", path, "err", err)
		return
	}
	log.Info("save file changed", "path", path, "checksum_valid", valid)
	logFields(log, sf, sf.Original())
}
