package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/IvarWithoutBones/er-savepatcher/internal/logger"
	"github.com/IvarWithoutBones/er-savepatcher/internal/save"
)

func patchCmd() *cli.Command {
	var (
		inputPath  string
		outputPath string
		steamIDArg string
		backup     bool
		logLevel   string
		logFormat  string
	)

	return &cli.Command{
		Name:  "patch",
		Usage: "Replace the Steam ID in a save file and fix up its checksum",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"in", "i"},
				Usage:       "path to the save file to patch (.sl2)",
				Required:    true,
				Destination: &inputPath,
			},
			&cli.StringFlag{
				Name:        "steam-id",
				Usage:       "Steam ID to bind the save file to (decimal)",
				Required:    true,
				Destination: &steamIDArg,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"out", "o"},
				Usage:       "path to write the patched save file to",
				Required:    true,
				Destination: &outputPath,
			},
			&cli.BoolFlag{
				Name:        "backup",
				Usage:       "rename an existing output file to <path>.old before writing",
				Destination: &backup,
			},
		}, logFlags(&logLevel, &logFormat)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			applyLogConfig(cmd, cfg, &logLevel, &logFormat)
			applyPatchConfig(cmd, cfg, &backup)
			log := logger.Setup(os.Stderr, logLevel, logFormat)

			steamID, err := strconv.ParseUint(steamIDArg, 10, 64)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: invalid steam ID %q: must be an unsigned integer", steamIDArg), 1)
			}

			sf, err := save.Load(inputPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load save file: %v", err), 1)
			}
			logFields(log.With("buffer", "original"), sf, sf.Original())

			if err := sf.ReplaceSteamID(steamID); err != nil {
				return cli.Exit(fmt.Sprintf("error: replace steam ID: %v", err), 1)
			}
			sum, err := sf.RecalculateChecksum()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: recalculate checksum: %v", err), 1)
			}
			log.Info("recalculated save header checksum", "md5", sum)

			if backup {
				renamed, err := backupFile(outputPath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: back up output file: %v", err), 1)
				}
				if renamed != "" {
					log.Info("backed up existing output file", "path", renamed)
				}
			}

			if err := sf.Write(outputPath); err != nil {
				return cli.Exit(fmt.Sprintf("error: write output file: %v", err), 1)
			}
			logFields(log.With("buffer", "patched"), sf, sf.Patched())
			log.Info("wrote patched save file", "path", outputPath)
			return nil
		},
	}
}

// logFields reports the save fields visible through the given buffer, so
// the same projection can be logged before and after patching.
func logFields(log logger.Logger, sf *save.SaveFile, data []byte) {
	name, err := sf.Name(data)
	if err != nil {
		log.Warn("could not read character name", "err", err)
	}
	level, err := sf.Level(data)
	if err != nil {
		log.Warn("could not read character level", "err", err)
	}
	played, err := sf.SecondsPlayed(data)
	if err != nil {
		log.Warn("could not read time played", "err", err)
	}
	steamID, err := sf.SteamID(data)
	if err != nil {
		log.Warn("could not read steam ID", "err", err)
	}

	log.Info("save file fields",
		"name", name,
		"level", level,
		"time_played", played.String(),
		"steam_id", steamID,
		"active_slot", sf.ActiveSlot(),
	)
}

// backupFile renames path to path.old when it exists, returning the backup
// path. A missing output file needs no backup.
func backupFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	backupPath := path + ".old"
	if err := os.Rename(path, backupPath); err != nil {
		return "", err
	}
	return backupPath, nil
}
