package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/IvarWithoutBones/er-savepatcher/internal/save"
)

// saveReport is the machine-readable form of a save file's fields.
type saveReport struct {
	Path          string `json:"path"`
	Name          string `json:"name"`
	Level         uint8  `json:"level"`
	TimePlayed    string `json:"time_played"`
	SteamID       uint64 `json:"steam_id"`
	ActiveSlot    int    `json:"active_slot"`
	Checksum      string `json:"checksum"`
	ChecksumValid bool   `json:"checksum_valid"`
}

func inspectCmd() *cli.Command {
	var (
		inputPath string
		jsonOut   bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Show the fields of a save file without modifying it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"in", "i"},
				Usage:       "path to the save file (.sl2)",
				Required:    true,
				Destination: &inputPath,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit machine-readable JSON instead of a table",
				Destination: &jsonOut,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sf, err := save.Load(inputPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load save file: %v", err), 1)
			}

			report, err := buildReport(inputPath, sf, sf.Original())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read save fields: %v", err), 1)
			}

			if jsonOut {
				out, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: encode report: %v", err), 1)
				}
				fmt.Println(string(out))
				return nil
			}

			section("Save File")
			row("path", report.Path)
			row("name", report.Name)
			row("level", fmt.Sprintf("%d", report.Level))
			row("time_played", report.TimePlayed)
			row("steam_id", fmt.Sprintf("%d", report.SteamID))
			row("active_slot", fmt.Sprintf("%d", report.ActiveSlot))
			row("checksum", report.Checksum)
			row("checksum_valid", fmt.Sprintf("%v", report.ChecksumValid))
			return nil
		},
	}
}

func buildReport(path string, sf *save.SaveFile, data []byte) (saveReport, error) {
	name, err := sf.Name(data)
	if err != nil {
		return saveReport{}, err
	}
	level, err := sf.Level(data)
	if err != nil {
		return saveReport{}, err
	}
	played, err := sf.SecondsPlayed(data)
	if err != nil {
		return saveReport{}, err
	}
	steamID, err := sf.SteamID(data)
	if err != nil {
		return saveReport{}, err
	}
	sum, err := sf.Checksum(data)
	if err != nil {
		return saveReport{}, err
	}
	valid, err := sf.ChecksumMatches(data)
	if err != nil {
		return saveReport{}, err
	}

	return saveReport{
		Path:          path,
		Name:          name,
		Level:         level,
		TimePlayed:    formatDuration(played),
		SteamID:       steamID,
		ActiveSlot:    sf.ActiveSlot(),
		Checksum:      sum,
		ChecksumValid: valid,
	}, nil
}

// formatDuration renders a play time as hh:mm:ss, matching the in-game
// display.
func formatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

func section(title string) {
	line := strings.Repeat("-", len(title)+8)
	fmt.Printf("%s\n--- %s ---\n%s\n", line, title, line)
}

func row(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%-16s %s\n", label+":", value)
}
