package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the patcher configuration file
// (~/.config/er-savepatcher/config.yaml). Values act as defaults; a CLI
// flag that was explicitly set always wins. Backup is a pointer so "not
// set" can be told apart from false.
type Config struct {
	SaveDir   string `yaml:"save_dir"`
	Backup    *bool  `yaml:"backup"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "er-savepatcher", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or cannot be parsed.
func LoadConfig() Config {
	return loadConfigFrom(configPath())
}

func loadConfigFrom(path string) Config {
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyLogConfig applies config file defaults to the logging flags when
// the corresponding CLI flag was not explicitly set.
func applyLogConfig(c *cli.Command, cfg Config, level, format *string) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		*level = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		*format = cfg.LogFormat
	}
}

// applyPatchConfig applies config file defaults to patch command variables.
func applyPatchConfig(c *cli.Command, cfg Config, backup *bool) {
	if cfg.Backup != nil && !c.IsSet("backup") {
		*backup = *cfg.Backup
	}
}

// applyWatchConfig applies config file defaults to watch command variables.
func applyWatchConfig(c *cli.Command, cfg Config, dir *string) {
	if cfg.SaveDir != "" && !c.IsSet("dir") {
		*dir = cfg.SaveDir
	}
}

func logFlags(level, format *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug|info|warn|error)",
			Value:       "info",
			Destination: level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty|text|json)",
			Value:       "pretty",
			Destination: format,
		},
	}
}
