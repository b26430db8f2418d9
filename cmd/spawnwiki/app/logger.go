package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mythsandlegends/spawnwiki/pkg/logging"
)

// NewLogger creates a configured logger based on the application
// configuration. Log level precedence (highest to lowest):
//  1. -q/--quiet flag (shortcut for warn, wins over -v)
//  2. -v/--verbose flag (shortcut for debug)
//  3. --log-level flag or LOG_LEVEL environment variable
//  4. Default (info)
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)

	logConfig := &logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "debug" || level == "trace",
	}

	logger := logging.NewFromConfig(logConfig)
	logging.SetDefault(logger)
	return logger
}

func determineLogLevel(config *Config) string {
	if config.Verbose && config.Quiet {
		fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet")
		return "warn"
	}
	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}
	if config.LogLevel != "" {
		return config.LogLevel
	}
	return "info"
}
