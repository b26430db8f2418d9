// Package app wires configuration, logging and command registration for
// the spawnwiki CLI.
package app

import (
	"github.com/rs/zerolog"

	"github.com/mythsandlegends/spawnwiki/pkg/errors"
)

// App carries the CLI's shared dependencies.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger
}

// New creates an App with the given build information.
func New(version, commit, date string) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	return app, nil
}

// Version returns the build version.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash of the build.
func (a *App) Commit() string {
	return a.commit
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}
