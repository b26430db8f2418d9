package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mythsandlegends/spawnwiki/internal/publish"
)

// Config holds the application configuration loaded from flags,
// environment variables, .env files and the optional config file.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Source data
	DataDir     string
	PokedexFile string

	// Page rendering
	Namespace       string
	DatapackVersion string

	// Wiki connection
	WikiURL      string
	WikiUser     string
	WikiPassword string

	// Publication
	Summary     string
	CommitHash  string
	Concurrency int
	DryRun      bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Fixed defaults for the Myths and Legends datapack layout.
const (
	DefaultNamespace   = "mythsandlegends:datapack:spawn_pool_world"
	DefaultDataDir     = "data/cobblemon/spawn_pool_world"
	DefaultPokedexFile = "pokedex.json"
)

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (.spawnwiki.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindWikiEnv()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".spawnwiki")
		}
	}

	// Missing config file is fine, every setting has another source.
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		DataDir:     viper.GetString("data_dir"),
		PokedexFile: viper.GetString("pokedex_file"),

		Namespace:       viper.GetString("wiki_namespace"),
		DatapackVersion: viper.GetString("datapack_version"),

		WikiURL:      viper.GetString("wiki_url"),
		WikiUser:     viper.GetString("wiki_user"),
		WikiPassword: viper.GetString("wiki_password"),

		Summary:     viper.GetString("edit_summary"),
		CommitHash:  viper.GetString("commit_hash"),
		Concurrency: viper.GetInt("concurrency"),
		DryRun:      viper.GetBool("dry_run"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if config.DataDir == "" {
		config.DataDir = DefaultDataDir
	}
	if config.PokedexFile == "" {
		config.PokedexFile = DefaultPokedexFile
	}
	if config.Namespace == "" {
		config.Namespace = DefaultNamespace
	}
	if config.Concurrency <= 0 {
		config.Concurrency = publish.DefaultConcurrency
	}

	return config, nil
}

// UpdateFromFlags applies parsed command flags, which take precedence
// over every other source.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindWikiEnv explicitly binds the wiki settings commonly kept in .env
// files so they reach Viper even without the SPAWNWIKI prefix.
func bindWikiEnv() {
	keys := []string{
		"WIKI_URL",
		"WIKI_USER",
		"WIKI_PASSWORD",
		"WIKI_NAMESPACE",
		"DATAPACK_VERSION",
		"COMMIT_HASH",
		"DATA_DIR",
		"POKEDEX_FILE",
	}
	for _, key := range keys {
		if err := viper.BindEnv(strings.ToLower(key), key); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

// getEnvOrDefault returns the environment variable value or the default
// if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
