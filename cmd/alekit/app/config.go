package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/alekit/pkg/constants"
	"github.com/agentstation/alekit/pkg/errors"
)

// EnvPrefix prefixes the environment variables alekit reads, as in
// ALEKIT_PRESET_DIR.
const EnvPrefix = "ALEKIT"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Processing configuration
	PresetDir   string
	KeyColumns  []string
	BatchSuffix string
	Workers     int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later with UpdateFromFlags)
//  2. Environment variables (ALEKIT_*, and LOG_* for logging)
//  3. .env files
//  4. Config file (path, or ~/.alekit.yaml, or ./.alekit.yaml)
//  5. Defaults
func LoadConfig(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path must exist; the search locations are optional.
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "failed to read config file: "+err.Error(), err)
		}
	}

	config := &Config{
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("output"),

		ConfigFile: v.ConfigFileUsed(),

		PresetDir:   v.GetString("preset_dir"),
		KeyColumns:  splitList(v.GetStringSlice("key_columns")),
		BatchSuffix: v.GetString("batch_suffix"),
		Workers:     v.GetInt("workers"),

		LogLevel:  firstNonEmpty(v.GetString("log_level"), os.Getenv("LOG_LEVEL")),
		LogFormat: firstNonEmpty(v.GetString("log_format"), os.Getenv("LOG_FORMAT"), "auto"),
		LogOutput: firstNonEmpty(v.GetString("log_output"), os.Getenv("LOG_OUTPUT"), "stderr"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.NewConfigError("workers", "must not be negative", nil)
	}
	if len(c.KeyColumns) == 0 {
		return errors.NewConfigError("key_columns", "at least one key column is required", nil)
	}
	for _, k := range c.KeyColumns {
		if strings.HasPrefix(k, constants.ReservedColumnPrefix) {
			return errors.NewConfigError("key_columns", "key column "+k+" uses the reserved prefix", nil)
		}
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("preset_dir", constants.DefaultPresetDir)
	v.SetDefault("key_columns", constants.DefaultKeyColumns)
	v.SetDefault("batch_suffix", constants.DefaultBatchSuffix)
	v.SetDefault("workers", constants.DefaultWorkers)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first because godotenv never overrides a variable
// that is already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// splitList flattens comma-separated entries, as environment variables
// deliver lists as one string.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
