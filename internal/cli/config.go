package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	checkmango "github.com/checkmango/checkmango-go"
)

// EnvPrefix is prepended to every configuration key looked up in the
// environment, e.g. CHECKMANGO_API_KEY.
const EnvPrefix = "CHECKMANGO"

const (
	formatTable = "table"
	formatJSON  = "json"
)

// Config holds the settings shared by every command. Values come from flags,
// then CHECKMANGO_* environment variables, then the config file, then defaults.
type Config struct {
	APIKey  string
	TeamID  int
	BaseURL string
	Output  string
	Verbose bool
	Timeout time.Duration

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string
}

// configKeys are the persistent flags that are also configuration keys.
var configKeys = []string{"api-key", "team", "base-url", "output", "verbose", "timeout"}

// ApplyDefaults sets default configuration values in the provided Viper instance.
func ApplyDefaults(v *viper.Viper) {
	v.SetDefault("base-url", checkmango.DefaultBaseURL)
	v.SetDefault("output", formatTable)
	v.SetDefault("verbose", false)
	v.SetDefault("timeout", 30*time.Second)
}

// LoadConfig reads configFile (or ~/.checkmango/config.yaml when empty) and
// the environment into v, binds flags and returns the merged Config.
func LoadConfig(v *viper.Viper, flags *pflag.FlagSet, configFile string) (*Config, error) {
	ApplyDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".checkmango"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for _, key := range configKeys {
			if flag := flags.Lookup(key); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", key, err)
				}
			}
		}
	}

	cfg := &Config{
		APIKey:     v.GetString("api-key"),
		TeamID:     v.GetInt("team"),
		BaseURL:    v.GetString("base-url"),
		Output:     strings.ToLower(v.GetString("output")),
		Verbose:    v.GetBool("verbose"),
		Timeout:    v.GetDuration("timeout"),
		ConfigFile: v.ConfigFileUsed(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that do not depend on the command being run.
func (c *Config) Validate() error {
	switch c.Output {
	case formatTable, formatJSON:
	default:
		return fmt.Errorf("unsupported output format %q (want table or json)", c.Output)
	}
	if c.TeamID < 0 {
		return fmt.Errorf("team must be a positive ID, got %d", c.TeamID)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", c.Timeout)
	}
	return nil
}
