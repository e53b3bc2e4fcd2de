package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the base name of the optional YAML config file.
const FileName = "flasher"

// Config stores the settings of the flasher.
// The values are read by viper from a config file or environment variable.
type Config struct {
	// Flashing engine
	EsptoolPath string `mapstructure:"ESPTOOL_PATH" validate:"required"`
	EsptoolArgs string `mapstructure:"ESPTOOL_ARGS"`

	// Passthrough console
	ConsoleBaud            int `mapstructure:"CONSOLE_BAUD" validate:"gt=0"`
	HandshakeReadTimeoutMs int `mapstructure:"HANDSHAKE_READ_TIMEOUT_MS" validate:"gt=0"`

	// WiFi upload
	WiFiTimeoutSeconds int `mapstructure:"WIFI_TIMEOUT_SECONDS" validate:"gt=0"`
	WiFiRetries        int `mapstructure:"WIFI_RETRIES" validate:"gte=0"`
}

// FlagKeys maps command line flag names to the keys they override.
var FlagKeys = map[string]string{
	"esptool":      "ESPTOOL_PATH",
	"console-baud": "CONSOLE_BAUD",
	"wifi-timeout": "WIFI_TIMEOUT_SECONDS",
	"wifi-retries": "WIFI_RETRIES",
}

// Load reads configuration from dir, the environment and flags.
// Flags that were set take precedence over everything else; flags may be nil.
func Load(dir string, flags *pflag.FlagSet) (*Config, error) {
	return LoadFs(afero.NewOsFs(), dir, flags)
}

// LoadFs is Load on the given filesystem.
func LoadFs(fs afero.Fs, dir string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)

	// 1. Set Defaults
	v.SetDefault("ESPTOOL_PATH", "esptool.py")
	v.SetDefault("ESPTOOL_ARGS", "")
	v.SetDefault("CONSOLE_BAUD", 115200)
	v.SetDefault("HANDSHAKE_READ_TIMEOUT_MS", 1000)
	v.SetDefault("WIFI_TIMEOUT_SECONDS", 60)
	v.SetDefault("WIFI_RETRIES", 2)

	if dir != "" {
		// 2. Read flasher.yaml if exists
		v.AddConfigPath(dir)
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read %s config: %w", FileName, err)
			}
		}

		// 3. Read .env if exists (overriding flasher.yaml)
		v.SetConfigName(".env")
		v.SetConfigType("env")
		if err := v.MergeInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read .env: %w", err)
			}
		}
	}

	// 4. Environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 5. Flags
	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// EsptoolPrefix returns ESPTOOL_ARGS split into arguments placed before
// every esptool argument vector.
func (c *Config) EsptoolPrefix() []string {
	return strings.Fields(c.EsptoolArgs)
}

func (c *Config) WiFiTimeout() time.Duration {
	return time.Duration(c.WiFiTimeoutSeconds) * time.Second
}

func (c *Config) HandshakeReadTimeout() time.Duration {
	return time.Duration(c.HandshakeReadTimeoutMs) * time.Millisecond
}
