package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Scan    ScanConfig    `mapstructure:"scan"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds remote store configuration
type ServerConfig struct {
	URL      string `mapstructure:"url"`       // API base URL
	Token    string `mapstructure:"token"`     // Access token
	ExpireAt int64  `mapstructure:"expire_at"` // Unix timestamp the token expires at
}

// ScanConfig holds traversal tuning
type ScanConfig struct {
	PageSize int `mapstructure:"page_size"` // Children per listing page
	FanOut   int `mapstructure:"fan_out"`   // Concurrent sibling branches per scan
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "https://www.googleapis.com/drive/v3",
		},
		Scan: ScanConfig{
			PageSize: 1000,
			FanOut:   4,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(xdg.DataHome, "drivecast", "drivecast.log"),
			Level: "INFO",
		},
	}
}

func configDirPath() string {
	return filepath.Join(xdg.ConfigHome, "drivecast")
}

// DataDirPath returns the directory holding the library database and log.
func DataDirPath() string {
	return filepath.Join(xdg.DataHome, "drivecast")
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDirPath())
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("DRIVECAST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := configDirPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("server.url", cfg.Server.URL)
	viper.Set("server.token", cfg.Server.Token)
	viper.Set("server.expire_at", cfg.Server.ExpireAt)

	viper.Set("scan.page_size", cfg.Scan.PageSize)
	viper.Set("scan.fan_out", cfg.Scan.FanOut)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClearCredentials removes the persisted token while preserving other
// settings. Sign-out calls this before tearing the session down.
func ClearCredentials() error {
	viper.Set("server.token", "")
	viper.Set("server.expire_at", 0)

	configPath := configDirPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the server URL and token are set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != ""
}
