// Package config loads and persists client configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"github.com/mmarder/screener/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Viewer  ViewerConfig  `mapstructure:"viewer"`
	Player  PlayerConfig  `mapstructure:"player"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds platform connection configuration
type ServerConfig struct {
	URL   string `mapstructure:"url"`   // Platform base URL
	Token string `mapstructure:"token"` // API token
}

// ViewerConfig caches the signed-in viewer's descriptor between sessions.
// The platform re-validates every field server-side on preflight.
type ViewerConfig struct {
	Role      string `mapstructure:"role"`       // "standard", "content_manager", "admin"
	VIP       bool   `mapstructure:"vip"`        // VIP entitlement flag
	BirthDate string `mapstructure:"birth_date"` // 2006-01-02, empty if unknown
	Email     string `mapstructure:"email"`
	ReadOnly  bool   `mapstructure:"read_only"` // admin read-only impersonation
}

// PlayerConfig holds native media player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{},
		Viewer: ViewerConfig{Role: "standard"},
		Player: PlayerConfig{
			Command: "mpv",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "screener", "screener.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "screener", "screener.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "screener")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "screener")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "screener", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "screener", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("SCREENER")
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
	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("server.url", cfg.Server.URL)
	viper.Set("server.token", cfg.Server.Token)

	viper.Set("viewer.role", cfg.Viewer.Role)
	viper.Set("viewer.vip", cfg.Viewer.VIP)
	viper.Set("viewer.birth_date", cfg.Viewer.BirthDate)
	viper.Set("viewer.email", cfg.Viewer.Email)
	viper.Set("viewer.read_only", cfg.Viewer.ReadOnly)

	viper.Set("player.command", cfg.Player.Command)
	viper.Set("player.args", cfg.Player.Args)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	return writeConfigFile()
}

// SaveToken updates just the token in the configuration
func SaveToken(token string) error {
	viper.Set("server.token", token)
	return writeConfigFile()
}

func writeConfigFile() error {
	configPath := defaultConfigPath()
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

// ViewerContext materializes the cached viewer descriptor. A malformed
// birth date is treated as unknown, which the access policy denies for
// age-gated items rather than guessing.
func (c *Config) ViewerContext() domain.ViewerContext {
	v := domain.ViewerContext{
		Role:                  domain.ParseRole(c.Viewer.Role),
		VIP:                   c.Viewer.VIP,
		Email:                 c.Viewer.Email,
		ReadOnlyImpersonation: c.Viewer.ReadOnly,
	}
	if c.Viewer.BirthDate != "" {
		if b, err := time.Parse("2006-01-02", c.Viewer.BirthDate); err == nil {
			v.BirthDate = &b
		}
	}
	return v
}

// GetCachePath returns the cache directory path
func GetCachePath() string {
	return defaultCachePath()
}
