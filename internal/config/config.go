package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the public Stitch API endpoint
const DefaultBaseURL = "https://stitch.googleapis.com"

// Config holds all application configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Output   OutputConfig   `mapstructure:"output"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Manifest ManifestConfig `mapstructure:"manifest"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// APIConfig holds Stitch API configuration
type APIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Key       string `mapstructure:"key"`        // Sent as X-Goog-Api-Key on listing requests
	ProjectID string `mapstructure:"project_id"` // Project whose screens are synced
}

// OutputConfig holds artifact output configuration
type OutputConfig struct {
	Dir string `mapstructure:"dir"` // Relative paths resolve against the working directory
}

// HTTPConfig holds HTTP client configuration
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"` // 0 disables the client timeout
}

// ManifestConfig holds run manifest configuration
type ManifestConfig struct {
	Path string `mapstructure:"path"` // Empty keeps the manifest in memory only
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Output: OutputConfig{
			Dir: filepath.Join("docs", "stitch_ui"),
		},
		HTTP: HTTPConfig{
			Timeout: 60 * time.Second,
		},
		Manifest: ManifestConfig{
			Path: filepath.Join(defaultDataPath(), "manifest.db"),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "stitchsync.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "stitchsync")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "stitchsync")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "stitchsync")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "stitchsync")
	}
}

// Load loads configuration from configFile, or from config.yaml in the
// default search paths when configFile is empty. STITCH_* environment
// variables override file values (e.g. STITCH_API_KEY for api.key).
func Load(configFile string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Defaults double as the key set AutomaticEnv resolves during Unmarshal
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.key", cfg.API.Key)
	v.SetDefault("api.project_id", cfg.API.ProjectID)
	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("http.timeout", cfg.HTTP.Timeout)
	v.SetDefault("manifest.path", cfg.Manifest.Path)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)

	v.SetEnvPrefix("STITCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	return cfg, nil
}

// IsConfigured returns true if the API key and project ID are set
func (c *Config) IsConfigured() bool {
	return c.API.Key != "" && c.API.ProjectID != ""
}
