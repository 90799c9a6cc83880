package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system.
// This should be called once at application startup.
func Init() error {
	once.Do(func() {
		setDefaults()

		viper.SetEnvPrefix("CLIPFORGE")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// Missing config file is fine; defaults and env vars apply
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// IsInitialized reports whether Init has completed successfully
func IsInitialized() bool {
	return initErr == nil && viper.IsSet("server.port")
}

// GetConfig returns the current configuration as a struct.
// Init() must be called before using this.
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("database.path") == "" {
		fmt.Println("Warning: No database path configured")
	}

	if err := validateAPIKeys(); err != nil {
		return err
	}

	// Auto-correct nonsense pipeline values
	if viper.GetInt("pipeline.workers") <= 0 {
		viper.Set("pipeline.workers", 2)
	}
	if viper.GetInt("scoring.max_concurrent") <= 0 {
		viper.Set("scoring.max_concurrent", 4)
	}
	if viper.GetFloat64("pipeline.min_clip_seconds") >= viper.GetFloat64("pipeline.max_clip_seconds") {
		return fmt.Errorf("pipeline.min_clip_seconds must be below pipeline.max_clip_seconds")
	}

	return nil
}

// validateAPIKeys rejects placeholder credentials in production
func validateAPIKeys() error {
	env := viper.GetString("environment")
	isProduction := env == "production" || env == "prod"

	placeholders := []string{
		"YOUR_KEY_HERE",
		"YOUR_API_KEY",
		"changeme",
		"CHANGEME",
		"",
	}

	check := func(key, label string) error {
		value := viper.GetString(key)
		for _, placeholder := range placeholders {
			if value == placeholder {
				if isProduction {
					return fmt.Errorf("invalid %s: cannot use placeholder values in production", label)
				}
				fmt.Printf("Warning: %s is using a placeholder value\n", label)
				break
			}
		}
		return nil
	}

	if err := check("transcription.api_key", "transcription API key"); err != nil {
		return err
	}
	if err := check("scoring.api_key", "scoring API key"); err != nil {
		return err
	}
	if err := check("storage.presign_secret", "storage presign secret"); err != nil {
		return err
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Pipeline.Workers <= 0 {
		c.Pipeline.Workers = 2
	}

	if c.Scoring.MaxConcurrent <= 0 {
		c.Scoring.MaxConcurrent = 4
	}

	if c.Pipeline.MinClipSeconds >= c.Pipeline.MaxClipSeconds {
		return fmt.Errorf("min clip duration %v must be below max clip duration %v",
			c.Pipeline.MinClipSeconds, c.Pipeline.MaxClipSeconds)
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/clipforge.db")
	viper.SetDefault("database.verbose", false)

	// Upload defaults: 2 GiB cap, common video/audio containers
	viper.SetDefault("upload.max_size_bytes", int64(2)<<30)
	viper.SetDefault("upload.allowed_content_types", []string{
		"video/mp4",
		"video/quicktime",
		"video/webm",
		"video/x-matroska",
		"audio/mpeg",
		"audio/mp4",
		"audio/wav",
	})

	// Storage defaults. The base URL is the API's own address: presigned
	// paths are served by this process under /storage/.
	viper.SetDefault("storage.root_dir", "./data/blobs")
	viper.SetDefault("storage.base_url", "http://localhost:8080")
	viper.SetDefault("storage.presign_ttl", 1*time.Hour)
	viper.SetDefault("storage.presign_secret", "")

	// Transcription defaults
	viper.SetDefault("transcription.base_url", "http://localhost:9090")
	viper.SetDefault("transcription.api_key", "")
	viper.SetDefault("transcription.timeout", 10*time.Minute)
	viper.SetDefault("transcription.poll_interval", 5*time.Second)
	viper.SetDefault("transcription.retry_attempts", 3)
	viper.SetDefault("transcription.retry_delay", 2*time.Second)

	// Scoring defaults
	viper.SetDefault("scoring.base_url", "http://localhost:9091")
	viper.SetDefault("scoring.api_key", "")
	viper.SetDefault("scoring.timeout", 15*time.Second)
	viper.SetDefault("scoring.retry_attempts", 3)
	viper.SetDefault("scoring.retry_base_delay", 500*time.Millisecond)
	viper.SetDefault("scoring.retry_max_delay", 8*time.Second)
	viper.SetDefault("scoring.max_concurrent", 4)

	// Pipeline defaults
	viper.SetDefault("pipeline.workers", 2)
	viper.SetDefault("pipeline.poll_interval", 1*time.Second)
	viper.SetDefault("pipeline.min_clip_seconds", 15.0)
	viper.SetDefault("pipeline.max_clip_seconds", 60.0)
	viper.SetDefault("pipeline.silence_threshold", 1.5)
	viper.SetDefault("pipeline.max_suggestions", 10)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
}
