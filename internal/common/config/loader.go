// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from configs/config.yaml plus environment
// overrides. A .env file, if present, is loaded first so that local
// development does not need exported variables.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	v.SetEnvPrefix("ASSISTANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing file is fine; defaults plus env carry the load.
	}

	applyDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadEnvFile tries a few likely locations for a .env file and loads the
// first one found. Missing files are not an error.
func loadEnvFile() {
	candidates := []string{".env", "../.env", "../../.env"}
	if root := findProjectRoot(); root != "" {
		candidates = append(candidates, filepath.Join(root, ".env"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "assistant-core")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.stateless_timeout_seconds", 30)

	v.SetDefault("channel.heartbeat_interval_seconds", 25)
	v.SetDefault("channel.stale_after_seconds", 90)
	v.SetDefault("channel.sweep_interval_seconds", 30)
	v.SetDefault("channel.command_buffer", 16)
	v.SetDefault("channel.ack_enabled", false)

	v.SetDefault("classifier.genai_base_url", "http://localhost:8008")
	v.SetDefault("classifier.timeout_ms", 3000)

	v.SetDefault("health.interval_seconds", 15)
	v.SetDefault("health.timeout_ms", 2000)

	v.SetDefault("executors.timeout_ms", 10000)
	v.SetDefault("executors.file_roots", []string{})

	v.SetDefault("directory.strip_words", []string{})
	v.SetDefault("directory.tie_break", "shortest_label")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("memory.ttl_seconds", 86400)
	v.SetDefault("memory.limit", 20)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Classifier.GenAIBaseURL == "" {
		return fmt.Errorf("classifier.genai_base_url must be set")
	}
	if cfg.Classifier.TimeoutMS <= 0 {
		return fmt.Errorf("classifier.timeout_ms must be positive")
	}
	if cfg.Executors.TimeoutMS <= 0 {
		return fmt.Errorf("executors.timeout_ms must be positive")
	}
	if cfg.Channel.CommandBuffer <= 0 {
		return fmt.Errorf("channel.command_buffer must be positive")
	}
	switch cfg.Directory.TieBreak {
	case "", "shortest_label", "levenshtein":
	default:
		return fmt.Errorf("directory.tie_break must be shortest_label or levenshtein, got %q", cfg.Directory.TieBreak)
	}
	return nil
}
