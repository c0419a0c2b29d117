// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Channel    ChannelConfig    `mapstructure:"channel"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Health     HealthConfig     `mapstructure:"health"`
	Executors  ExecutorsConfig  `mapstructure:"executors"`
	Directory  DirectoryConfig  `mapstructure:"directory"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Memory     MemoryConfig     `mapstructure:"memory"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host                 string `mapstructure:"host"`
	Port                 int    `mapstructure:"port"`
	StatelessTimeoutSecs int    `mapstructure:"stateless_timeout_seconds"`
}

// Addr returns the listen address for the HTTP/WS server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type ChannelConfig struct {
	HeartbeatIntervalSecs int  `mapstructure:"heartbeat_interval_seconds"`
	StaleAfterSecs        int  `mapstructure:"stale_after_seconds"`
	SweepIntervalSecs     int  `mapstructure:"sweep_interval_seconds"`
	CommandBuffer         int  `mapstructure:"command_buffer"`
	AckEnabled            bool `mapstructure:"ack_enabled"`
}

type ClassifierConfig struct {
	GenAIBaseURL string `mapstructure:"genai_base_url"`
	TimeoutMS    int    `mapstructure:"timeout_ms"`
}

type HealthConfig struct {
	IntervalSecs int `mapstructure:"interval_seconds"`
	TimeoutMS    int `mapstructure:"timeout_ms"`
}

type ExecutorsConfig struct {
	TimeoutMS int      `mapstructure:"timeout_ms"`
	FileRoots []string `mapstructure:"file_roots"`
}

// DirectoryConfig holds the alias -> canonical maps consumed by the resolver.
// Loaded once at startup; read-only during request processing.
type DirectoryConfig struct {
	Contacts   map[string]string `mapstructure:"contacts"`
	Apps       map[string]string `mapstructure:"apps"`
	StripWords []string          `mapstructure:"strip_words"`
	TieBreak   string            `mapstructure:"tie_break"` // shortest_label | levenshtein
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MemoryConfig struct {
	TTLSecs int   `mapstructure:"ttl_seconds"`
	Limit   int64 `mapstructure:"limit"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
