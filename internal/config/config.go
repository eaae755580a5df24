// Package config loads the process-startup configuration: a YAML file
// with environment-variable fallbacks, one Get* resolver per option so
// a zero-value Config still yields sane defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ConnectionMode selects how a connecting client's identity is
// established.
type ConnectionMode string

const (
	Online  ConnectionMode = "online"
	Offline ConnectionMode = "offline"
)

// Config is the root configuration structure, covering every option in
// the server's own knobs plus cache/profile/router/api/metrics/logging.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Cache   CacheConfig   `yaml:"cache"`
	Profile ProfileConfig `yaml:"profile"`
	Router  RouterConfig  `yaml:"router"`
	API     APIConfig     `yaml:"api"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the game server's own startup options.
type ServerConfig struct {
	TickRate                int            `yaml:"tick_rate"`
	CompressionThreshold    int            `yaml:"compression_threshold"` // -1 disables
	MaxConnections          int            `yaml:"max_connections"`
	MaxPlayers              int            `yaml:"max_players"`
	ConnectionMode          ConnectionMode `yaml:"connection_mode"`
	PreventProxyConnections bool           `yaml:"prevent_proxy_connections"`
	ListenerAddr            string         `yaml:"listener_addr"`
	ViewDistanceMax         int            `yaml:"view_distance_max"`
	KeepalivePeriodSeconds  int            `yaml:"keepalive_period_seconds"`
	MaxDecoderBufferBytes   int            `yaml:"max_decoder_buffer_bytes"`
}

// TickPeriod returns the fixed per-tick sleep duration for TickRate.
func (s *ServerConfig) TickPeriod() time.Duration {
	rate := s.GetTickRate()
	return time.Second / time.Duration(rate)
}

// KeepalivePeriod returns the configured keepalive interval/timeout.
func (s *ServerConfig) KeepalivePeriod() time.Duration {
	secs := s.KeepalivePeriodSeconds
	if secs <= 0 {
		secs = 8
	}
	return time.Duration(secs) * time.Second
}

func (s *ServerConfig) GetTickRate() int {
	return intWithEnvFallback(s.TickRate, "KESTREL_TICK_RATE", 20)
}

func (s *ServerConfig) GetListenerAddr() string {
	if s.ListenerAddr != "" {
		return s.ListenerAddr
	}
	if v := os.Getenv("KESTREL_LISTENER_ADDR"); v != "" {
		return v
	}
	return ":25565"
}

func (s *ServerConfig) GetViewDistanceMax() int {
	return intWithEnvFallback(s.ViewDistanceMax, "KESTREL_VIEW_DISTANCE_MAX", 32)
}

func (s *ServerConfig) GetMaxPlayers() int {
	return intWithEnvFallback(s.MaxPlayers, "KESTREL_MAX_PLAYERS", 100)
}

func (s *ServerConfig) GetMaxConnections() int {
	return intWithEnvFallback(s.MaxConnections, "KESTREL_MAX_CONNECTIONS", 1024)
}

func (s *ServerConfig) GetCompressionThreshold() int {
	if s.CompressionThreshold != 0 {
		return s.CompressionThreshold
	}
	return intWithEnvFallback(0, "KESTREL_COMPRESSION_THRESHOLD", 256)
}

func (s *ServerConfig) GetMaxDecoderBufferBytes() int {
	return intWithEnvFallback(s.MaxDecoderBufferBytes, "KESTREL_MAX_DECODER_BUFFER", 2*1024*1024)
}

func (s *ServerConfig) GetConnectionMode() ConnectionMode {
	if s.ConnectionMode != "" {
		return s.ConnectionMode
	}
	if v := ConnectionMode(os.Getenv("KESTREL_CONNECTION_MODE")); v == Online || v == Offline {
		return v
	}
	return Offline
}

// CacheConfig configures the Redis-backed session/position cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	DB      int    `yaml:"db"`
}

// ProfileConfig selects and configures the pluggable profile store.
type ProfileConfig struct {
	Backend string      `yaml:"backend"` // "mysql" or "mongo"
	MySQL   MySQLConfig `yaml:"mysql"`
	Mongo   MongoConfig `yaml:"mongo"`
}

type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// RouterConfig configures cross-node NATS fan-out of LayerMessages.
type RouterConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// APIConfig configures the gin admin REST surface and its JWT guard.
type APIConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
	JWTSecret  string `yaml:"jwt_secret"`
}

// MetricsConfig configures the Prometheus exporter.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// LoggingConfig configures the leveled console+file logger.
type LoggingConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
}

// Load reads a YAML configuration file. If path is empty, it falls back to
// the KESTREL_CONFIG environment variable; if that is also unset, Load
// returns a zero-value Config whose Get* accessors fall back to their
// documented defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("KESTREL_CONFIG")
		if path == "" {
			return &Config{}, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Server.TickRate < 0 {
		return nil, fmt.Errorf("config: tick_rate must be > 0, got %d", cfg.Server.TickRate)
	}
	return &cfg, nil
}

func intWithEnvFallback(configured int, envVar string, def int) int {
	if configured > 0 {
		return configured
	}
	if v := os.Getenv(envVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
