// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Poll interval bounds; indicator updates must feel immediate without spinning
const (
	MinPollInterval = time.Millisecond
	MaxPollInterval = 20 * time.Millisecond
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Serial    SerialConfig    `mapstructure:"serial"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
	Security  SecurityConfig  `mapstructure:"security"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	App       AppConfig       `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLS          TLSConfig     `mapstructure:"tls"`
}

// TLSConfig represents TLS configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// SerialConfig represents the counting device connection
type SerialConfig struct {
	Port          string        `mapstructure:"port"`
	BaudRate      int           `mapstructure:"baud_rate"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	ReadBuffer    int           `mapstructure:"read_buffer"`
	MaxLineLength int           `mapstructure:"max_line_length"`
	AutoStart     bool          `mapstructure:"auto_start"`
}

// BroadcastConfig represents event fan-out settings
type BroadcastConfig struct {
	SubscriberBuffer int `mapstructure:"subscriber_buffer"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// Load loads configuration from file and environment variables.
// An empty path searches ./config and ./internal/config for config.yaml; a
// missing file leaves defaults and environment in effect.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath("./internal/config")
		v.AddConfigPath("../../internal/config")
	}

	// Environment variable support
	v.SetEnvPrefix("BEE_COUNTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8085")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.tls.enabled", false)

	// Serial defaults
	v.SetDefault("serial.port", "COM3")
	v.SetDefault("serial.baud_rate", 115200)
	v.SetDefault("serial.poll_interval", "10ms")
	v.SetDefault("serial.read_timeout", "0s")
	v.SetDefault("serial.read_buffer", 256)
	v.SetDefault("serial.max_line_length", 64)
	v.SetDefault("serial.auto_start", false)

	// Broadcast defaults
	v.SetDefault("broadcast.subscriber_buffer", 16)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// App defaults
	v.SetDefault("app.name", "bee-counter")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if config.Server.TLS.Enabled && (config.Server.TLS.CertFile == "" || config.Server.TLS.KeyFile == "") {
		return fmt.Errorf("server.tls requires cert_file and key_file")
	}

	if config.Serial.PollInterval < MinPollInterval || config.Serial.PollInterval > MaxPollInterval {
		return fmt.Errorf("serial.poll_interval must be between %s and %s", MinPollInterval, MaxPollInterval)
	}
	if config.Serial.ReadTimeout < 0 || config.Serial.ReadTimeout > config.Serial.PollInterval {
		return fmt.Errorf("serial.read_timeout must be between 0 and serial.poll_interval")
	}
	if config.Serial.BaudRate <= 0 {
		return fmt.Errorf("serial.baud_rate must be positive")
	}
	if config.Serial.ReadBuffer <= 0 {
		return fmt.Errorf("serial.read_buffer must be positive")
	}
	if config.Serial.MaxLineLength <= 0 {
		return fmt.Errorf("serial.max_line_length must be positive")
	}
	if config.Broadcast.SubscriberBuffer <= 0 {
		return fmt.Errorf("broadcast.subscriber_buffer must be positive")
	}

	validEnvs := []string{"development", "staging", "production", "test"}
	if !slices.Contains(validEnvs, config.App.Environment) {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !slices.Contains(validLevels, config.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDebugEnabled checks if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.App.Environment == "development"
}
