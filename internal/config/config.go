// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Network   NetworkConfig   `mapstructure:"network" yaml:"network"`
	Generator GeneratorConfig `mapstructure:"generator" yaml:"generator"`
	Fill      FillConfig      `mapstructure:"fill" yaml:"fill"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr" yaml:"listen_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// NetworkConfig holds settings for outbound HTTP to the target form.
type NetworkConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	// UserAgent is sent on every request to the target. Google serves a
	// degraded page to unknown clients, so a realistic browser identity is
	// part of the parse contract.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
}

// GenerationProvider defines the supported text generation providers.
type GenerationProvider string

const (
	ProviderGemini GenerationProvider = "gemini"
)

// GeneratorConfig defines the configuration for the external text
// generation service.
type GeneratorConfig struct {
	Provider    GenerationProvider `mapstructure:"provider" yaml:"provider"`
	Model       string             `mapstructure:"model" yaml:"model"`
	APIKey      string             `mapstructure:"api_key" yaml:"-"`
	Endpoint    string             `mapstructure:"endpoint" yaml:"endpoint"`
	APITimeout  time.Duration      `mapstructure:"api_timeout" yaml:"api_timeout"`
	Temperature float32            `mapstructure:"temperature" yaml:"temperature"`
}

// FillConfig paces and bounds the fill loop.
type FillConfig struct {
	// SubmitDelay is the pause between consecutive submissions. The loop
	// deliberately rate-limits itself against the target endpoint.
	SubmitDelay  time.Duration `mapstructure:"submit_delay" yaml:"submit_delay"`
	MaxResponses int           `mapstructure:"max_responses" yaml:"max_responses"`
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults only.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "formfill-cli")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "red")

	// -- Server --
	v.SetDefault("server.listen_addr", ":5000")
	v.SetDefault("server.shutdown_timeout", "15s")

	// -- Network --
	v.SetDefault("network.request_timeout", "30s")
	v.SetDefault("network.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	// -- Generator --
	v.SetDefault("generator.provider", "gemini")
	v.SetDefault("generator.model", "gemini-2.0-flash")
	v.SetDefault("generator.endpoint", "")
	v.SetDefault("generator.api_timeout", "30s")
	v.SetDefault("generator.temperature", 0.9)

	// -- Fill --
	v.SetDefault("fill.submit_delay", "500ms")
	v.SetDefault("fill.max_responses", 100)
}

// BindEnv wires environment variables into the viper instance. All settings
// are reachable as FORMFILL_<SECTION>_<KEY>; the generator credential is
// additionally read from GEMINI_API_KEY so the standard variable works out
// of the box.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("FORMFILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("generator.api_key", "FORMFILL_GENERATOR_API_KEY", "GEMINI_API_KEY")
}

// NewConfigFromViper creates a validated configuration from a viper instance.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Generator.Provider != ProviderGemini {
		return fmt.Errorf("unknown generation provider %q, supported: [%s]", c.Generator.Provider, ProviderGemini)
	}
	if c.Fill.MaxResponses < 1 {
		return fmt.Errorf("fill.max_responses must be at least 1, got %d", c.Fill.MaxResponses)
	}
	if c.Fill.SubmitDelay < 0 {
		return fmt.Errorf("fill.submit_delay must not be negative")
	}
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("network.request_timeout must be positive")
	}
	return nil
}
