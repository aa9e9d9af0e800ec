// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gateway    GatewayConfig    `mapstructure:"gateway"`
	Tasks      GenerationConfig `mapstructure:"tasks"`
	Evaluation GenerationConfig `mapstructure:"evaluation"`
	Commentary GenerationConfig `mapstructure:"commentary"`
	Registry   RegistryConfig   `mapstructure:"registry"`
	Persona    PersonaConfig    `mapstructure:"persona"`
}

// OpenAIConfig holds chat-completion provider configuration.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// GatewayConfig holds settings applied to every model call.
type GatewayConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// GenerationConfig holds per-operation sampling settings.
type GenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// RegistryConfig holds session registry bounds.
// A TTL of 0 disables idle-game sweeping. MaxGames of 0 means unbounded
// (up to the identifier space).
type RegistryConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	MaxGames      int           `mapstructure:"max_games"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// PersonaConfig selects the game-master persona used in prompts.
type PersonaConfig struct {
	Name string `mapstructure:"name"`
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase
	// e.g., OPENAI_API_KEY, GATEWAY_TIMEOUT, REGISTRY_TTL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not found is OK - env vars can provide all config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Register every key so AutomaticEnv can override it even when the
	// config file omits it.
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4.1")

	v.SetDefault("gateway.timeout", "10s")

	// Task generation wants variety, evaluation wants stability.
	v.SetDefault("tasks.temperature", 0.9)
	v.SetDefault("tasks.max_tokens", 250)
	v.SetDefault("evaluation.temperature", 0.4)
	v.SetDefault("evaluation.max_tokens", 300)
	v.SetDefault("commentary.temperature", 0.8)
	v.SetDefault("commentary.max_tokens", 200)

	v.SetDefault("registry.ttl", "2h")
	v.SetDefault("registry.max_games", 1000)
	v.SetDefault("registry.sweep_interval", "5m")

	v.SetDefault("persona.name", "루루")
}
