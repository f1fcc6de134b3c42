package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// CredentialEnv is the environment variable holding the upstream API key.
const CredentialEnv = "OPENAI_API_KEY"

// DefaultSystemPrompt is prepended to conversations that lack a system message.
const DefaultSystemPrompt = "You are a supportive mental coach."

type Config struct {
	Address         string        `mapstructure:"address" yaml:"address"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key" yaml:"openai_api_key"`
	OpenAIBaseURL   string        `mapstructure:"openai_base_url" yaml:"openai_base_url"`
	Model           string        `mapstructure:"model" yaml:"model"`
	SystemPrompt    string        `mapstructure:"system_prompt" yaml:"system_prompt"`
	Provider        string        `mapstructure:"provider" yaml:"provider"`
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout" yaml:"upstream_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	TelemetryURL    string        `mapstructure:"telemetry_url" yaml:"telemetry_url"`
	MetricsEnabled  bool          `mapstructure:"metrics_enabled" yaml:"metrics_enabled"`
	Debug           bool          `mapstructure:"debug" yaml:"debug"`
}

// Load reads configuration from an optional yaml file and the environment.
// An empty path searches for config.yaml in . and ./config.
func Load(path string) (*Config, error) {
	// a missing .env is fine, the process environment may already be set
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// allow environment variables like RELAY_ADDRESS
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("openai_api_key", CredentialEnv); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		// don't fail if config file is missing, allow env-only config
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("address", ":8000")
	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("model", "gpt-4")
	v.SetDefault("system_prompt", DefaultSystemPrompt)
	v.SetDefault("provider", "openai")
	v.SetDefault("upstream_timeout", 0)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("telemetry_url", "")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("debug", false)
}

// Redacted returns a copy safe to print, with the API key masked.
func (c *Config) Redacted() *Config {
	out := *c
	if out.OpenAIAPIKey != "" {
		out.OpenAIAPIKey = "********"
	}
	return &out
}

// YAML renders the configuration. Callers printing it should redact first.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
