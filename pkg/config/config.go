// Package config loads the server configuration from an optional
// config.toml plus environment variables. Environment variables override
// file values so deployments can keep credentials out of the file.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Client ClientConfig `mapstructure:"client"`
	Agent  AgentConfig  `mapstructure:"agent"`
	State  StateConfig  `mapstructure:"state"`
	Ops    OpsConfig    `mapstructure:"ops"`
}

// ServerConfig contains the Emby server connection settings.
type ServerConfig struct {
	URL       string `mapstructure:"url"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	VerifySSL bool   `mapstructure:"verify_ssl"`
}

// ClientConfig is how the server identifies itself to Emby.
type ClientConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Device  string `mapstructure:"device"`
}

// AgentConfig tunes responses handed to the calling agent.
type AgentConfig struct {
	// MaxItems caps how many items are returned per response chunk.
	MaxItems int `mapstructure:"max_items"`
}

// StateConfig locates the local state database.
type StateConfig struct {
	Path string `mapstructure:"path"`
}

// OpsConfig configures the operational HTTP endpoint.
type OpsConfig struct {
	// Listen is the address for health and metrics, empty disables it.
	Listen string `mapstructure:"listen"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{VerifySSL: true},
		Client: ClientConfig{
			Name:    "embymcp",
			Version: "1.0",
			Device:  "embymcp",
		},
		Agent: AgentConfig{MaxItems: 20},
		State: StateConfig{Path: "embymcp.db"},
	}
}

// Load reads the configuration from config.toml and the environment and
// returns a Config struct. A missing config file is fine as long as the
// connection settings arrive via the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath("$HOME/.config/embymcp/")
	v.AddConfigPath(".")

	defaults := DefaultConfig()
	v.SetDefault("server.verify_ssl", defaults.Server.VerifySSL)
	v.SetDefault("client.name", defaults.Client.Name)
	v.SetDefault("client.version", defaults.Client.Version)
	v.SetDefault("client.device", defaults.Client.Device)
	v.SetDefault("agent.max_items", defaults.Agent.MaxItems)
	v.SetDefault("state.path", defaults.State.Path)
	v.SetDefault("ops.listen", "")

	v.BindEnv("server.url", "EMBY_SERVER_URL")
	v.BindEnv("server.username", "EMBY_USERNAME")
	v.BindEnv("server.password", "EMBY_PASSWORD")
	v.BindEnv("server.verify_ssl", "EMBY_VERIFY_SSL")
	v.BindEnv("agent.max_items", "LLM_MAX_ITEMS")
	v.BindEnv("state.path", "EMBYMCP_STATE_PATH")
	v.BindEnv("ops.listen", "EMBYMCP_OPS_LISTEN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the required connection settings are present.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("missing required config: server.url")
	}
	if c.Server.Username == "" {
		return fmt.Errorf("missing required config: server.username")
	}
	if c.Server.Password == "" {
		return fmt.Errorf("missing required config: server.password")
	}
	if c.Agent.MaxItems <= 0 {
		return fmt.Errorf("agent.max_items must be positive")
	}
	return nil
}
