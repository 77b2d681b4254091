// Package config defines the application configuration and its loading from
// file and environment.
package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config represents the main application configuration.
type Config struct {
	// Gateway server
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Conversation engine
	Chat ChatConfig `json:"chat" mapstructure:"chat"`

	// Travel provider credentials and endpoint
	Amadeus AmadeusConfig `json:"amadeus" mapstructure:"amadeus"`

	// Hotel result pagination
	Hotels HotelsConfig `json:"hotels" mapstructure:"hotels"`

	// Session lifecycle
	Sessions SessionsConfig `json:"sessions" mapstructure:"sessions"`

	// Payment instrument for hotel orders
	Payment PaymentConfig `json:"payment" mapstructure:"payment"`

	// Booking ledger
	Ledger LedgerConfig `json:"ledger" mapstructure:"ledger"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// ServerConfig holds gateway server configuration.
type ServerConfig struct {
	Port int    `json:"port" mapstructure:"port"`
	Host string `json:"host" mapstructure:"host"`
}

// ChatConfig holds conversation engine configuration. Provider API keys are
// taken from the environment (OPENAI_API_KEY, ANTHROPIC_API_KEY), never from
// the config file.
type ChatConfig struct {
	Provider     string  `json:"provider" mapstructure:"provider"` // openai, anthropic
	Model        string  `json:"model" mapstructure:"model"`
	Temperature  float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens    int     `json:"max_tokens" mapstructure:"max_tokens"`
	MaxRounds    int     `json:"max_rounds" mapstructure:"max_rounds"`
	SystemPrompt string  `json:"system_prompt" mapstructure:"system_prompt"`
}

// AmadeusConfig holds travel provider configuration.
type AmadeusConfig struct {
	ClientID     string `json:"client_id" mapstructure:"client_id"`
	ClientSecret string `json:"client_secret" mapstructure:"client_secret"`
	BaseURL      string `json:"base_url" mapstructure:"base_url"`
	Timeout      int    `json:"timeout" mapstructure:"timeout"` // seconds
}

// TimeoutDuration returns the request timeout as a duration.
func (a AmadeusConfig) TimeoutDuration() time.Duration {
	if a.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.Timeout) * time.Second
}

// HotelsConfig holds hotel pagination configuration.
type HotelsConfig struct {
	BatchSize int `json:"batch_size" mapstructure:"batch_size"`
}

// SessionsConfig holds session lifecycle configuration.
type SessionsConfig struct {
	MaxIdleMinutes int `json:"max_idle_minutes" mapstructure:"max_idle_minutes"`
}

// MaxIdle returns the idle cutoff as a duration.
func (s SessionsConfig) MaxIdle() time.Duration {
	if s.MaxIdleMinutes <= 0 {
		return 0
	}
	return time.Duration(s.MaxIdleMinutes) * time.Minute
}

// PaymentConfig holds the payment instrument attached to hotel orders. When
// the card number is empty, orders are placed without a payment block.
type PaymentConfig struct {
	Method     string `json:"method" mapstructure:"method"`
	VendorCode string `json:"vendor_code" mapstructure:"vendor_code"`
	CardNumber string `json:"card_number" mapstructure:"card_number"`
	Expiry     string `json:"expiry" mapstructure:"expiry"`
	HolderName string `json:"holder_name" mapstructure:"holder_name"`
}

// LedgerConfig holds booking ledger configuration.
type LedgerConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Console   bool   `json:"console" mapstructure:"console"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8000,
			Host: "0.0.0.0",
		},
		Chat: ChatConfig{
			Provider:    "openai",
			Model:       "gpt-4o",
			Temperature: 0.7,
			MaxTokens:   4096,
			MaxRounds:   6,
		},
		Amadeus: AmadeusConfig{
			BaseURL: "https://test.api.amadeus.com",
			Timeout: 30,
		},
		Hotels: HotelsConfig{
			BatchSize: 5,
		},
		Sessions: SessionsConfig{
			MaxIdleMinutes: 30,
		},
		Ledger: LedgerConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Console:   true,
			Pretty:    true,
			Redaction: true,
		},
	}
}

// String returns a JSON representation of the config with secrets blanked.
func (c *Config) String() string {
	clone := *c
	clone.Amadeus.ClientSecret = ""
	clone.Payment.CardNumber = ""
	data, _ := json.MarshalIndent(&clone, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Chat.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("invalid chat provider %q (must be: openai, anthropic)", c.Chat.Provider)
	}
	if c.Chat.Model == "" {
		return fmt.Errorf("chat model is required")
	}
	if c.Chat.MaxRounds < 0 {
		return fmt.Errorf("chat max_rounds cannot be negative")
	}

	if c.Amadeus.ClientID == "" {
		return fmt.Errorf("amadeus client_id is required (config or AMADEUS_CLIENT_ID)")
	}
	if c.Amadeus.ClientSecret == "" {
		return fmt.Errorf("amadeus client_secret is required (config or AMADEUS_CLIENT_SECRET)")
	}
	if c.Amadeus.BaseURL == "" {
		return fmt.Errorf("amadeus base_url is required")
	}

	if c.Hotels.BatchSize < 0 {
		return fmt.Errorf("hotels batch_size cannot be negative")
	}

	return nil
}
