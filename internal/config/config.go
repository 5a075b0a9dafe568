package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config represents the application configuration structure
type Config struct {
	// Environment defines the environment the application runs in ('dev' or 'prod')
	Environment string `split_words:"true" default:"dev"`

	// ConsoleAPIListenAddress defines the address the console API listens on
	ConsoleAPIListenAddress string `split_words:"true" default:":8080"`

	// ConsoleAPIBaseAddress defines the public base address of the console API
	ConsoleAPIBaseAddress string `split_words:"true" default:"http://localhost:8080"`

	// ConsoleAPIAllowedOrigin defines the origin the browser console is served from
	ConsoleAPIAllowedOrigin string `split_words:"true" default:"http://localhost:3000"`

	// BackendBaseURL defines the base address of the backend orchestration service
	BackendBaseURL string `split_words:"true" required:"true"`

	// BackendTimeout bounds every outbound call to the backend service
	BackendTimeout time.Duration `split_words:"true" default:"15s"`

	// TokenSigningSecret is the secret used to sign minted service credentials
	TokenSigningSecret string `split_words:"true" required:"true"`

	// TokenTTL defines the validity window of minted service credentials
	TokenTTL time.Duration `split_words:"true" default:"5m"`

	// TokenIssuer is the issuer name encoded into minted service credentials
	TokenIssuer string `split_words:"true" default:"console-server"`

	// SessionStorageDriver defines the session storage driver to use ('inmem' or 'postgres')
	SessionStorageDriver string `split_words:"true" default:"inmem"`

	// PostgresDSN defines the DSN of the PostgreSQL session store
	PostgresDSN string `split_words:"true"`

	// SessionLifetime defines how long newly created sessions are valid
	SessionLifetime time.Duration `split_words:"true" default:"24h"`

	// SessionSweepInterval defines the interval expired sessions are swept in
	SessionSweepInterval time.Duration `split_words:"true" default:"5m"`
}

// IsEnvProduction returns whether the application runs in production environment
func (config *Config) IsEnvProduction() bool {
	return strings.EqualFold(config.Environment, "prod")
}

// IsConsoleAPISecure returns whether the console API is served via HTTPS
func (config *Config) IsConsoleAPISecure() bool {
	return strings.HasPrefix(config.ConsoleAPIBaseAddress, "https://")
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("cs", config); err != nil {
		return nil, err
	}
	return config, nil
}
