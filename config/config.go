// Package config carries process-wide settings. The Config value is built
// once in main and passed by reference to the server and the auth middleware,
// so no package reads ambient environment state at request time.
package config

import (
	"fmt"
	"os"
	"strings"
)

// DefaultAPIKey is used when API_KEY is not set. Deployments are expected to
// override it from a secret manager.
const DefaultAPIKey = "axum-api-key"

// Environment names the runtime environment the service runs in.
type Environment string

const (
	Production  Environment = "PRODUCTION"
	Test        Environment = "TEST"
	Development Environment = "DEVELOPMENT"
	Local       Environment = "LOCAL"
)

// Config holds the API key and runtime environment.
type Config struct {
	APIKey string
	Env    Environment
}

// FromEnv builds a Config from the API_KEY and API_ENV variables, falling
// back to the defaults when they are unset or invalid.
func FromEnv() *Config {
	return &Config{
		APIKey: envOr("API_KEY", DefaultAPIKey),
		Env:    EnvironmentFromEnv(),
	}
}

// Default returns the local development configuration used by tests.
func Default() *Config {
	return &Config{APIKey: DefaultAPIKey, Env: Local}
}

// EnvironmentFromEnv reads API_ENV, defaulting to Local.
func EnvironmentFromEnv() Environment {
	env, err := ParseEnvironment(os.Getenv("API_ENV"))
	if err != nil {
		return Local
	}
	return env
}

// ParseEnvironment validates an environment name.
func ParseEnvironment(value string) (Environment, error) {
	switch Environment(strings.ToUpper(strings.TrimSpace(value))) {
	case Production:
		return Production, nil
	case Test:
		return Test, nil
	case Development:
		return Development, nil
	case Local:
		return Local, nil
	default:
		return Local, fmt.Errorf("invalid environment value: %q", value)
	}
}

func (e Environment) String() string {
	return string(e)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
