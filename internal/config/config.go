// Package config loads client configuration from defaults, TOML files and
// environment variables, in that precedence order.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultBaseURL is the endpoint used when none is configured.
	DefaultBaseURL = "http://localhost:8080"
	// DefaultTimeout bounds unary calls made with the default HTTP client.
	DefaultTimeout = 60 * time.Second
	// DefaultEncoding is the wire encoding used when none is configured.
	DefaultEncoding = "json"
	// EnvPrefix marks the environment variables the loader reads,
	// e.g. A3S_BASE_URL, A3S_API_KEY, A3S_LOG_LEVEL.
	EnvPrefix = "A3S_"
)

// Config holds the loadable client settings.
type Config struct {
	BaseURL  string        `koanf:"base_url" validate:"required,url"`
	APIKey   string        `koanf:"api_key"`
	Model    string        `koanf:"model"`
	Timeout  time.Duration `koanf:"timeout" validate:"min=0"`
	Encoding string        `koanf:"encoding" validate:"oneof=json msgpack"`
	LogLevel string        `koanf:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds a Config by layering, in order: built-in defaults, the given
// TOML files, and EnvPrefix-ed environment variables. Later layers
// override earlier ones. A named file that cannot be read is an error.
func Load(paths ...string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"base_url": DefaultBaseURL,
		"timeout":  DefaultTimeout,
		"encoding": DefaultEncoding,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	for _, path := range paths {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	envOpt := env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}
	if err := k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}
	return &cfg, nil
}
