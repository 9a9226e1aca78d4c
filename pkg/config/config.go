package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = "cartfront"
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App      AppConfig
	Commerce CommerceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Commerce.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARTFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"CARTFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CARTFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARTFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CommerceConfig points the service at the upstream GraphQL commerce API.
type CommerceConfig struct {
	EndpointURL    string        `envconfig:"CARTFRONT_COMMERCE_ENDPOINT_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"CARTFRONT_COMMERCE_REQUEST_TIMEOUT" default:"10s"`
	DefaultCartID  string        `envconfig:"CARTFRONT_DEFAULT_CART_ID" default:"54i3c31"`
}

func (c CommerceConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(c.EndpointURL))
	if err != nil {
		return fmt.Errorf("invalid commerce endpoint URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("commerce endpoint URL must be http or https, got %q", c.EndpointURL)
	}
	if strings.TrimSpace(c.DefaultCartID) == "" {
		return fmt.Errorf("default cart id must not be empty")
	}
	return nil
}
