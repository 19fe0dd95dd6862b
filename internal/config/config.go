package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

var (
	ErrPlatformTokenRequired = errors.New("PLATFORM_AUTH_TOKEN is required")
	ErrSigningKeyInsecure    = errors.New("LINK_SIGNING_KEY must be set to a non-placeholder value")
)

var insecureSigningKeys = map[string]struct{}{
	"":                        {},
	"change_me_in_production": {},
	"secret":                  {},
}

type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"data/onboard.db"`

	PlatformBaseURL   string `env:"PLATFORM_BASE_URL" envDefault:"https://api.courier.com"`
	PlatformAuthToken string `env:"PLATFORM_AUTH_TOKEN"`

	AppBaseURL             string        `env:"APP_BASE_URL" envDefault:"https://app.teamsync.example.com"`
	SupportEmail           string        `env:"SUPPORT_EMAIL" envDefault:"support@teamsync.example.com"`
	EnterpriseSupportEmail string        `env:"ENTERPRISE_SUPPORT_EMAIL" envDefault:"enterprise-support@teamsync.example.com"`
	LinkSigningKey         string        `env:"LINK_SIGNING_KEY"`
	LinkTTL                time.Duration `env:"LINK_TTL" envDefault:"72h"`

	SlackEscalationChannel string `env:"SLACK_ESCALATION_CHANNEL" envDefault:"#customer-success"`
	SlackAccessToken       string `env:"SLACK_ACCESS_TOKEN"`

	Timezone string `env:"TZ" envDefault:"UTC"`
}

func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.PlatformAuthToken) == "" {
		return ErrPlatformTokenRequired
	}
	if _, insecure := insecureSigningKeys[strings.TrimSpace(cfg.LinkSigningKey)]; insecure {
		return ErrSigningKeyInsecure
	}
	return nil
}
