package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting for the service. It is built once in
// main and passed by value into each component constructor; nothing mutates
// it after Load returns.
type Config struct {
	Env        string        `env:"APP_ENV" envDefault:"development"`
	Port       string        `env:"PORT" envDefault:"8080"`
	DataDir    string        `env:"DATA_DIR" envDefault:".data"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	Stripe  StripeConfig  `envPrefix:"STRIPE_"`
	Mailgun MailgunConfig `envPrefix:"MAILGUN_"`
	App     AppConfig     `envPrefix:"APP_"`
}

type StripeConfig struct {
	URL string `env:"URL" envDefault:"https://api.stripe.com/v1"`
	Key string `env:"KEY"`
}

type MailgunConfig struct {
	URL    string `env:"URL" envDefault:"https://api.mailgun.net/v3"`
	Domain string `env:"DOMAIN"`
	Key    string `env:"KEY"`
	From   string `env:"FROM" envDefault:"Storefront <no-reply@storefront.example>"`
}

type AppConfig struct {
	Name       string `env:"NAME" envDefault:"Storefront"`
	DomainURL  string `env:"DOMAIN_URL" envDefault:"https://storefront.example"`
	SupportURL string `env:"SUPPORT_URL" envDefault:"https://storefront.example/support"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with the production profile.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
