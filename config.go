package tasks

import (
	"time"

	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

// AppConfig is the environment-backed configuration. It satisfies the Config
// interface consumed by NewAuthenticator.
type AppConfig struct {
	SigningKey      string        `env:"TASKS_SIGNING_KEY,notEmpty"`
	AccessTTL       time.Duration `env:"TASKS_ACCESS_TOKEN_TTL" envDefault:"30m"`
	ConfirmationTTL time.Duration `env:"TASKS_CONFIRMATION_TOKEN_TTL" envDefault:"30m"`
	Issuer          string        `env:"TASKS_TOKEN_ISSUER" envDefault:"go-tasks"`
	DSN             string        `env:"TASKS_DATABASE_DSN" envDefault:"file:tasks.db?cache=shared&_pragma=foreign_keys(1)"`
	ListenAddr      string        `env:"TASKS_LISTEN_ADDR" envDefault:":8080"`
	Debug           bool          `env:"TASKS_DEBUG"`
}

var _ Config = (*AppConfig)(nil)

// LoadConfig parses configuration from environment variables.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "parse environment config")
	}
	return cfg, nil
}

func (c *AppConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *AppConfig) GetTokenExpiration() time.Duration {
	return c.AccessTTL
}

func (c *AppConfig) GetConfirmationTokenExpiration() time.Duration {
	return c.ConfirmationTTL
}

func (c *AppConfig) GetIssuer() string {
	return c.Issuer
}
