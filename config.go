package accounts

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

// AppConfig is the process configuration, parsed once from the
// environment at startup and read-only thereafter. The signing secret
// is injected into services through the Config interface and is never
// logged.
type AppConfig struct {
	SigningSecret string        `env:"JWT_SECRET,required"`
	DatabaseDSN   string        `env:"DATABASE_URL" envDefault:"file:accounts.db?cache=shared"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"15m"`
	Issuer        string        `env:"TOKEN_ISSUER" envDefault:"go-accounts"`
	AuthScheme    string        `env:"AUTH_SCHEME" envDefault:"Bearer"`
	ListenAddr    string        `env:"LISTEN_ADDR" envDefault:":3000"`
}

var _ Config = AppConfig{}

// LoadConfig parses AppConfig from the environment.
func LoadConfig() (AppConfig, error) {
	cfg := AppConfig{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, errors.CategoryOperation, "failed to parse environment configuration")
	}
	return cfg, nil
}

func (c AppConfig) GetSigningKey() string {
	return c.SigningSecret
}

func (c AppConfig) GetTokenTTL() time.Duration {
	return c.TokenTTL
}

func (c AppConfig) GetIssuer() string {
	return c.Issuer
}

func (c AppConfig) GetAuthScheme() string {
	return c.AuthScheme
}
