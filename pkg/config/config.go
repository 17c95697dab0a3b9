package config

import (
	"errors"
	"os"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort         int    `env:"HTTP_PORT" envDefault:"5000"`
	PostgresDSN      string `env:"POSTGRES_DSN"`
	PostgresMaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	BcryptCost       int    `env:"BCRYPT_COST" envDefault:"10"`

	// URLPrefix is the public base URL used in verification links.
	URLPrefix string `env:"URL_PREFIX" envDefault:"http://localhost:5000"`

	Session SessionConfig
	Mailer  MailerConfig

	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`
}

type SessionConfig struct {
	TTL             time.Duration `env:"SESSION_TTL"              envDefault:"24h"`
	RememberMeTTL   time.Duration `env:"SESSION_REMEMBER_ME_TTL"  envDefault:"720h"`
	VerificationTTL time.Duration `env:"VERIFICATION_TOKEN_TTL"   envDefault:"24h"`
	CookieName      string        `env:"SESSION_COOKIE_NAME"      envDefault:"session_id"`

	// CrossSite switches the cookie to Secure + SameSite=None for a frontend
	// served from a separate TLS origin. An explicit setting, not an accident
	// of environment: the default is SameSite=Lax without Secure.
	CrossSite bool `env:"SESSION_COOKIE_CROSS_SITE" envDefault:"false"`
}

type MailerConfig struct {
	Host     string `env:"MAILER_HOST"`
	Port     int    `env:"MAILER_PORT"      envDefault:"587"`
	Login    string `env:"MAILER_LOGIN"`
	Password string `env:"MAILER_PASSWORD"`
	From     string `env:"MAILER_FROM"`
	FromName string `env:"MAILER_FROM_NAME" envDefault:"Campus Events"`
}

func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	err = env.Parse(&c)
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
