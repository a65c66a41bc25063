// Package config loads the service configuration from the environment.  A
// .env file in the working directory is read first when present; real
// environment variables always win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting.  It is loaded once at startup and
// passed down explicitly.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`   // dev, test or prod
	Port string `env:"APP_PORT" envDefault:"8000"` // HTTP listen port

	DB        DBConfig
	JWT       JWTConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Notify    NotifyConfig

	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`
}

// DBConfig locates the MySQL database.
type DBConfig struct {
	User string `env:"DB_USER,required,notEmpty"`
	Pass string `env:"DB_PASS"` // may be empty
	Host string `env:"DB_HOST,required,notEmpty"`
	Port string `env:"DB_PORT" envDefault:"3306"`
	Name string `env:"DB_NAME,required,notEmpty"`
}

// JWTConfig is the process-wide signing key plus the access token lifetime.
type JWTConfig struct {
	Secret    string        `env:"JWT_SECRET,required,notEmpty"`
	Algorithm string        `env:"JWT_ALGORITHM" envDefault:"HS256"`
	TTL       time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
}

// Load reads .env (if any) and then the process environment.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	return Parse()
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Parse builds a Config from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.RateLimit.normalize()
	if cfg.JWT.TTL <= 0 {
		return Config{}, fmt.Errorf("parse env: TOKEN_TTL must be positive, got %s", cfg.JWT.TTL)
	}
	return cfg, nil
}

// IsDev reports whether the service runs in local development mode.
func (c Config) IsDev() bool { return c.Env == "" || c.Env == "dev" }
