package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache in front of the
// public house listing.  When Enabled is false or Redis is unavailable the
// cache is skipped entirely.
type CacheConfig struct {
	Enabled      bool          `env:"CACHE_ENABLED" envDefault:"true"`
	Methods      []string      `env:"CACHE_METHODS" envDefault:"GET" envSeparator:","`
	TTL          time.Duration `env:"CACHE_TTL" envDefault:"30s"`
	KeyStrategy  string        `env:"CACHE_KEY_STRATEGY" envDefault:"route_query"`
	Prefix       string        `env:"CACHE_PREFIX" envDefault:"cache"`
	MaxBodyBytes int           `env:"CACHE_MAX_BODY_BYTES" envDefault:"1048576"`
}

// MethodSet returns the cacheable methods upper-cased.
func (c CacheConfig) MethodSet() map[string]bool {
	m := make(map[string]bool, len(c.Methods))
	for _, p := range c.Methods {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
