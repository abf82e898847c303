package signing

import (
	"fmt"
	"os"
)

// Config holds signing key material for the service signer.
type Config struct {
	Key string `toml:"key"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Key string
}

// Finalize applies environment variable overrides and validation.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Key != "" {
		c.Key = overlay.Key
	}
}

// Signer builds the HMAC signer from the configured key.
func (c *Config) Signer() (Signer, error) {
	return NewHMAC([]byte(c.Key))
}

func (c *Config) loadEnv(env *Env) {
	if env.Key != "" {
		if v := os.Getenv(env.Key); v != "" {
			c.Key = v
		}
	}
}

func (c *Config) validate() error {
	if c.Key == "" {
		return fmt.Errorf("key required")
	}
	return nil
}
