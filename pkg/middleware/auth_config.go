package middleware

import (
	"fmt"
	"os"
	"strconv"
)

// AuthConfig holds OIDC bearer verification settings. Disabled by default so
// local development runs without a provider.
type AuthConfig struct {
	Enabled      bool   `toml:"enabled"`
	Issuer       string `toml:"issuer"`
	ClientID     string `toml:"client_id"`
	RequiredRole string `toml:"required_role"`
}

// AuthEnv maps auth config fields to environment variable names for
// override injection.
type AuthEnv struct {
	Enabled      string
	Issuer       string
	ClientID     string
	RequiredRole string
}

// Finalize applies environment variable overrides and validation.
func (c *AuthConfig) Finalize(env *AuthEnv) error {
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. Enabled always applies; string
// fields only when non-empty.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	c.Enabled = overlay.Enabled

	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.RequiredRole != "" {
		c.RequiredRole = overlay.RequiredRole
	}
}

func (c *AuthConfig) loadEnv(env *AuthEnv) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = enabled
			}
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
	if env.RequiredRole != "" {
		if v := os.Getenv(env.RequiredRole); v != "" {
			c.RequiredRole = v
		}
	}
}

func (c *AuthConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Issuer == "" {
		return fmt.Errorf("issuer required when auth enabled")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id required when auth enabled")
	}
	return nil
}
