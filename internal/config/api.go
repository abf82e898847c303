package config

import (
	"fmt"
	"os"

	"github.com/cividoc/cividoc/pkg/formatting"
	"github.com/cividoc/cividoc/pkg/middleware"
	"github.com/cividoc/cividoc/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CIVIDOC_CORS_ENABLED",
	Origins:          "CIVIDOC_CORS_ORIGINS",
	AllowedMethods:   "CIVIDOC_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CIVIDOC_CORS_ALLOWED_HEADERS",
	AllowCredentials: "CIVIDOC_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CIVIDOC_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "CIVIDOC_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "CIVIDOC_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, and pagination settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	MaxBatchSize  int                   `toml:"max_batch_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes returns the upload limit as a byte count,
// falling back to 25MB when the configured value does not parse.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 25 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.MaxBatchSize != 0 {
		c.MaxBatchSize = overlay.MaxBatchSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "25MB"
	}
	if c.MaxBatchSize == 0 {
		c.MaxBatchSize = 100
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("CIVIDOC_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("CIVIDOC_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
