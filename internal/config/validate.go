package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Spatial.MaxRadiusMeters <= 0 {
		return fmt.Errorf("spatial.max_radius_meters must be > 0 (got %v)", c.Spatial.MaxRadiusMeters)
	}

	if c.Audit.DefaultPageSize <= 0 {
		return fmt.Errorf("audit.default_page_size must be > 0 (got %d)", c.Audit.DefaultPageSize)
	}
	if c.Audit.MaxPageSize < c.Audit.DefaultPageSize {
		return fmt.Errorf("audit.max_page_size must be >= default_page_size (got %d < %d)",
			c.Audit.MaxPageSize, c.Audit.DefaultPageSize)
	}

	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("database.query_timeout must be > 0 (got %v)", c.Database.QueryTimeout)
	}

	return nil
}
