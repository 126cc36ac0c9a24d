package app

import (
	"fmt"
	"time"

	"github.com/skillsy/skillsy-api/config"
	"github.com/skillsy/skillsy-api/observability"
	"github.com/skillsy/skillsy-api/server"
	"github.com/skillsy/skillsy-api/version"
)

// ServiceName identifies the process in logs, config lookup and telemetry.
const ServiceName = "skillsy-api"

// Config is the full process configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	// FrontendURL is the web frontend origin allowed to call the API.
	FrontendURL   string               `yaml:"frontend_url" mapstructure:"frontend_url"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`

	// ShutdownTimeout bounds graceful shutdown. Zero keeps the bootstrap
	// default.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ApplyDefaults fills every section. FrontendURL is resolved later by
// AllowedOrigins so an empty value keeps meaning "not configured".
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	if c.Version == "" {
		c.Version = version.Version
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}

// ServiceInfo returns the identity exported with telemetry.
func (c *Config) ServiceInfo() observability.ServiceInfo {
	return observability.ServiceInfo{
		Name:        c.Name,
		Version:     c.Version,
		Environment: c.Environment,
	}
}
