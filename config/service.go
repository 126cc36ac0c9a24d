package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/skillsy/skillsy-api/logger"
)

var validEnvironments = []string{"development", "staging", "production"}

// environmentAliases maps common short names, as set by deploy tooling,
// onto the canonical environments.
var environmentAliases = map[string]string{
	"dev":     "development",
	"develop": "development",
	"local":   "development",
	"stage":   "staging",
	"stg":     "staging",
	"prod":    "production",
}

// ServiceConfig contains the fields every service needs. Embed it with
// mapstructure:",squash" so its keys stay at the top level.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the embedded ServiceConfig. Promoted through
// embedding, it lets outer structs satisfy bootstrap.Config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration. An
// unrecognized environment falls back to development with a warning.
func (c *ServiceConfig) ApplyDefaults() {
	c.Environment = normalizeEnvironment(c.Environment)
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !slices.Contains(validEnvironments, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvironments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

func normalizeEnvironment(env string) string {
	name := strings.ToLower(strings.TrimSpace(env))
	if alias, ok := environmentAliases[name]; ok {
		name = alias
	}
	switch {
	case name == "":
		return "development"
	case slices.Contains(validEnvironments, name):
		return name
	default:
		logger.Warn("Unknown environment, using development", logger.Fields("environment", env))
		return "development"
	}
}
