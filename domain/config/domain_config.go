package config

import (
	"fmt"

	"github.com/imprakashraghu/way-engine/domain/core/graph"
)

// DomainConfig holds the editing rules of a session
type DomainConfig struct {
	// History constraints
	MaxHistory int

	// Duplicate-node macro: offset applied to the copy
	DuplicateOffsetX float64
	DuplicateOffsetY float64

	// Version tag of a graph created from scratch
	DefaultGraphVersion string
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxHistory: 200,

		DuplicateOffsetX: 40,
		DuplicateOffsetY: 40,

		DefaultGraphVersion: graph.DefaultVersion,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Long editing sessions keep a deeper history
	config.MaxHistory = 500

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Small stack so eviction shows up quickly while testing
	config.MaxHistory = 50

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.MaxHistory < 1 {
		return fmt.Errorf("max history must be at least 1, got %d", c.MaxHistory)
	}
	if c.DefaultGraphVersion == "" {
		return fmt.Errorf("default graph version is required")
	}
	return nil
}
