package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDomainConfig(t *testing.T) {
	tests := []struct {
		env        string
		maxHistory int
	}{
		{env: "production", maxHistory: 500},
		{env: "development", maxHistory: 50},
		{env: "", maxHistory: 200},
		{env: "staging", maxHistory: 200},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := LoadDomainConfig(tt.env)
			assert.Equal(t, tt.maxHistory, cfg.MaxHistory)
			assert.Equal(t, 40.0, cfg.DuplicateOffsetX)
			assert.Equal(t, 40.0, cfg.DuplicateOffsetY)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestDomainConfig_Validate(t *testing.T) {
	cfg := DefaultDomainConfig()
	cfg.MaxHistory = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultDomainConfig()
	cfg.DefaultGraphVersion = ""
	assert.Error(t, cfg.Validate())
}
