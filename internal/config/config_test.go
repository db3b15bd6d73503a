package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusqa/campusqa/pkg/types"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.7, cfg.VectorWeight)
	assert.Equal(t, 0.3, cfg.TextWeight)
	assert.Equal(t, 0.3, cfg.VectorThreshold)
	assert.Equal(t, 15, cfg.ResultLimit)
	assert.Equal(t, time.Hour, cfg.QueryCacheTTL)
	assert.Equal(t, 100, cfg.ResponseCacheCap)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:   "custom weights summing to one",
			mutate: func(c *Config) { c.VectorWeight = 0.6; c.TextWeight = 0.4 },
		},
		{
			name:    "weights not summing to one",
			mutate:  func(c *Config) { c.VectorWeight = 0.8 },
			wantErr: true,
		},
		{
			name:    "negative weight",
			mutate:  func(c *Config) { c.VectorWeight = -0.1; c.TextWeight = 1.1 },
			wantErr: true,
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *Config) { c.VectorThreshold = 1.5 },
			wantErr: true,
		},
		{
			name:    "zero result limit",
			mutate:  func(c *Config) { c.ResultLimit = 0 },
			wantErr: true,
		},
		{
			name:    "zero ttl",
			mutate:  func(c *Config) { c.QueryCacheTTL = 0 },
			wantErr: true,
		},
		{
			name:    "zero response capacity",
			mutate:  func(c *Config) { c.ResponseCacheCap = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		for _, key := range []string{EnvVectorWeight, EnvTextWeight, EnvVectorThreshold, EnvResultLimit, EnvQueryCacheTTL, EnvResponseCap, EnvRequestTimeout} {
			t.Setenv(key, "")
		}

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("overrides applied", func(t *testing.T) {
		t.Setenv(EnvVectorWeight, "0.6")
		t.Setenv(EnvTextWeight, "0.4")
		t.Setenv(EnvResultLimit, "5")
		t.Setenv(EnvQueryCacheTTL, "90m")
		t.Setenv(EnvResponseCap, "10")
		t.Setenv(EnvRequestTimeout, "30")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, 0.6, cfg.VectorWeight)
		assert.Equal(t, 5, cfg.ResultLimit)
		assert.Equal(t, 90*time.Minute, cfg.QueryCacheTTL)
		assert.Equal(t, 10, cfg.ResponseCacheCap)
		// Plain numbers are read as seconds
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid combination rejected", func(t *testing.T) {
		t.Setenv(EnvVectorWeight, "0.9")
		t.Setenv(EnvTextWeight, "0.3")

		_, err := FromEnv()
		assert.ErrorIs(t, err, types.ErrInvalidConfig)
	})

	t.Run("malformed overrides rejected", func(t *testing.T) {
		tests := []struct {
			name  string
			key   string
			value string
		}{
			{"non-numeric weight", EnvVectorWeight, "heavy"},
			{"non-numeric threshold", EnvVectorThreshold, "0.3x"},
			{"non-integer limit", EnvResultLimit, "fifteen"},
			{"non-integer capacity", EnvResponseCap, "12.5"},
			{"garbage ttl", EnvQueryCacheTTL, "soon"},
			{"garbage timeout", EnvRequestTimeout, "30 seconds"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Setenv(tt.key, tt.value)

				_, err := FromEnv()
				require.ErrorIs(t, err, types.ErrInvalidConfig)
				// The error names the offending variable so the operator
				// can find it
				assert.Contains(t, err.Error(), tt.key)
			})
		}
	})
}
