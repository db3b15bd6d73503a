package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/campusqa/campusqa/pkg/types"
)

// Defaults for the retrieval and caching configuration
const (
	DefaultVectorWeight    = 0.7
	DefaultTextWeight      = 0.3
	DefaultVectorThreshold = 0.3
	DefaultResultLimit     = 15
	DefaultQueryCacheTTL   = time.Hour
	DefaultResponseCap     = 100

	// weightEpsilon tolerates float rounding when checking the weight sum
	weightEpsilon = 1e-9
)

// Config holds the retrieval and caching configuration. Zero values are
// replaced with defaults by Default(); Validate rejects anything the core
// cannot serve with.
type Config struct {
	VectorWeight     float64
	TextWeight       float64
	VectorThreshold  float64
	ResultLimit      int
	QueryCacheTTL    time.Duration
	ResponseCacheCap int
	RequestTimeout   time.Duration // 0 means no coordinator-imposed deadline
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		VectorWeight:     DefaultVectorWeight,
		TextWeight:       DefaultTextWeight,
		VectorThreshold:  DefaultVectorThreshold,
		ResultLimit:      DefaultResultLimit,
		QueryCacheTTL:    DefaultQueryCacheTTL,
		ResponseCacheCap: DefaultResponseCap,
	}
}

// Validate checks the configuration. Violations are fatal at startup.
func (c Config) Validate() error {
	if c.VectorWeight < 0 || c.TextWeight < 0 {
		return fmt.Errorf("%w: weights must be non-negative (vector=%v, text=%v)",
			types.ErrInvalidConfig, c.VectorWeight, c.TextWeight)
	}
	if math.Abs(c.VectorWeight+c.TextWeight-1.0) > weightEpsilon {
		return fmt.Errorf("%w: weights must sum to 1.0 (vector=%v, text=%v)",
			types.ErrInvalidConfig, c.VectorWeight, c.TextWeight)
	}
	if c.VectorThreshold < -1 || c.VectorThreshold > 1 {
		return fmt.Errorf("%w: vector threshold must be in [-1, 1], got %v",
			types.ErrInvalidConfig, c.VectorThreshold)
	}
	if c.ResultLimit <= 0 {
		return fmt.Errorf("%w: result limit must be positive, got %d",
			types.ErrInvalidConfig, c.ResultLimit)
	}
	if c.QueryCacheTTL <= 0 {
		return fmt.Errorf("%w: query cache TTL must be positive, got %v",
			types.ErrInvalidConfig, c.QueryCacheTTL)
	}
	if c.ResponseCacheCap <= 0 {
		return fmt.Errorf("%w: response cache capacity must be positive, got %d",
			types.ErrInvalidConfig, c.ResponseCacheCap)
	}
	return nil
}

// Environment variable names recognized by FromEnv
const (
	EnvVectorWeight    = "CAMPUSQA_VECTOR_WEIGHT"
	EnvTextWeight      = "CAMPUSQA_TEXT_WEIGHT"
	EnvVectorThreshold = "CAMPUSQA_VECTOR_THRESHOLD"
	EnvResultLimit     = "CAMPUSQA_RESULT_LIMIT"
	EnvQueryCacheTTL   = "CAMPUSQA_QUERY_CACHE_TTL"
	EnvResponseCap     = "CAMPUSQA_RESPONSE_CACHE_CAPACITY"
	EnvRequestTimeout  = "CAMPUSQA_REQUEST_TIMEOUT"
)

// FromEnv builds a configuration from defaults plus environment overrides,
// then validates it. A set but unparseable override is a fatal configuration
// error, not a silent fallback to the default.
func FromEnv() (Config, error) {
	cfg := Default()

	floats := []struct {
		key  string
		dest *float64
	}{
		{EnvVectorWeight, &cfg.VectorWeight},
		{EnvTextWeight, &cfg.TextWeight},
		{EnvVectorThreshold, &cfg.VectorThreshold},
	}
	for _, f := range floats {
		if err := envFloat(f.key, f.dest); err != nil {
			return Config{}, err
		}
	}

	ints := []struct {
		key  string
		dest *int
	}{
		{EnvResultLimit, &cfg.ResultLimit},
		{EnvResponseCap, &cfg.ResponseCacheCap},
	}
	for _, i := range ints {
		if err := envInt(i.key, i.dest); err != nil {
			return Config{}, err
		}
	}

	durations := []struct {
		key  string
		dest *time.Duration
	}{
		{EnvQueryCacheTTL, &cfg.QueryCacheTTL},
		{EnvRequestTimeout, &cfg.RequestTimeout},
	}
	for _, d := range durations {
		if err := envDuration(d.key, d.dest); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envFloat(key string, dest *float64) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a number", types.ErrInvalidConfig, key, raw)
	}
	*dest = v
	return nil
}

func envInt(key string, dest *int) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", types.ErrInvalidConfig, key, raw)
	}
	*dest = v
	return nil
}

// envDuration accepts either a Go duration string ("90m") or a plain number
// of seconds ("3600"), matching how the original deployment configured TTLs.
func envDuration(key string, dest *time.Duration) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dest = d
		return nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		*dest = time.Duration(secs) * time.Second
		return nil
	}
	return fmt.Errorf("%w: %s=%q is not a duration or seconds value", types.ErrInvalidConfig, key, raw)
}
