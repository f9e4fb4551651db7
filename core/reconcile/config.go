package reconcile

import (
	"time"

	"shaper-sync/core/rate"
)

// Config holds the reconciliation engine tunables.
type Config struct {
	// ScanIntervalSeconds is the delay between successful cycles.
	ScanIntervalSeconds int `mapstructure:"scan_interval_seconds" default:"120"`
	// ErrorRetrySeconds is the shortened delay after a failed cycle.
	ErrorRetrySeconds int `mapstructure:"error_retry_seconds" default:"30"`
	// GraceSeconds is how long an unobserved dynamic record survives before
	// it is pruned.
	GraceSeconds int `mapstructure:"grace_seconds" default:"1200"`
	// MaxRateFactor scales a subscriber's base rate into the shaped ceiling.
	MaxRateFactor float64 `mapstructure:"max_rate_factor" default:"1.15"`
	// MinRateFactor scales the ceiling into the committed minimum.
	MinRateFactor float64 `mapstructure:"min_rate_factor" default:"0.5"`
	// DefaultRateMbps substitutes for an unparseable base rate, per side.
	DefaultRateMbps float64 `mapstructure:"default_rate_mbps" default:"3"`
	// DefaultNodeMbps caps newly created hierarchy nodes.
	DefaultNodeMbps float64 `mapstructure:"default_node_mbps" default:"2000"`
	// IDLength is the length of generated circuit and device identifiers.
	IDLength int `mapstructure:"id_length" default:"8"`
	// ManualParents switches parent assignment to the per-router pools.
	ManualParents bool `mapstructure:"manual_parents" default:"false"`
	// ProfileCacheSize bounds the per-cycle PPP profile rate cache.
	ProfileCacheSize int `mapstructure:"profile_cache_size" default:"32"`
}

// ScanInterval returns the configured cycle interval.
func (c Config) ScanInterval() time.Duration {
	return time.Duration(c.ScanIntervalSeconds) * time.Second
}

// ErrorRetry returns the configured post-failure delay.
func (c Config) ErrorRetry() time.Duration {
	return time.Duration(c.ErrorRetrySeconds) * time.Second
}

// Grace returns the configured staleness window.
func (c Config) Grace() time.Duration {
	return time.Duration(c.GraceSeconds) * time.Second
}

// RatePolicy bundles the derivation tunables the source processors use to
// turn observed base rates into stored min/max pairs.
type RatePolicy struct {
	MaxFactor   float64
	MinFactor   float64
	DefaultMbps float64
}

// RatePolicy extracts the rate derivation tunables.
func (c Config) RatePolicy() RatePolicy {
	return RatePolicy{
		MaxFactor:   c.MaxRateFactor,
		MinFactor:   c.MinRateFactor,
		DefaultMbps: c.DefaultRateMbps,
	}
}

// Derive computes the stored max and min pairs from a base pair.
func (p RatePolicy) Derive(base rate.Pair) (max, min rate.Pair) {
	max = rate.DeriveMax(base, p.MaxFactor)
	min = rate.DeriveMin(max, p.MinFactor)
	return max, min
}

// DeriveDefault derives the stored pairs from the configured default rate.
func (p RatePolicy) DeriveDefault() (max, min rate.Pair) {
	return p.Derive(rate.Pair{RxMbps: p.DefaultMbps, TxMbps: p.DefaultMbps})
}

// DeriveText parses a router rate expression and derives the stored pairs.
// An expression that cannot be parsed at all falls back to the configured
// default rate on both sides.
func (p RatePolicy) DeriveText(text string) (max, min rate.Pair) {
	base, err := rate.ParsePair(text)
	if err != nil {
		base = rate.Pair{RxMbps: p.DefaultMbps, TxMbps: p.DefaultMbps}
	}
	return p.Derive(base)
}
