package rules

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/cellsim/internal/neighbor"
)

// Kind names a rule variant.
type Kind string

const (
	KindStandard   Kind = "standard"
	KindStochastic Kind = "stochastic"
	KindWeighted   Kind = "weighted"
	KindSacrifice  Kind = "sacrifice"
	KindSelfish    Kind = "selfish"
)

const (
	DefaultAggressiveThreshold = 4
	DefaultKillRing            = 4
	maxNeighbors               = 8
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("rules: invalid config")

// ConfigError reports the offending field of a rejected Config.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("rules: invalid %s %v: %s", e.Field, e.Value, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidConfig}
	}
	return []error{ErrInvalidConfig, e.Err}
}

// Config is fixed for the lifetime of a run.
type Config struct {
	Variant  Kind
	Boundary neighbor.Boundary
	// Mask is used by the weighted variant. The zero mask means Standard.
	Mask neighbor.Mask

	PDeath        float64
	DeathSampling bool

	SacrificeN int

	Selfishness         float64
	KillRing            int
	AggressiveThreshold int
}

func DefaultConfig() Config {
	return Config{
		Variant:             KindStandard,
		Boundary:            neighbor.Toroidal,
		Mask:                neighbor.Standard,
		KillRing:            DefaultKillRing,
		AggressiveThreshold: DefaultAggressiveThreshold,
	}
}

// ParseKind accepts the variant names plus a few common aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "conway", "life":
		return KindStandard, nil
	case "stochastic", "stochastic_death", "og":
		return KindStochastic, nil
	case "weighted", "weighted_mask", "mask":
		return KindWeighted, nil
	case "sacrifice":
		return KindSacrifice, nil
	case "selfish":
		return KindSelfish, nil
	}
	return "", &ConfigError{Field: "variant", Value: s, Reason: "unknown variant"}
}

// withDefaults fills zero-valued optional fields.
func (c Config) withDefaults() Config {
	if c.Variant == "" {
		c.Variant = KindStandard
	}
	if c.Mask == (neighbor.Mask{}) {
		c.Mask = neighbor.Standard
	}
	if c.KillRing == 0 {
		c.KillRing = DefaultKillRing
	}
	if c.AggressiveThreshold == 0 {
		c.AggressiveThreshold = DefaultAggressiveThreshold
	}
	return c
}

// Validate checks every field regardless of the selected variant.
func (c Config) Validate() error {
	c = c.withDefaults()

	if _, ok := registry[c.Variant]; !ok {
		return &ConfigError{Field: "variant", Value: c.Variant, Reason: "unknown variant"}
	}
	if c.Boundary != neighbor.Toroidal && c.Boundary != neighbor.Clamped {
		return &ConfigError{Field: "boundary", Value: c.Boundary, Reason: "unknown boundary", Err: neighbor.ErrUnknownBoundary}
	}
	if err := c.Mask.Validate(); err != nil {
		return &ConfigError{Field: "mask", Value: c.Mask, Reason: "rejected", Err: err}
	}
	if !probability(c.PDeath) {
		return &ConfigError{Field: "p_death", Value: c.PDeath, Reason: "must be in [0,1]"}
	}
	if c.SacrificeN < 0 || c.SacrificeN > maxNeighbors {
		return &ConfigError{Field: "sacrifice_n", Value: c.SacrificeN, Reason: "must be in [0,8]"}
	}
	if !probability(c.Selfishness) {
		return &ConfigError{Field: "selfishness", Value: c.Selfishness, Reason: "must be in [0,1]"}
	}
	if c.KillRing != 4 && c.KillRing != 8 {
		return &ConfigError{Field: "kill_ring", Value: c.KillRing, Reason: "must be 4 or 8"}
	}
	if c.AggressiveThreshold != 3 && c.AggressiveThreshold != 4 {
		return &ConfigError{Field: "aggressive_threshold", Value: c.AggressiveThreshold, Reason: "must be 3 or 4"}
	}
	return nil
}

func probability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}
