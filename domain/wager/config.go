package wager

import (
	"errors"
	"fmt"
)

// Tier bounds a stake and scales its payout.
type Tier struct {
	ID         string  `yaml:"id"`
	MinStake   int64   `yaml:"min_stake"`
	MaxStake   int64   `yaml:"max_stake"`
	Multiplier float64 `yaml:"multiplier"`
}

// Config holds payout and streak parameters.
type Config struct {
	DefaultTier     string  `yaml:"default_tier"`
	Tiers           []Tier  `yaml:"tiers"`
	RiskStep        float64 `yaml:"risk_step"`
	StreakStep      float64 `yaml:"streak_step"`
	MaxStreak       int     `yaml:"max_streak"`
	BailOutFraction float64 `yaml:"bail_out_fraction"`
}

// DefaultConfig returns the shipped wagering balance.
func DefaultConfig() Config {
	return Config{
		DefaultTier: "copper",
		Tiers: []Tier{
			{ID: "copper", MinStake: 10, MaxStake: 100, Multiplier: 1.0},
			{ID: "silver", MinStake: 100, MaxStake: 1000, Multiplier: 1.1},
			{ID: "gold", MinStake: 1000, MaxStake: 10000, Multiplier: 1.25},
		},
		RiskStep:        0.1,
		StreakStep:      0.1,
		MaxStreak:       5,
		BailOutFraction: 0.5,
	}
}

// Tier returns the tier with id, or the default tier when id is empty.
func (c Config) Tier(id string) (Tier, bool) {
	if id == "" {
		id = c.DefaultTier
	}
	for _, t := range c.Tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

// Validate reports every inconsistency in the configuration.
func (c Config) Validate() error {
	var errs []error
	ids := make(map[string]bool, len(c.Tiers))
	for i, t := range c.Tiers {
		if t.ID == "" {
			errs = append(errs, fmt.Errorf("tiers[%d]: id is required", i))
		}
		if ids[t.ID] {
			errs = append(errs, fmt.Errorf("tiers[%d]: duplicate id %q", i, t.ID))
		}
		ids[t.ID] = true
		if t.MinStake <= 0 || t.MaxStake < t.MinStake {
			errs = append(errs, fmt.Errorf("tiers[%d]: invalid stake bounds %d..%d", i, t.MinStake, t.MaxStake))
		}
		if t.Multiplier <= 0 {
			errs = append(errs, fmt.Errorf("tiers[%d]: multiplier must be positive", i))
		}
	}
	if _, ok := c.Tier(c.DefaultTier); !ok {
		errs = append(errs, fmt.Errorf("default tier %q is not defined", c.DefaultTier))
	}
	if c.RiskStep < 0 || c.StreakStep < 0 || c.MaxStreak < 0 {
		errs = append(errs, fmt.Errorf("risk and streak parameters must not be negative"))
	}
	if c.BailOutFraction <= 0 || c.BailOutFraction > 1 {
		errs = append(errs, fmt.Errorf("bail_out_fraction must be in (0, 1], got %v", c.BailOutFraction))
	}
	return errors.Join(errs...)
}
