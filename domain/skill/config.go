package skill

import (
	"errors"
	"fmt"
)

// Step grants Value once the skill level reaches Level.
type Step struct {
	Level int     `yaml:"level"`
	Value float64 `yaml:"value"`
}

// Config holds the bonus curve and ability thresholds.
type Config struct {
	LinearFactor      float64 `yaml:"linear_factor"`
	ExponentialFactor float64 `yaml:"exponential_factor"`
	Exponent          float64 `yaml:"exponent"`
	MaxBonus          float64 `yaml:"max_bonus"`
	MaxSynergy        float64 `yaml:"max_synergy"`
	MaxTalentBonus    float64 `yaml:"max_talent_bonus"`

	RerollLevels      []int  `yaml:"reroll_levels"`
	PeekLevels        []int  `yaml:"peek_levels"`
	EarlyFinishLevel  int    `yaml:"early_finish_level"`
	DangerAvoidSteps  []Step `yaml:"danger_avoid_steps"`
	CardCountingSteps []Step `yaml:"card_counting_steps"`
}

// DefaultConfig returns the shipped balance.
func DefaultConfig() Config {
	return Config{
		LinearFactor:      0.18,
		ExponentialFactor: 0.06,
		Exponent:          1.2,
		MaxBonus:          30,
		MaxSynergy:        1.5,
		MaxTalentBonus:    10,
		RerollLevels:      []int{30, 60, 90},
		PeekLevels:        []int{50, 80},
		EarlyFinishLevel:  40,
		DangerAvoidSteps: []Step{
			{Level: 25, Value: 0.10},
			{Level: 50, Value: 0.20},
			{Level: 75, Value: 0.30},
			{Level: 95, Value: 0.40},
		},
		CardCountingSteps: []Step{
			{Level: 35, Value: 0.05},
			{Level: 70, Value: 0.10},
		},
	}
}

// Validate reports every inconsistency in the configuration.
func (c Config) Validate() error {
	var errs []error
	if c.LinearFactor < 0 || c.ExponentialFactor < 0 {
		errs = append(errs, fmt.Errorf("bonus factors must not be negative"))
	}
	if c.Exponent < 1 {
		errs = append(errs, fmt.Errorf("exponent must be at least 1, got %v", c.Exponent))
	}
	if c.MaxBonus <= 0 {
		errs = append(errs, fmt.Errorf("max_bonus must be positive"))
	}
	if c.MaxSynergy < 1 {
		errs = append(errs, fmt.Errorf("max_synergy must be at least 1"))
	}
	if c.MaxTalentBonus < 0 {
		errs = append(errs, fmt.Errorf("max_talent_bonus must not be negative"))
	}
	if err := ascendingLevels("reroll_levels", c.RerollLevels); err != nil {
		errs = append(errs, err)
	}
	if err := ascendingLevels("peek_levels", c.PeekLevels); err != nil {
		errs = append(errs, err)
	}
	if err := ascendingSteps("danger_avoid_steps", c.DangerAvoidSteps, 1); err != nil {
		errs = append(errs, err)
	}
	if err := ascendingSteps("card_counting_steps", c.CardCountingSteps, 1); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func ascendingLevels(name string, levels []int) error {
	for i, l := range levels {
		if l < 0 || l > MaxLevel {
			return fmt.Errorf("%s[%d]: level %d out of range", name, i, l)
		}
		if i > 0 && l <= levels[i-1] {
			return fmt.Errorf("%s must be strictly ascending", name)
		}
	}
	return nil
}

func ascendingSteps(name string, steps []Step, maxValue float64) error {
	for i, s := range steps {
		if s.Level < 0 || s.Level > MaxLevel {
			return fmt.Errorf("%s[%d]: level %d out of range", name, i, s.Level)
		}
		if s.Value < 0 || s.Value > maxValue {
			return fmt.Errorf("%s[%d]: value %v out of range", name, i, s.Value)
		}
		if i > 0 && (s.Level <= steps[i-1].Level || s.Value < steps[i-1].Value) {
			return fmt.Errorf("%s must ascend in level and value", name)
		}
	}
	return nil
}
