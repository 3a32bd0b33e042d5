// Package skill converts a character's skill level into the numeric bonus and
// the special abilities that weight a card minigame.
package skill

import (
	"fmt"
	"math"

	apperrors "github.com/luca-patrignani/action-cards/errors"
)

const (
	MaxLevel      = 100
	MinDifficulty = 1
	MaxDifficulty = 10
)

// Params are the inputs of a modifier computation.
type Params struct {
	SkillLevel    int       `json:"skill_level"`
	Difficulty    int       `json:"difficulty"`
	TalentBonuses []float64 `json:"talent_bonuses,omitempty"`
	// SynergyMultiplier defaults to 1 when zero.
	SynergyMultiplier float64 `json:"synergy_multiplier,omitempty"`
}

// Abilities are the discrete powers unlocked by skill thresholds.
type Abilities struct {
	RerollsAvailable  int     `json:"rerolls_available"`
	PeeksAvailable    int     `json:"peeks_available"`
	CanEarlyFinish    bool    `json:"can_early_finish"`
	DangerAvoidChance float64 `json:"danger_avoid_chance"`
	CardCountingBonus float64 `json:"card_counting_bonus"`
}

// Modifiers is the outcome of Compute.
type Modifiers struct {
	LinearBonus      float64   `json:"linear_bonus"`
	ExponentialBonus float64   `json:"exponential_bonus"`
	TalentBonus      float64   `json:"talent_bonus"`
	Synergy          float64   `json:"synergy"`
	TotalBonus       float64   `json:"total_bonus"`
	Abilities        Abilities `json:"abilities"`
}

// Compute derives the modifiers for p. The total bonus is clamped to
// cfg.MaxBonus, synergy to [1, cfg.MaxSynergy] and summed talents to
// cfg.MaxTalentBonus.
func Compute(cfg Config, p Params) (Modifiers, error) {
	if p.SkillLevel < 0 || p.SkillLevel > MaxLevel {
		return Modifiers{}, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("skill level %d outside [0, %d]", p.SkillLevel, MaxLevel))
	}
	if p.Difficulty < MinDifficulty || p.Difficulty > MaxDifficulty {
		return Modifiers{}, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("difficulty %d outside [%d, %d]", p.Difficulty, MinDifficulty, MaxDifficulty))
	}
	if p.SynergyMultiplier < 0 {
		return Modifiers{}, apperrors.New(apperrors.CodeValidation, "synergy multiplier must not be negative")
	}

	level := float64(p.SkillLevel)
	m := Modifiers{
		LinearBonus:      level * cfg.LinearFactor,
		ExponentialBonus: math.Pow(level, cfg.Exponent) * cfg.ExponentialFactor,
	}
	for _, b := range p.TalentBonuses {
		if b > 0 {
			m.TalentBonus += b
		}
	}
	m.TalentBonus = math.Min(m.TalentBonus, cfg.MaxTalentBonus)

	m.Synergy = p.SynergyMultiplier
	if m.Synergy == 0 {
		m.Synergy = 1
	}
	m.Synergy = clamp(m.Synergy, 1, cfg.MaxSynergy)

	m.TotalBonus = clamp((m.LinearBonus+m.ExponentialBonus+m.TalentBonus)*m.Synergy, 0, cfg.MaxBonus)
	m.Abilities = abilitiesFor(cfg, p.SkillLevel)
	return m, nil
}

func abilitiesFor(cfg Config, level int) Abilities {
	return Abilities{
		RerollsAvailable:  reached(cfg.RerollLevels, level),
		PeeksAvailable:    reached(cfg.PeekLevels, level),
		CanEarlyFinish:    cfg.EarlyFinishLevel > 0 && level >= cfg.EarlyFinishLevel,
		DangerAvoidChance: stepValue(cfg.DangerAvoidSteps, level),
		CardCountingBonus: stepValue(cfg.CardCountingSteps, level),
	}
}

func reached(levels []int, level int) int {
	n := 0
	for _, l := range levels {
		if level >= l {
			n++
		}
	}
	return n
}

func stepValue(steps []Step, level int) float64 {
	v := 0.0
	for _, s := range steps {
		if level >= s.Level {
			v = s.Value
		}
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
