// Package wager prices staked minigames: tiered stakes, difficulty scaled
// payouts, hot streak multipliers and the bail-out option.
package wager

import (
	"fmt"
	"math"

	apperrors "github.com/luca-patrignani/action-cards/errors"
)

// Stake is the amount put at risk on a session.
type Stake struct {
	Amount int64  `json:"amount"`
	Tier   string `json:"tier"`
}

// Validate checks the stake against its tier and fills in the default tier.
func (s Stake) Validate(cfg Config) (Stake, error) {
	tier, ok := cfg.Tier(s.Tier)
	if !ok {
		return s, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unknown bet tier %q", s.Tier))
	}
	if s.Amount < tier.MinStake || s.Amount > tier.MaxStake {
		return s, apperrors.WithMetadata(apperrors.CodeValidation,
			fmt.Sprintf("stake %d outside tier %s bounds", s.Amount, tier.ID),
			map[string]string{"tier": tier.ID})
	}
	s.Tier = tier.ID
	return s, nil
}

// StreakMultiplier is the hot streak bonus applied to a win that extends a
// run of streak consecutive wins.
func StreakMultiplier(cfg Config, streak int) float64 {
	if streak < 0 {
		streak = 0
	}
	if streak > cfg.MaxStreak {
		streak = cfg.MaxStreak
	}
	return 1 + float64(streak)*cfg.StreakStep
}

// NextStreak advances the consecutive win counter.
func NextStreak(current int, success bool) int {
	if !success {
		return 0
	}
	return current + 1
}

// Payout returns the winnings for a settled stake. Failures pay nothing.
// streak is the number of consecutive wins before this one.
func Payout(cfg Config, s Stake, difficulty int, success bool, streak int) int64 {
	if !success {
		return 0
	}
	tier, ok := cfg.Tier(s.Tier)
	if !ok {
		return 0
	}
	risk := 1 + float64(difficulty)*cfg.RiskStep
	return int64(math.Round(float64(s.Amount) * tier.Multiplier * risk * StreakMultiplier(cfg, streak)))
}

// BailOut locks in part of a projected payout. With no turns remaining the
// bail-out is a normal settlement and pays in full.
func BailOut(cfg Config, projected int64, turnsRemaining int) int64 {
	if turnsRemaining <= 0 {
		return projected
	}
	return int64(math.Floor(float64(projected) * cfg.BailOutFraction))
}
