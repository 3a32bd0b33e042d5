package game

import (
	"errors"
	"fmt"

	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/luca-patrignani/action-cards/domain/poker"
)

// CategoryPoints is the raw score of each poker category.
type CategoryPoints struct {
	RoyalFlush    float64 `yaml:"royal_flush"`
	StraightFlush float64 `yaml:"straight_flush"`
	FourOfAKind   float64 `yaml:"four_of_a_kind"`
	FullHouse     float64 `yaml:"full_house"`
	Flush         float64 `yaml:"flush"`
	Straight      float64 `yaml:"straight"`
	ThreeOfAKind  float64 `yaml:"three_of_a_kind"`
	TwoPair       float64 `yaml:"two_pair"`
	OnePair       float64 `yaml:"one_pair"`
	HighCard      float64 `yaml:"high_card"`
}

// Points returns the raw score for c.
func (p CategoryPoints) Points(c poker.Category) float64 {
	switch c {
	case poker.RoyalFlush:
		return p.RoyalFlush
	case poker.StraightFlush:
		return p.StraightFlush
	case poker.FourOfAKind:
		return p.FourOfAKind
	case poker.FullHouse:
		return p.FullHouse
	case poker.Flush:
		return p.Flush
	case poker.Straight:
		return p.Straight
	case poker.ThreeOfAKind:
		return p.ThreeOfAKind
	case poker.TwoPair:
		return p.TwoPair
	case poker.OnePair:
		return p.OnePair
	default:
		return p.HighCard
	}
}

// Scoring turns raw game scores into results.
type Scoring struct {
	TargetBase         float64        `yaml:"target_base"`
	TargetStep         float64        `yaml:"target_step"`
	SuitMatchPoints    float64        `yaml:"suit_match_points"`
	CardCountingPoints float64        `yaml:"card_counting_points"`
	MajorMargin        float64        `yaml:"major_margin"`
	CriticalMargin     float64        `yaml:"critical_margin"`
	Categories         CategoryPoints `yaml:"categories"`
}

// Target is the score needed to succeed at difficulty.
func (s Scoring) Target(difficulty int) float64 {
	return s.TargetBase + float64(difficulty)*s.TargetStep
}

type DrawPokerConfig struct {
	BaseDrawRounds int `yaml:"base_draw_rounds"`
}

type BlackjackConfig struct {
	DealerStandsOn int     `yaml:"dealer_stands_on"`
	NaturalPoints  float64 `yaml:"natural_points"`
	WinPoints      float64 `yaml:"win_points"`
	DoubledPoints  float64 `yaml:"doubled_points"`
	PushPoints     float64 `yaml:"push_points"`
}

type PressLuckConfig struct {
	MaxDraws       int         `yaml:"max_draws"`
	DangerRanks    []deck.Rank `yaml:"danger_ranks"`
	PointsPerValue float64     `yaml:"points_per_value"`
}

type DeckbuilderConfig struct {
	InitialHand int `yaml:"initial_hand"`
	MaxHand     int `yaml:"max_hand"`
	Draws       int `yaml:"draws"`
	Discards    int `yaml:"discards"`
}

type DuelConfig struct {
	Rounds           int     `yaml:"rounds"`
	HitPoints        int     `yaml:"hit_points"`
	HandBonus        int     `yaml:"hand_bonus"`
	SkillEdgeDivisor float64 `yaml:"skill_edge_divisor"`
	OpponentAttack   int     `yaml:"opponent_attack"`
}

// Config is the balance of every minigame.
type Config struct {
	Scoring     Scoring           `yaml:"scoring"`
	DrawPoker   DrawPokerConfig   `yaml:"draw_poker"`
	Blackjack   BlackjackConfig   `yaml:"blackjack"`
	PressLuck   PressLuckConfig   `yaml:"press_your_luck"`
	Deckbuilder DeckbuilderConfig `yaml:"deckbuilder"`
	Duel        DuelConfig        `yaml:"combat_duel"`
}

// DefaultConfig returns the shipped balance.
func DefaultConfig() Config {
	return Config{
		Scoring: Scoring{
			TargetBase:         20,
			TargetStep:         5,
			SuitMatchPoints:    2,
			CardCountingPoints: 100,
			MajorMargin:        10,
			CriticalMargin:     25,
			Categories: CategoryPoints{
				RoyalFlush:    100,
				StraightFlush: 95,
				FourOfAKind:   88,
				FullHouse:     75,
				Flush:         65,
				Straight:      60,
				ThreeOfAKind:  50,
				TwoPair:       35,
				OnePair:       20,
				HighCard:      5,
			},
		},
		DrawPoker: DrawPokerConfig{BaseDrawRounds: 1},
		Blackjack: BlackjackConfig{
			DealerStandsOn: 17,
			NaturalPoints:  100,
			WinPoints:      80,
			DoubledPoints:  90,
			PushPoints:     45,
		},
		PressLuck: PressLuckConfig{
			MaxDraws:       8,
			DangerRanks:    []deck.Rank{deck.Jack, deck.Queen, deck.King},
			PointsPerValue: 2,
		},
		Deckbuilder: DeckbuilderConfig{InitialHand: 5, MaxHand: 7, Draws: 4, Discards: 2},
		Duel: DuelConfig{
			Rounds:           3,
			HitPoints:        30,
			HandBonus:        4,
			SkillEdgeDivisor: 10,
			OpponentAttack:   3,
		},
	}
}

// Validate reports every inconsistency in the configuration.
func (c Config) Validate() error {
	var errs []error
	if c.Scoring.TargetStep < 0 {
		errs = append(errs, fmt.Errorf("scoring.target_step must not be negative"))
	}
	if c.DrawPoker.BaseDrawRounds < 1 {
		errs = append(errs, fmt.Errorf("draw_poker.base_draw_rounds must be at least 1"))
	}
	if c.Blackjack.DealerStandsOn < 12 || c.Blackjack.DealerStandsOn > 21 {
		errs = append(errs, fmt.Errorf("blackjack.dealer_stands_on must be in [12, 21]"))
	}
	if c.PressLuck.MaxDraws < 1 || c.PressLuck.MaxDraws > 40 {
		errs = append(errs, fmt.Errorf("press_your_luck.max_draws must be in [1, 40]"))
	}
	for _, r := range c.PressLuck.DangerRanks {
		if r < 2 || r > deck.Ace {
			errs = append(errs, fmt.Errorf("press_your_luck.danger_ranks: invalid rank %d", r))
		}
	}
	db := c.Deckbuilder
	if db.InitialHand < 1 || db.MaxHand < 5 || db.MaxHand > 7 || db.InitialHand > db.MaxHand {
		errs = append(errs, fmt.Errorf("deckbuilder: hand sizes must satisfy 1 <= initial_hand <= max_hand, 5 <= max_hand <= 7"))
	}
	if db.Draws < 0 || db.Discards < 0 {
		errs = append(errs, fmt.Errorf("deckbuilder: draws and discards must not be negative"))
	}
	d := c.Duel
	// Each round deals ten cards; rerolls need spare cards too.
	if d.Rounds < 1 || d.Rounds > 4 {
		errs = append(errs, fmt.Errorf("combat_duel.rounds must be in [1, 4]"))
	}
	if d.HitPoints < 1 {
		errs = append(errs, fmt.Errorf("combat_duel.hit_points must be positive"))
	}
	if d.SkillEdgeDivisor <= 0 {
		errs = append(errs, fmt.Errorf("combat_duel.skill_edge_divisor must be positive"))
	}
	if d.OpponentAttack < 1 || d.OpponentAttack > 4 {
		errs = append(errs, fmt.Errorf("combat_duel.opponent_attack must be in [1, 4]"))
	}
	return errors.Join(errs...)
}
