package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/luca-patrignani/action-cards/domain/game"
	"github.com/luca-patrignani/action-cards/domain/skill"
	"github.com/luca-patrignani/action-cards/domain/wager"
	"gopkg.in/yaml.v3"
)

// Balance groups every tunable of the engine.
type Balance struct {
	Skill skill.Config `yaml:"skill"`
	Games game.Config  `yaml:"games"`
	Wager wager.Config `yaml:"wager"`
	// SkillSuits names the relevant suit of each character skill.
	SkillSuits map[string]deck.Suit `yaml:"skill_suits"`
}

// DefaultBalance returns the shipped balance.
func DefaultBalance() Balance {
	return Balance{
		Skill: skill.DefaultConfig(),
		Games: game.DefaultConfig(),
		Wager: wager.DefaultConfig(),
		SkillSuits: map[string]deck.Suit{
			"combat":   deck.Spade,
			"crime":    deck.Club,
			"charisma": deck.Heart,
			"trade":    deck.Diamond,
		},
	}
}

// SuitFor returns the relevant suit of a skill, defaulting to spades.
func (b Balance) SuitFor(skillName string) deck.Suit {
	if s, ok := b.SkillSuits[strings.ToLower(skillName)]; ok {
		return s
	}
	return deck.Spade
}

// Validate reports every inconsistency in the balance.
func (b Balance) Validate() error {
	var errs []error
	if err := b.Skill.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("skill: %w", err))
	}
	if err := b.Games.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("games: %w", err))
	}
	if err := b.Wager.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("wager: %w", err))
	}
	return errors.Join(errs...)
}

// LoadBalance reads a YAML balance file over the defaults. An empty path
// returns the defaults.
func LoadBalance(path string) (Balance, error) {
	b := DefaultBalance()
	if strings.TrimSpace(path) == "" {
		return b, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Balance{}, fmt.Errorf("read balance: %w", err)
	}
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Balance{}, fmt.Errorf("unmarshal balance: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Balance{}, fmt.Errorf("invalid balance %s: %w", path, err)
	}
	return b, nil
}
