package wager

import (
	"testing"

	apperrors "github.com/luca-patrignani/action-cards/errors"
)

func TestStakeValidation(t *testing.T) {
	cfg := DefaultConfig()
	s, err := Stake{Amount: 50}.Validate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if s.Tier != "copper" {
		t.Fatalf("expected default tier, got %q", s.Tier)
	}
	if _, err := (Stake{Amount: 5, Tier: "copper"}).Validate(cfg); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := (Stake{Amount: 50, Tier: "platinum"}).Validate(cfg); err == nil {
		t.Fatal("unknown tier must be rejected")
	}
}

func TestPayoutScalesWithRiskAndStreak(t *testing.T) {
	cfg := DefaultConfig()
	s := Stake{Amount: 100, Tier: "copper"}
	base := Payout(cfg, s, 0, true, 0)
	if base != 100 {
		t.Fatalf("expected 100, got %d", base)
	}
	if got := Payout(cfg, s, 5, true, 0); got != 150 {
		t.Fatalf("expected 150 at difficulty 5, got %d", got)
	}
	if got := Payout(cfg, s, 0, true, 2); got != 120 {
		t.Fatalf("expected 120 on a two win streak, got %d", got)
	}
	if got := Payout(cfg, s, 10, false, 4); got != 0 {
		t.Fatalf("failures pay nothing, got %d", got)
	}
}

func TestStreakCapsAndResets(t *testing.T) {
	cfg := DefaultConfig()
	if StreakMultiplier(cfg, 50) != StreakMultiplier(cfg, cfg.MaxStreak) {
		t.Fatal("streak multiplier must be capped")
	}
	if NextStreak(3, true) != 4 || NextStreak(3, false) != 0 {
		t.Fatal("unexpected streak progression")
	}
}

func TestBailOut(t *testing.T) {
	cfg := DefaultConfig()
	if got := BailOut(cfg, 200, 2); got != 100 {
		t.Fatalf("expected half payout, got %d", got)
	}
	if got := BailOut(cfg, 200, 0); got != 200 {
		t.Fatalf("final turn bail-out must pay in full, got %d", got)
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.BailOutFraction = 2
	cfg.DefaultTier = "missing"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure")
	}
}
