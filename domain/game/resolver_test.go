package game

import (
	"testing"

	"github.com/luca-patrignani/action-cards/domain/deck"
	apperrors "github.com/luca-patrignani/action-cards/errors"
)

func TestRegistryIsClosed(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	for _, typ := range []Type{TypeDrawPoker, TypeBlackjack, TypePressLuck, TypeDeckbuilder, TypeCombatDuel} {
		r, err := reg.Lookup(typ)
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		if r.Type() != typ {
			t.Fatalf("expected %s, got %s", typ, r.Type())
		}
	}
	if len(reg.Types()) != 5 {
		t.Fatalf("expected 5 game types, got %v", reg.Types())
	}
	_, err := reg.Lookup("war")
	if !apperrors.HasCode(err, apperrors.CodeUnsupportedGameType) {
		t.Fatalf("expected unsupported game type, got %v", err)
	}
}

func TestInitKeepsDeckAccounting(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	for _, typ := range reg.Types() {
		r, _ := reg.Lookup(typ)
		s, err := r.Init(params(t, 50, orderedSource{}))
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		if err := checkAccounting(s); err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		if s.Status != StatusInProgress || s.GameType != typ {
			t.Fatalf("%s: unexpected header %s/%s", typ, s.Status, s.GameType)
		}
	}
}

func TestInitRequiresRandomSource(t *testing.T) {
	r, _ := NewRegistry(DefaultConfig()).Lookup(TypeDrawPoker)
	p := params(t, 10, nil)
	p.Random = nil
	if _, err := r.Init(p); err == nil {
		t.Fatal("expected error without a random source")
	}
}

func TestWrongVariantIsInvariantViolation(t *testing.T) {
	_, s := initGame(t, TypeDrawPoker, 10)
	r, _ := NewRegistry(DefaultConfig()).Lookup(TypeBlackjack)
	if _, err := r.Apply(s, Action{Type: ActionHit}, orderedSource{}); !apperrors.HasCode(err, apperrors.CodeInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestScoringTargetAndHint(t *testing.T) {
	sc := DefaultConfig().Scoring
	if sc.Target(5) != 45 || sc.Target(10) != 70 {
		t.Fatalf("unexpected targets %v %v", sc.Target(5), sc.Target(10))
	}
	if h := sc.hint(80, 45, true); h.Grade != GradeCritical {
		t.Fatalf("expected critical, got %v", h.Grade)
	}
	if h := sc.hint(56, 45, true); h.Grade != GradeMajor {
		t.Fatalf("expected major, got %v", h.Grade)
	}
	if h := sc.hint(46, 45, true); h.Grade != GradeMinor {
		t.Fatalf("expected minor, got %v", h.Grade)
	}
	if h := sc.hint(90, 45, false); h.Grade != GradeNone {
		t.Fatalf("failures grade none, got %v", h.Grade)
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Duel.Rounds = 9
	cfg.Deckbuilder.MaxHand = 9
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure")
	}
}

// walkAction fills in a payload for t that the resolver should accept.
func walkAction(t ActionType, s State, src deck.RandomSource) Action {
	a := Action{Type: t}
	n := len(s.Hand)
	switch t {
	case ActionHold:
		for i := 0; i < n; i++ {
			if src.Intn(2) == 0 {
				a.Indices = append(a.Indices, i)
			}
		}
	case ActionDiscard, ActionReroll:
		if n > 0 {
			a.Indices = []int{src.Intn(n)}
		}
	case ActionAssign:
		k := 1 + src.Intn(n-1)
		for i := 0; i < n; i++ {
			if i < k {
				a.Attack = append(a.Attack, i)
			} else {
				a.Defense = append(a.Defense, i)
			}
		}
	}
	return a
}

func TestOpenGamesAlwaysOfferAMove(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	for _, typ := range reg.Types() {
		r, _ := reg.Lookup(typ)
		for _, level := range []int{0, 35, 60, 100} {
			for seed := uint64(1); seed <= 40; seed++ {
				src := deck.NewSeededSource(seed)
				s, err := r.Init(params(t, level, src))
				if err != nil {
					t.Fatalf("%s level %d: %v", typ, level, err)
				}
				for step := 0; step < 30 && !r.IsTerminal(s); step++ {
					actions := r.Actions(s)
					if len(actions) == 0 {
						t.Fatalf("%s level %d seed %d: open game with no move after %d steps (turns left %d)",
							typ, level, seed, step, r.TurnsRemaining(s))
					}
					applied := false
					start := src.Intn(len(actions))
					for i := range actions {
						next, err := r.Apply(s, walkAction(actions[(start+i)%len(actions)], s, src), src)
						if err == nil {
							s, applied = next, true
							break
						}
					}
					if !applied {
						t.Fatalf("%s level %d seed %d: every offered move %v was rejected", typ, level, seed, actions)
					}
				}
			}
		}
	}
}
