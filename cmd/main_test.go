package main

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/action-cards/domain/deck"
	apperrors "github.com/luca-patrignani/action-cards/errors"
)

func TestCardLabelsAreDistinct(t *testing.T) {
	cards := []deck.Card{{}, {}, {Rank: deck.Ace, Suit: deck.Spade}}
	labels := cardLabels(cards)
	if labels[0] == labels[1] {
		t.Fatalf("face down labels collide: %q", labels[0])
	}
	if !strings.HasPrefix(labels[2], "3: A") {
		t.Fatalf("label = %q", labels[2])
	}
}

func TestIndicesOf(t *testing.T) {
	options := []string{"1: a", "2: b", "3: c", "4: d"}
	got := indicesOf(options, []string{"4: d", "2: b"})
	if !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("indices = %v", got)
	}
	if got := indicesOf(options, nil); len(got) != 0 {
		t.Fatalf("indices = %v, want none", got)
	}
}

func TestComplement(t *testing.T) {
	if got := complement(5, []int{0, 3}); !reflect.DeepEqual(got, []int{1, 2, 4}) {
		t.Fatalf("complement = %v", got)
	}
	if got := complement(3, []int{0, 1, 2}); len(got) != 0 {
		t.Fatalf("complement = %v, want empty", got)
	}
}

func TestPtermLevel(t *testing.T) {
	tests := map[slog.Level]pterm.LogLevel{
		slog.LevelDebug: pterm.LogLevelDebug,
		slog.LevelInfo:  pterm.LogLevelInfo,
		slog.LevelWarn:  pterm.LogLevelWarn,
		slog.LevelError: pterm.LogLevelError,
	}
	for in, want := range tests {
		if got := ptermLevel(in); got != want {
			t.Fatalf("ptermLevel(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestDescribeError(t *testing.T) {
	err := apperrors.New(apperrors.CodeValidation, "bad index")
	if got := describeError(err); got != "[InvalidArgument VALIDATION] bad index" {
		t.Fatalf("describe = %q", got)
	}
	wrapped := fmt.Errorf("submit action: %w", apperrors.New(apperrors.CodeSessionTerminal, "session s-1 is won"))
	if got := describeError(wrapped); got != "[FailedPrecondition SESSION_TERMINAL] submit action: session s-1 is won" {
		t.Fatalf("describe = %q", got)
	}
	if got := describeError(errors.New("disk full")); got != "disk full" {
		t.Fatalf("describe = %q", got)
	}
}
