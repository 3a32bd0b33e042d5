package poker

import (
	"fmt"
	"sort"

	"github.com/luca-patrignani/action-cards/domain/deck"
)

// Category of a five card hand. Lower is better.
type Category int

const (
	RoyalFlush Category = iota + 1
	StraightFlush
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	OnePair
	HighCard
)

func (c Category) String() string {
	switch c {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush:
		return "Straight Flush"
	case FourOfAKind:
		return "Four of a Kind"
	case FullHouse:
		return "Full House"
	case Flush:
		return "Flush"
	case Straight:
		return "Straight"
	case ThreeOfAKind:
		return "Three of a Kind"
	case TwoPair:
		return "Two Pair"
	case OnePair:
		return "One Pair"
	case HighCard:
		return "High Card"
	default:
		return "Unknown"
	}
}

// Evaluation is the ranked value of the best five card hand.
type Evaluation struct {
	Category    Category    `json:"category"`
	Tiebreakers []int       `json:"tiebreakers"`
	Best        []deck.Card `json:"best"`
}

// Evaluate ranks 5 to 7 distinct cards.
func Evaluate(cards []deck.Card) (Evaluation, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return Evaluation{}, fmt.Errorf("cannot evaluate %d cards: need 5 to 7", len(cards))
	}
	seen := make(map[deck.Card]bool, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return Evaluation{}, fmt.Errorf("invalid card %+v", c)
		}
		if seen[c] {
			return Evaluation{}, fmt.Errorf("duplicate card %v", c)
		}
		seen[c] = true
	}

	var best Evaluation
	first := true
	forEachFive(cards, func(hand [5]deck.Card) {
		e := evaluateFive(hand)
		if first || Compare(e, best) > 0 {
			best = e
			first = false
		}
	})
	return best, nil
}

// Compare returns 1 if a beats b, -1 if b beats a, 0 on a tie.
func Compare(a, b Evaluation) int {
	if a.Category != b.Category {
		if a.Category < b.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(a.Tiebreakers) && i < len(b.Tiebreakers); i++ {
		if a.Tiebreakers[i] != b.Tiebreakers[i] {
			if a.Tiebreakers[i] > b.Tiebreakers[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

func forEachFive(cards []deck.Card, fn func([5]deck.Card)) {
	n := len(cards)
	var hand [5]deck.Card
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						hand = [5]deck.Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						fn(hand)
					}
				}
			}
		}
	}
}

type group struct {
	rank  int
	count int
}

func evaluateFive(hand [5]deck.Card) Evaluation {
	counts := make(map[int]int, 5)
	flush := true
	for i, c := range hand {
		counts[int(c.Rank)]++
		if i > 0 && c.Suit != hand[0].Suit {
			flush = false
		}
	}
	groups := make([]group, 0, len(counts))
	for r, n := range counts {
		groups = append(groups, group{rank: r, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	best := append([]deck.Card(nil), hand[:]...)
	sort.Slice(best, func(i, j int) bool { return best[i].Rank > best[j].Rank })

	straightHigh := 0
	if len(groups) == 5 {
		if groups[0].rank-groups[4].rank == 4 {
			straightHigh = groups[0].rank
		} else if groups[0].rank == int(deck.Ace) && groups[1].rank == 5 {
			straightHigh = 5
		}
	}

	switch {
	case flush && straightHigh == int(deck.Ace) && groups[4].rank == 10:
		return Evaluation{Category: RoyalFlush, Tiebreakers: []int{straightHigh}, Best: best}
	case flush && straightHigh > 0:
		return Evaluation{Category: StraightFlush, Tiebreakers: []int{straightHigh}, Best: best}
	case groups[0].count == 4:
		return Evaluation{Category: FourOfAKind, Tiebreakers: ranksOf(groups), Best: best}
	case groups[0].count == 3 && groups[1].count == 2:
		return Evaluation{Category: FullHouse, Tiebreakers: ranksOf(groups), Best: best}
	case flush:
		return Evaluation{Category: Flush, Tiebreakers: ranksOf(groups), Best: best}
	case straightHigh > 0:
		return Evaluation{Category: Straight, Tiebreakers: []int{straightHigh}, Best: best}
	case groups[0].count == 3:
		return Evaluation{Category: ThreeOfAKind, Tiebreakers: ranksOf(groups), Best: best}
	case groups[0].count == 2 && groups[1].count == 2:
		return Evaluation{Category: TwoPair, Tiebreakers: ranksOf(groups), Best: best}
	case groups[0].count == 2:
		return Evaluation{Category: OnePair, Tiebreakers: ranksOf(groups), Best: best}
	default:
		return Evaluation{Category: HighCard, Tiebreakers: ranksOf(groups), Best: best}
	}
}

func ranksOf(groups []group) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = g.rank
	}
	return out
}
