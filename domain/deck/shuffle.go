package deck

// Shuffle returns a uniformly random permutation of cards using the
// Fisher–Yates algorithm driven by src. The input is left untouched.
func Shuffle(cards []Card, src RandomSource) []Card {
	out := append([]Card(nil), cards...)
	for i := len(out) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// NewShuffledDeck is NewOrderedDeck followed by Shuffle.
func NewShuffledDeck(src RandomSource) []Card {
	return Shuffle(NewOrderedDeck(), src)
}
