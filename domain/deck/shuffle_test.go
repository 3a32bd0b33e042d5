package deck

import "testing"

func TestShuffleIsPermutation(t *testing.T) {
	src := NewSecureSource()
	for i := 0; i < 20; i++ {
		shuffled := NewShuffledDeck(src)
		if len(shuffled) != Size {
			t.Fatalf("expected %d cards, got %d", Size, len(shuffled))
		}
		if err := CheckAccounting(shuffled); err != nil {
			t.Fatal(err)
		}
	}
}

func TestShuffleLeavesInputUntouched(t *testing.T) {
	d := NewOrderedDeck()
	_ = Shuffle(d, NewSeededSource(1))
	for i, c := range NewOrderedDeck() {
		if d[i] != c {
			t.Fatalf("input modified at %d", i)
		}
	}
}

func TestSeededShuffleIsDeterministic(t *testing.T) {
	a := NewShuffledDeck(NewSeededSource(42))
	b := NewShuffledDeck(NewSeededSource(42))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seeded shuffles differ at %d", i)
		}
	}
}

// Every card should land in position 0 roughly 1/52 of the time.
func TestShufflePositionalUniformity(t *testing.T) {
	const trials = 52 * 400
	src := NewSecureSource()
	counts := make(map[Card]int, Size)
	for i := 0; i < trials; i++ {
		counts[NewShuffledDeck(src)[0]]++
	}
	expected := float64(trials) / Size
	chi := 0.0
	for _, c := range NewOrderedDeck() {
		diff := float64(counts[c]) - expected
		chi += diff * diff / expected
	}
	// 51 degrees of freedom; 110 is far past the 99.99th percentile.
	if chi > 110 {
		t.Fatalf("first position not uniform: chi-square %.1f", chi)
	}
}

func TestSecureSourceBounds(t *testing.T) {
	src := NewSecureSource()
	for i := 0; i < 1000; i++ {
		if v := src.Intn(7); v < 0 || v >= 7 {
			t.Fatalf("Intn out of range: %d", v)
		}
		if f := src.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %f", f)
		}
	}
}
