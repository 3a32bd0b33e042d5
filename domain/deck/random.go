package deck

import (
	"crypto/cipher"
	"encoding/binary"
	"math/rand/v2"
	"sync"

	"go.dedis.ch/kyber/v4/suites"
)

var suite suites.Suite = suites.MustFind("Ed25519")

// RandomSource supplies the randomness consumed by shuffles and skill rolls.
type RandomSource interface {
	// Intn returns a uniform integer in [0, n). It panics if n <= 0.
	Intn(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// SecureSource draws from the Ed25519 suite's random stream, which is keyed
// from the operating system's CSPRNG.
type SecureSource struct {
	mu     sync.Mutex
	stream cipher.Stream
	buf    [8]byte
}

// NewSecureSource returns the production random source.
func NewSecureSource() *SecureSource {
	return &SecureSource{stream: suite.RandomStream()}
}

func (s *SecureSource) uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.buf[:])
	s.stream.XORKeyStream(s.buf[:], s.buf[:])
	return binary.LittleEndian.Uint64(s.buf[:])
}

// Intn uses rejection sampling so every value in [0, n) is equally likely.
func (s *SecureSource) Intn(n int) int {
	if n <= 0 {
		panic("deck: invalid argument to Intn")
	}
	bound := uint64(n)
	limit := ^uint64(0) - (^uint64(0) % bound)
	for {
		v := s.uint64()
		if v < limit {
			return int(v % bound)
		}
	}
}

// Float64 returns 53 random bits scaled into [0, 1).
func (s *SecureSource) Float64() float64 {
	return float64(s.uint64()>>11) / (1 << 53)
}

// SeededSource is a deterministic source for tests and replays. It must never
// back a live session.
type SeededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a PCG backed source.
func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

func (s *SeededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}
