// Package dice implements the engine's randomness and the single-outstanding
// roll protocol used by attribute, attack, draw and spell-target rolls.
package dice

import (
	"encoding/binary"
	"math/rand/v2"

	"golang.org/x/crypto/blake2b"
)

// D20 is the die used by every check in the engine.
const D20 = 20

// Source produces uniform random integers.
type Source interface {
	// Intn returns a uniform integer in [0, n). n <= 0 returns 0.
	Intn(n int) int
}

// Roll returns a uniform integer in [1, sides] from src.
func Roll(src Source, sides int) int {
	if sides <= 1 {
		return 1
	}
	return src.Intn(sides) + 1
}

// RangeInclusive returns a uniform integer in [lo, hi].
func RangeInclusive(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// RandSource is a Source backed by a seeded PCG generator.
// Not safe for concurrent use; each match owns its own.
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource creates a RandSource from seed.
func NewRandSource(seed int64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

func (s *RandSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.IntN(n)
}

// DeriveSeed derives a per-match seed from a master seed so a whole batch is
// reproducible from one number while matches stay independent.
func DeriveSeed(master int64, index int) int64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(master))
	binary.LittleEndian.PutUint64(buf[8:], uint64(index))
	sum := blake2b.Sum256(buf[:])
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}
