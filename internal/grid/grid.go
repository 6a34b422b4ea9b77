// internal/grid/grid.go
//
// Letter grid construction for a round.
//
// The grid holds every distinct unit of the target word exactly once plus
// distractor letters from the language's alphabet, shuffled together.
//
// Algorithm:
//   1. Collapse the target to its distinct units (a repeated letter gets one slot).
//   2. Candidates = alphabet letters not in that set (deduplicated).
//   3. Shuffle the candidates.
//   4. Take max(0, size - |set|) of them; fewer is fine for small alphabets.
//   5. Shuffle target set + distractors together.
//
// Randomness is injected so tests can reproduce a grid from a seed.

package grid

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// DefaultSize fills a 3x4 board.
const DefaultSize = 12

// Shuffler is satisfied by *rand.Rand.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Build returns the shuffled grid for target using distractors from alphabet.
func Build(target []string, alphabet []string, size int, rng Shuffler) []string {
	set := distinct(target)
	seen := make(map[string]struct{}, len(set)+len(alphabet))
	for _, u := range set {
		seen[u] = struct{}{}
	}

	candidates := make([]string, 0, len(alphabet))
	for _, letter := range alphabet {
		if _, ok := seen[letter]; ok {
			continue
		}
		seen[letter] = struct{}{}
		candidates = append(candidates, letter)
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	needed := max(0, size-len(set))
	needed = min(needed, len(candidates))

	out := make([]string, 0, len(set)+needed)
	out = append(out, set...)
	out = append(out, candidates[:needed]...)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// distinct keeps the first occurrence of each unit, in order.
func distinct(units []string) []string {
	seen := make(map[string]struct{}, len(units))
	out := make([]string, 0, len(units))
	for _, u := range units {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// NewRand returns a deterministic source for reproducible grids.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSecureRand returns a ChaCha8 source seeded from crypto/rand.
func NewSecureRand() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		binary.LittleEndian.PutUint64(seed[:], rand.Uint64())
	}
	return rand.New(rand.NewChaCha8(seed))
}
