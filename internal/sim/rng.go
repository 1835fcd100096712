package sim

import (
	"hash/fnv"
	"math/rand/v2"
)

// Rand derives independent, reproducible random streams from one world
// seed. Each named stream gets its own generator so that, say, loot rolls
// never perturb combat rolls between runs of the same seed.
type Rand struct {
	seed string
}

func NewRand(seed string) *Rand {
	return &Rand{seed: seed}
}

// Stream returns the generator for a label. Calling it twice with the
// same label yields two generators that produce identical sequences.
func (r *Rand) Stream(label string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(r.seed))
	h.Write([]byte{0})
	h.Write([]byte(label))
	s := h.Sum64()
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
