package cmd

import (
	"log/slog"
	"math/rand/v2"
)

// newRand returns the run's single random source. A zero seed is replaced by
// a random one, which is logged so that the run can be replayed.
func newRand(seed uint64) (*rand.Rand, uint64) {
	if seed == 0 {
		seed = rand.Uint64() | 1
		slog.Info("using random seed", "seed", seed)
	}
	return rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)), seed
}
