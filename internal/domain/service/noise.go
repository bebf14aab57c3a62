package service

import (
	"math/rand/v2"
	"sync"
)

// NoiseSource perturbs a score. It is opt-in and never part of the default
// engine because it breaks determinism and monotonicity.
type NoiseSource interface {
	Sample() float64
}

// SeededNoise draws uniform samples in [0, amplitude) from a seeded PCG
// generator. The same seed replays the same sequence.
type SeededNoise struct {
	mu        sync.Mutex
	rng       *rand.Rand
	amplitude float64
}

// NewSeededNoise creates a SeededNoise.
func NewSeededNoise(seed uint64, amplitude float64) *SeededNoise {
	return &SeededNoise{
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		amplitude: amplitude,
	}
}

// Sample implements NoiseSource.
func (n *SeededNoise) Sample() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rng.Float64() * n.amplitude
}
