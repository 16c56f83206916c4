package config

import (
	"math"
	"math/rand"
)

// ReactionTicks derives an AI player's reaction delay from the difficulty.
// Smaller is faster: (2-d)*5 plus a random jitter in [0, (3-d)*3).
func ReactionTicks(d AIDifficulty, rng *rand.Rand) int {
	d = AIDifficulty(clampI(int(d), int(AIEasy), int(AIHard)))
	base := (2 - int(d)) * 5
	jitter := (3 - int(d)) * 3
	return base + rng.Intn(jitter)
}

// NerveDistance picks how close to the target a reactive AI player dares to
// walk before it starts reacting: hitRadius plus a random margin in
// [NerveMin, NerveMax).
func NerveDistance(cfg AIConfig, hitRadius float64, rng *rand.Rand) float64 {
	lo := math.Max(0, cfg.NerveMin)
	hi := math.Max(lo, cfg.NerveMax)
	return hitRadius + lo + rng.Float64()*(hi-lo)
}

// clampI restricts an int to [min, max].
func clampI(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
