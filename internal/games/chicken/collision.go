package chicken

import "github.com/vovakirdan/chicken-arcade/internal/core"

// Collision is a pair of agents eliminated together.
type Collision struct {
	First, Second core.PlayerID
}

// ResolveCollisions stops every agent with control that is within hitRadius
// of target and eliminates them pairwise. agents must be in ascending slot
// order, which decides the pairing when more than two arrive in one pass:
// the first arrival is held as the potential winner, the next one collides
// with it and both are eliminated, and the slot is free again for the
// following arrival. Agents without control are skipped.
func ResolveCollisions(agents []*Agent, target core.Vec3, hitRadius float64) []Collision {
	var (
		potential *Agent
		pairs     []Collision
	)
	for _, a := range agents {
		if !a.HasControl() || a.Distance(target) >= hitRadius {
			continue
		}
		a.stop()

		if potential == nil {
			potential = a
			continue
		}
		potential.eliminate()
		a.eliminate()
		pairs = append(pairs, Collision{First: potential.Slot, Second: a.Slot})
		potential = nil
	}
	return pairs
}
