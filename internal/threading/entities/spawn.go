package entities

import "math/rand"

// Populate spawns n entities at random positions inside the world, moving in
// random directions at up to maxSpeed. A positive lifetime is jittered to
// [lifetime/2, lifetime] frames so expiries spread over several cycles.
func (w *World) Populate(rng *rand.Rand, n int, maxSpeed float64, lifetime int) {
	for i := 0; i < n; i++ {
		pos := Vec2{X: rng.Float64() * w.Width, Y: rng.Float64() * w.Height}
		vel := Vec2{X: (rng.Float64()*2 - 1) * maxSpeed, Y: (rng.Float64()*2 - 1) * maxSpeed}

		life := lifetime
		if lifetime > 1 {
			life = lifetime/2 + rng.Intn(lifetime-lifetime/2+1)
		}
		w.Spawn(pos, vel, life)
	}
}
