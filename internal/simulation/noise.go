package simulation

import "math/rand/v2"

// Daily noise multipliers stay inside this band so a single noisy day can
// never dominate the seasonal and weekly signals.
const (
	noiseMin = 0.92
	noiseMax = 1.08
)

// NoiseFunc supplies the per-day noise multiplier for a historical run.
// It is injected rather than read from a global source so tests can pin
// the simulation down with NoNoise.
type NoiseFunc func() float64

// RandomNoise is the production source: a uniform multiplier in the band.
func RandomNoise() float64 {
	return noiseMin + rand.Float64()*(noiseMax-noiseMin)
}

// NoNoise disables the noise path; used by tests and conservation checks.
func NoNoise() float64 {
	return 1.0
}
