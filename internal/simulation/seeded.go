package simulation

import "math"

// daySeedStride spaces out day-indexed draws so consecutive forecast days
// do not land on adjacent points of the sine transform.
const daySeedStride = 13

// TrackSeed folds title+artist into a 32-bit signed seed using the classic
// multiplier-31 string hash (acc = acc*31 + charCode), wrapping at every
// step. The wraparound is part of the contract: identical strings must
// yield identical seeds everywhere.
func TrackSeed(title, artist string) int32 {
	var acc int32
	for _, r := range title + artist {
		acc = (acc << 5) - acc + int32(r)
	}
	return acc
}

// SeededValue maps a seed to a reproducible value in [0,1) via the
// fractional part of sin(seed)*10000. This is deliberately not a
// cryptographic PRNG; the transform must stay bit-for-bit stable.
func SeededValue(seed int32) float64 {
	x := math.Sin(float64(seed)) * 10000
	return x - math.Floor(x)
}

// draw is a distinct deterministic draw at a small integer offset.
func draw(seed, offset int32) float64 {
	return SeededValue(seed + offset)
}

// dayDraw is a deterministic draw indexed by forecast day.
func dayDraw(seed int32, day int) float64 {
	return SeededValue(seed + int32(day)*daySeedStride)
}
