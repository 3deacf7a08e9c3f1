package simulation

import (
	"fmt"
	"math"
	"time"

	"github.com/spacesedan/tunecast/internal/models"
)

// Clamp bounds keep the Euler integrator well-behaved. SEIR runs slightly
// tighter because the exposure stage already slows the dynamics down.
const (
	sisBetaMin  = 0.01
	sisBetaMax  = 0.5
	sisGammaMin = 0.005
	sisGammaMax = 0.2

	seirBetaMin  = 0.01
	seirBetaMax  = 0.45
	seirGammaMin = 0.005
	seirGammaMax = 0.15
	seirSigmaMin = 0.05
	seirSigmaMax = 0.5

	minPopulation  = 1_000_000.0
	populationSpan = 9_000_000.0
)

// DeriveParameters maps a track to model rates. Total and deterministic:
// the only randomness is seeded draws off the track's title+artist hash.
func DeriveParameters(t models.Track, variant models.ModelVariant, now time.Time) models.ModelParameters {
	seed := TrackSeed(t.Title, t.Artist)
	c := ClassifyTrack(t, variant, now)

	r1 := draw(seed, 1)
	r2 := draw(seed, 2)

	var beta, gamma, initialBase float64
	switch {
	case c.IsNew:
		// Fresh releases spread fast and barely decay yet.
		beta = 0.28 + 0.12*r1
		gamma = 0.015 + 0.02*r2
		initialBase = 25_000
	case c.IsViral && c.IsRecent:
		beta = 0.25 + 0.15*r1
		gamma = 0.06 + 0.04*r2
		initialBase = 20_000
	case c.IsClassic:
		beta = 0.05 + 0.04*r1
		gamma = 0.015 + 0.02*r2
		initialBase = 6_000
	case c.IsViral:
		beta = 0.14 + 0.10*r1
		gamma = 0.05 + 0.05*r2
		initialBase = 12_000
	default:
		beta = 0.08 + 0.06*r1
		gamma = 0.03 + 0.03*r2
		initialBase = 8_000
	}

	beta *= 0.75 + t.Popularity/100*0.5

	population := minPopulation + draw(seed, 3)*populationSpan
	initial := initialBase * (0.5 + t.Popularity/100) * (0.8 + 0.4*draw(seed, 4))
	if initial < 1 {
		initial = 1
	}

	var sigma float64
	if variant == models.VariantSEIR {
		sigma = 0.12 + t.Popularity/100*0.25 + 0.1*draw(seed, 5)
		if c.Age == 0 {
			// Brand-new tracks have not had time to shed listeners.
			gamma *= 0.6
		}
		beta = clampF(beta, seirBetaMin, seirBetaMax)
		gamma = clampF(gamma, seirGammaMin, seirGammaMax)
		sigma = clampF(sigma, seirSigmaMin, seirSigmaMax)
	} else {
		beta = clampF(beta, sisBetaMin, sisBetaMax)
		gamma = clampF(gamma, sisGammaMin, sisGammaMax)
	}

	return models.ModelParameters{
		Beta:            beta,
		Gamma:           gamma,
		Sigma:           sigma,
		InitialInfected: math.Round(initial),
		TotalPopulation: math.Round(population),
	}
}

// ValidateParameters asserts the deriver's clamp contract. A violation is a
// programming error in the deriver, not a runtime condition; the engine
// fails loudly rather than recovering.
func ValidateParameters(p models.ModelParameters, variant models.ModelVariant) error {
	betaMin, betaMax := sisBetaMin, sisBetaMax
	gammaMin, gammaMax := sisGammaMin, sisGammaMax
	if variant == models.VariantSEIR {
		betaMin, betaMax = seirBetaMin, seirBetaMax
		gammaMin, gammaMax = seirGammaMin, seirGammaMax
		if p.Sigma < seirSigmaMin || p.Sigma > seirSigmaMax {
			return fmt.Errorf("[Parameters] sigma %.4f outside [%.2f, %.2f]", p.Sigma, seirSigmaMin, seirSigmaMax)
		}
	}
	if p.Beta < betaMin || p.Beta > betaMax {
		return fmt.Errorf("[Parameters] beta %.4f outside [%.2f, %.2f]", p.Beta, betaMin, betaMax)
	}
	if p.Gamma < gammaMin || p.Gamma > gammaMax {
		return fmt.Errorf("[Parameters] gamma %.4f outside [%.3f, %.2f]", p.Gamma, gammaMin, gammaMax)
	}
	if p.InitialInfected <= 0 || p.TotalPopulation <= 0 {
		return fmt.Errorf("[Parameters] non-positive counts: initial=%.0f population=%.0f",
			p.InitialInfected, p.TotalPopulation)
	}
	if p.InitialInfected >= p.TotalPopulation {
		return fmt.Errorf("[Parameters] initial infected %.0f exceeds population %.0f",
			p.InitialInfected, p.TotalPopulation)
	}
	return nil
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
