package simulation

import (
	"fmt"
	"math"
	"time"

	"github.com/spacesedan/tunecast/internal/models"
)

const (
	eulerStep   = 0.1 // days
	stepsPerDay = 10

	// DefaultHistoryDays is the length of the simulated historical window.
	DefaultHistoryDays = 180
)

// SimulateHistory integrates the chosen compartment model with fixed-step
// explicit Euler and reports one DataPoint per whole day. Daily rates are
// modulated by an annual seasonal wave, a weekly weekend boost and the
// injected noise source. The reported Infected/Exposed values carry the
// same modulation while the integrator keeps stepping from the unscaled
// state; the reported series is intentionally not the internal trajectory.
// Susceptible is recomputed from the scaled values so every reported day
// still conserves the total population.
//
// track is optional; when present it shapes the SEIR initial split.
func SimulateHistory(
	params models.ModelParameters,
	start time.Time,
	numDays int,
	variant models.ModelVariant,
	track *models.Track,
	noise NoiseFunc,
) (models.Series, error) {
	if numDays < 1 {
		return nil, fmt.Errorf("[Integrator] numDays must be positive, got %d", numDays)
	}
	if noise == nil {
		noise = NoNoise
	}

	// Classification age is measured against the present day, which is the
	// end of the historical window.
	s, e, i, r := initialCompartments(params, variant, track, start.AddDate(0, 0, numDays-1))
	n := params.TotalPopulation

	series := make(models.Series, 0, numDays)
	for day := 0; day < numDays; day++ {
		date := start.AddDate(0, 0, day)
		mod := seasonalFactor(date) * weekdayFactor(date.Weekday()) * noise()

		beta := params.Beta * mod
		gamma := params.Gamma * mod
		sigma := params.Sigma * mod

		for step := 0; step < stepsPerDay; step++ {
			if variant == models.VariantSEIR {
				dS := -beta * s * i / n
				dE := beta*s*i/n - sigma*e
				dI := sigma*e - gamma*i
				dR := gamma * i
				s += dS * eulerStep
				e += dE * eulerStep
				i += dI * eulerStep
				r += dR * eulerStep
			} else {
				dS := gamma*i - beta*s*i/n
				dI := beta*s*i/n - gamma*i
				s += dS * eulerStep
				i += dI * eulerStep
			}
			s = math.Max(s, 0)
			e = math.Max(e, 0)
			i = math.Max(i, 1)
			r = math.Max(r, 0)
		}

		series = append(series, reportDay(date, s, e, i, r, n, mod, variant))
	}

	return series, nil
}

// reportDay scales the visible compartments by the day's modulation and
// rebalances Susceptible so the reported day conserves the population. The
// scaled values are capped in priority order (Infected, then Exposed, then
// Recovered) so a saturated run near the population ceiling still sums to
// exactly N after scaling.
func reportDay(date time.Time, s, e, i, r, n, mod float64, variant models.ModelVariant) models.DataPoint {
	repI := math.Min(math.Max(math.Round(i*mod), 1), n)
	if variant == models.VariantSEIR {
		repE := math.Min(math.Max(math.Round(e*mod), 0), n-repI)
		repR := math.Min(math.Max(math.Round(r), 0), n-repI-repE)
		return models.DataPoint{
			Date:            date,
			Susceptible:     n - repE - repI - repR,
			Exposed:         repE,
			Infected:        repI,
			Recovered:       repR,
			TotalPopulation: n,
		}
	}
	return models.DataPoint{
		Date:            date,
		Susceptible:     n - repI,
		Infected:        repI,
		TotalPopulation: n,
	}
}

// initialCompartments splits the population using the same classification
// as the deriver. New, popular tracks front-load Infected and Exposed with
// near-zero Recovered; old catalog tracks start with a large Recovered
// share of listeners who have already moved on.
func initialCompartments(params models.ModelParameters, variant models.ModelVariant, track *models.Track, now time.Time) (s, e, i, r float64) {
	n := params.TotalPopulation
	i = params.InitialInfected

	if variant != models.VariantSEIR {
		return n - i, 0, i, 0
	}

	// Neutral split when the caller has no track context.
	e = i * 0.5
	r = 0.08 * n

	if track != nil {
		c := ClassifyTrack(*track, variant, now)
		switch {
		case c.IsNew && c.Popularity >= 70:
			i *= 1.8
			e = i * 0.9
			r = 0.005 * n
		case c.IsNew:
			e = i * 0.7
			r = 0.01 * n
		case c.IsClassic:
			e = i * 0.3
			r = 0.25 * n
		}
	}

	s = n - e - i - r
	if s < 0 {
		s = 0
	}
	return s, e, i, r
}

// seasonalFactor is the annual listening wave, peaking mid-year.
func seasonalFactor(date time.Time) float64 {
	return 1 + 0.15*math.Sin(2*math.Pi*float64(date.YearDay())/365.0)
}

// weekdayFactor boosts weekends, bumps Friday release-day traffic and
// damps the midweek trough.
func weekdayFactor(d time.Weekday) float64 {
	switch d {
	case time.Saturday, time.Sunday:
		return 1.15
	case time.Friday:
		return 1.08
	default:
		return 0.97
	}
}
