package simulation

import (
	"fmt"
	"math"
	"time"

	"github.com/spacesedan/tunecast/internal/models"
)

// DefaultPredictionDays is the forecast horizon when the request leaves it
// unset.
const DefaultPredictionDays = 30

// Scenario is one named forecast shape. Base and Volatility are closed-form
// functions of day progress in [0,1]. MaxDailyChange is the day-over-day
// band the smoothing pipeline enforces afterwards; surge-style scenarios
// get a wider band.
type Scenario struct {
	Name           string
	Surge          bool
	MaxDailyChange float64
	Base           func(progress float64) float64
	Volatility     func(progress float64) float64
	weight         func(c Classification) float64
}

// scenarioCatalog is evaluated in order; selection walks the cumulative
// normalized weights with a single deterministic draw.
var scenarioCatalog = []Scenario{
	{
		Name:           "viral breakthrough",
		Surge:          true,
		MaxDailyChange: 0.40,
		Base:           func(p float64) float64 { return 1 + 1.8*math.Pow(p, 1.6) },
		Volatility:     func(p float64) float64 { return 0.25 + 0.2*p },
		weight: func(c Classification) float64 {
			w := 0.05 + c.Popularity/100*0.15
			if c.IsViral {
				w += 0.20
			}
			if c.IsNew {
				w += 0.20
			}
			return w
		},
	},
	{
		Name:           "organic growth",
		MaxDailyChange: 0.20,
		Base:           func(p float64) float64 { return 1 + 0.5*p },
		Volatility:     func(p float64) float64 { return 0.10 },
		weight: func(c Classification) float64 {
			w := 0.15
			if c.IsRecent {
				w += 0.20
			}
			return w
		},
	},
	{
		Name:           "cyclical waves",
		MaxDailyChange: 0.18,
		Base:           func(p float64) float64 { return 1 + 0.15*math.Sin(4*math.Pi*p) },
		Volatility:     func(p float64) float64 { return 0.12 },
		weight: func(c Classification) float64 {
			w := 0.10
			if c.IsClassic {
				w += 0.25
			}
			return w
		},
	},
	{
		Name:           "steady momentum",
		MaxDailyChange: 0.12,
		Base:           func(p float64) float64 { return 1 + 0.1*p },
		Volatility:     func(p float64) float64 { return 0.06 },
		weight:         func(c Classification) float64 { return 0.20 },
	},
	{
		Name:           "discovery surge",
		Surge:          true,
		MaxDailyChange: 0.35,
		Base:           func(p float64) float64 { return 1 + 0.9*math.Sin(math.Pi*p) },
		Volatility:     func(p float64) float64 { return 0.20 },
		weight: func(c Classification) float64 {
			w := 0.05
			if c.IsClassic {
				w += 0.10
			}
			if c.IsClassic && c.IsViral {
				w += 0.20
			}
			return w
		},
	},
	{
		Name:           "gradual fade",
		MaxDailyChange: 0.12,
		Base:           func(p float64) float64 { return 1 - 0.35*p },
		Volatility:     func(p float64) float64 { return 0.08 },
		weight: func(c Classification) float64 {
			w := 0.05
			if c.Age > 5 && c.Popularity < 40 {
				w += 0.25
			}
			return w
		},
	},
}

// SelectScenario picks the forecast scenario for a track on a given day.
// The seed mixes the track hash with the calendar date, so repeated calls
// on the same day always land on the same scenario.
func SelectScenario(t models.Track, variant models.ModelVariant, now time.Time) Scenario {
	c := ClassifyTrack(t, variant, now)

	weights := make([]float64, len(scenarioCatalog))
	var total float64
	for idx, sc := range scenarioCatalog {
		weights[idx] = sc.weight(c)
		total += weights[idx]
	}

	v := draw(forecastSeed(t, now), 10)
	var cum float64
	for idx, sc := range scenarioCatalog {
		cum += weights[idx] / total
		if v < cum {
			return sc
		}
	}
	return scenarioCatalog[len(scenarioCatalog)-1]
}

func forecastSeed(t models.Track, now time.Time) int32 {
	return TrackSeed(t.Title, t.Artist) + int32(now.Year())*400 + int32(now.YearDay())
}

// Forecast projects predictionDays of future listeners from the tail of the
// historical series. The wall-clock date is taken from the last historical
// point, which by construction is today. The first generated day only seeds
// the 3-day momentum window and is dropped, so the returned series has
// predictionDays-1 points.
func Forecast(
	t models.Track,
	params models.ModelParameters,
	history models.Series,
	predictionDays int,
	variant models.ModelVariant,
) (models.Series, Scenario, error) {
	if predictionDays < 2 {
		return nil, Scenario{}, fmt.Errorf("[Forecast] predictionDays must be at least 2, got %d", predictionDays)
	}
	if len(history) == 0 {
		return nil, Scenario{}, fmt.Errorf("[Forecast] history is empty")
	}

	now := history[len(history)-1].Date
	sc := SelectScenario(t, variant, now)
	seed := forecastSeed(t, now)

	baseline := recentAverage(history, 7)

	// Momentum window, seeded from the historical tail.
	window := make([]float64, 0, 3)
	for idx := len(history) - 3; idx < len(history); idx++ {
		if idx >= 0 {
			window = append(window, history[idx].Infected)
		}
	}

	series := make(models.Series, 0, predictionDays)
	for day := 1; day <= predictionDays; day++ {
		date := now.AddDate(0, 0, day)
		progress := float64(day) / float64(predictionDays)

		vol := sc.Volatility(progress)
		noiseF := clampF(1+(dayDraw(seed, day)-0.5)*2*vol*0.3, 0.85, 1.15)

		infected := baseline * sc.Base(progress) * weekdayFactor(date.Weekday()) *
			momentumFactor(window) * noiseF
		// A saturated baseline times the stacked multipliers can overshoot
		// the audience; the projection never exceeds the population.
		infected = math.Min(math.Max(math.Round(infected), 1), params.TotalPopulation)

		series = append(series, forecastPoint(date, infected, history, params, variant, day))

		window = append(window, infected)
		if len(window) > 3 {
			window = window[1:]
		}
	}

	// Day one exists only to prime the momentum window.
	return series[1:], sc, nil
}

// momentumFactor nudges the projection along the recent 3-day slope,
// measured relative to the running average and bounded so momentum can
// never overpower the scenario shape.
func momentumFactor(window []float64) float64 {
	if len(window) < 3 {
		return 1
	}
	slope := (window[2] - window[0]) / 2
	avg := (window[0] + window[1] + window[2]) / 3
	if avg < 1 {
		avg = 1
	}
	return 1 + clampF(slope/avg, -0.25, 0.25)*0.6
}

// forecastPoint derives the remaining compartments from the Infected
// projection. SIS conserves trivially; SEIR extrapolates Exposed and
// Recovered from the historical tail with decay, caps them against the
// remaining population and rebalances so the Susceptible pool never drops
// below 10% of the population. infected arrives already capped at N, so
// every emitted point sums to exactly N.
func forecastPoint(date time.Time, infected float64, history models.Series, params models.ModelParameters, variant models.ModelVariant, day int) models.DataPoint {
	n := params.TotalPopulation

	if variant != models.VariantSEIR {
		return models.DataPoint{
			Date:            date,
			Susceptible:     n - infected,
			Infected:        infected,
			TotalPopulation: n,
		}
	}

	last := history[len(history)-1]
	exposed := math.Round(math.Max(last.Exposed*math.Exp(-0.08*float64(day)), 0))
	exposed = math.Min(exposed, n-infected)

	recovered := last.Recovered
	if len(history) >= 8 {
		prior := history[len(history)-8]
		dailySlope := (last.Recovered - prior.Recovered) / 7
		recovered += dailySlope * float64(day) * math.Exp(-0.03*float64(day))
	}
	recovered = math.Round(math.Max(recovered, 0))
	recovered = math.Min(recovered, n-infected-exposed)

	susceptible := n - exposed - infected - recovered
	if floor := 0.1 * n; susceptible < floor {
		recovered = math.Round(math.Max(recovered-(floor-susceptible), 0))
		susceptible = n - exposed - infected - recovered
	}

	return models.DataPoint{
		Date:            date,
		Susceptible:     susceptible,
		Exposed:         exposed,
		Infected:        infected,
		Recovered:       recovered,
		TotalPopulation: n,
	}
}

// recentAverage is the baseline: the mean of the last w Infected values,
// floored at 1 to guard the divisions downstream.
func recentAverage(s models.Series, w int) float64 {
	if w > len(s) {
		w = len(s)
	}
	var sum float64
	for _, dp := range s[len(s)-w:] {
		sum += dp.Infected
	}
	avg := sum / float64(w)
	if avg < 1 {
		return 1
	}
	return avg
}
