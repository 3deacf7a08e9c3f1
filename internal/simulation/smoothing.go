package simulation

import (
	"math"

	"github.com/spacesedan/tunecast/internal/models"
)

// SmoothPredictions runs the two deterministic passes over a predicted
// series: a day-over-day clamp inside the scenario's band, then a
// local-outlier blend. The clamp runs once more afterwards because the
// blend can widen a point's gap to its successor; the final pass makes the
// adjacency bound unconditional.
func SmoothPredictions(series models.Series, sc Scenario, variant models.ModelVariant) models.Series {
	if len(series) < 2 {
		return series
	}

	out := make(models.Series, len(series))
	copy(out, series)

	clampDayOverDay(out, sc.MaxDailyChange, variant)
	smoothOutliers(out, variant)
	clampDayOverDay(out, sc.MaxDailyChange, variant)

	return out
}

// clampDayOverDay limits each day's relative Infected change to the
// scenario band, preserving direction, and rebalances the remaining
// compartments under the conservation rule.
func clampDayOverDay(series models.Series, maxChange float64, variant models.ModelVariant) {
	for idx := 1; idx < len(series); idx++ {
		prev := math.Max(series[idx-1].Infected, 1)
		clamped := clampToBand(series[idx].Infected, prev, maxChange)
		if clamped != series[idx].Infected {
			setInfected(&series[idx], clamped, variant)
		}
	}
}

// smoothOutliers blends interior points toward the linear interpolation of
// their neighbours when they deviate by more than half the expected value.
// The 80/20 split keeps the pattern's character while shaving spikes.
func smoothOutliers(series models.Series, variant models.ModelVariant) {
	for idx := 1; idx < len(series)-1; idx++ {
		expected := (series[idx-1].Infected + series[idx+1].Infected) / 2
		if expected < 1 {
			expected = 1
		}
		actual := series[idx].Infected
		if math.Abs(actual-expected) <= 0.5*expected {
			continue
		}
		blended := math.Max(math.Round(0.8*actual+0.2*expected), 1)
		setInfected(&series[idx], blended, variant)
	}
}

// clampToBand bounds value to within maxChange (relative) of prev.
func clampToBand(value, prev, maxChange float64) float64 {
	change := (value - prev) / prev
	if change > maxChange {
		value = prev * (1 + maxChange)
	} else if change < -maxChange {
		value = prev * (1 - maxChange)
	}
	return math.Max(math.Round(value), 1)
}

// setInfected rewrites a point's Infected value and shifts the delta into
// the dependent compartments: a reduction parks listeners in Recovered, an
// increase pulls them out of Exposed (spilling into Recovered when Exposed
// runs dry), and Susceptible is recomputed last so the day still conserves
// the population.
func setInfected(dp *models.DataPoint, infected float64, variant models.ModelVariant) {
	n := dp.TotalPopulation
	delta := dp.Infected - infected
	dp.Infected = infected

	if variant != models.VariantSEIR {
		dp.Susceptible = n - infected
		return
	}

	if delta > 0 {
		dp.Recovered += delta
	} else {
		dp.Exposed = math.Max(dp.Exposed+delta, 0)
	}
	dp.Susceptible = n - dp.Exposed - dp.Infected - dp.Recovered
	if dp.Susceptible < 0 {
		dp.Recovered = math.Max(dp.Recovered+dp.Susceptible, 0)
		dp.Susceptible = n - dp.Exposed - dp.Infected - dp.Recovered
	}
}
