package simulation

import (
	"math"
	"testing"

	"github.com/spacesedan/tunecast/internal/models"
)

// buildHistory runs a deterministic historical simulation ending at testNow.
func buildHistory(t *testing.T, track models.Track, variant models.ModelVariant) (models.Series, models.ModelParameters) {
	t.Helper()
	params := DeriveParameters(track, variant, testNow)
	start := testNow.AddDate(0, 0, -(DefaultHistoryDays - 1))
	history, err := SimulateHistory(params, start, DefaultHistoryDays, variant, &track, NoNoise)
	if err != nil {
		t.Fatalf("SimulateHistory: %v", err)
	}
	return history, params
}

func TestForecast(t *testing.T) {
	t.Run("thirty day horizon returns twenty nine ascending points", func(t *testing.T) {
		track := testTrack(testNow.Year(), 80, "Pop")
		history, params := buildHistory(t, track, models.VariantSIS)

		series, _, err := Forecast(track, params, history, 30, models.VariantSIS)
		if err != nil {
			t.Fatalf("Forecast: %v", err)
		}
		if len(series) != 29 {
			t.Fatalf("series length = %d, want 29", len(series))
		}
		for idx, dp := range series {
			if dp.Infected < 1 {
				t.Errorf("day %d: infected = %v, want >= 1", idx, dp.Infected)
			}
			if idx > 0 && !series[idx].Date.After(series[idx-1].Date) {
				t.Errorf("day %d: dates not strictly increasing", idx)
			}
		}
	})

	t.Run("forecast starts after the last historical day", func(t *testing.T) {
		track := testTrack(testNow.Year()-2, 60)
		history, params := buildHistory(t, track, models.VariantSIS)

		series, _, err := Forecast(track, params, history, 10, models.VariantSIS)
		if err != nil {
			t.Fatalf("Forecast: %v", err)
		}
		if !series[0].Date.After(history[len(history)-1].Date) {
			t.Errorf("first forecast day %v not after history end %v",
				series[0].Date, history[len(history)-1].Date)
		}
	})

	t.Run("scenario selection is stable for a fixed track and day", func(t *testing.T) {
		track := testTrack(testNow.Year(), 80, "Pop")
		first := SelectScenario(track, models.VariantSIS, testNow)
		for i := 0; i < 20; i++ {
			if got := SelectScenario(track, models.VariantSIS, testNow); got.Name != first.Name {
				t.Fatalf("scenario flipped from %q to %q on repeat call", first.Name, got.Name)
			}
		}
	})

	t.Run("scenario selection depends on the calendar day", func(t *testing.T) {
		track := testTrack(testNow.Year(), 80, "Pop")
		a := forecastSeed(track, testNow)
		b := forecastSeed(track, testNow.AddDate(0, 0, 1))
		if a == b {
			t.Error("forecast seed did not move with the date")
		}
	})

	t.Run("repeated forecasts are identical", func(t *testing.T) {
		track := testTrack(testNow.Year()-1, 75, "Dance")
		history, params := buildHistory(t, track, models.VariantSIS)

		a, _, err := Forecast(track, params, history, 30, models.VariantSIS)
		if err != nil {
			t.Fatalf("Forecast: %v", err)
		}
		b, _, _ := Forecast(track, params, history, 30, models.VariantSIS)
		for idx := range a {
			if a[idx] != b[idx] {
				t.Fatalf("day %d differs between identical forecasts", idx)
			}
		}
	})

	t.Run("sis forecast conserves population", func(t *testing.T) {
		track := testTrack(testNow.Year(), 80, "Pop")
		history, params := buildHistory(t, track, models.VariantSIS)

		series, _, err := Forecast(track, params, history, 30, models.VariantSIS)
		if err != nil {
			t.Fatalf("Forecast: %v", err)
		}
		for idx, dp := range series {
			if math.Abs(dp.Susceptible+dp.Infected-params.TotalPopulation) > 2 {
				t.Errorf("day %d: s+i = %v, population = %v",
					idx, dp.Susceptible+dp.Infected, params.TotalPopulation)
			}
		}
	})

	t.Run("seir forecast conserves population with non-negative compartments", func(t *testing.T) {
		track := testTrack(testNow.Year(), 95, "Pop")
		history, params := buildHistory(t, track, models.VariantSEIR)

		series, _, err := Forecast(track, params, history, 30, models.VariantSEIR)
		if err != nil {
			t.Fatalf("Forecast: %v", err)
		}
		for idx, dp := range series {
			if dp.Susceptible < 0 || dp.Exposed < 0 || dp.Recovered < 0 {
				t.Errorf("day %d: negative compartment: %+v", idx, dp)
			}
			sum := dp.Susceptible + dp.Exposed + dp.Infected + dp.Recovered
			if math.Abs(sum-params.TotalPopulation) > 2 {
				t.Errorf("day %d: compartment sum = %v, population = %v",
					idx, sum, params.TotalPopulation)
			}
		}
	})

	t.Run("saturated baselines are capped at the population", func(t *testing.T) {
		// A history riding the population ceiling leaves a baseline near N;
		// the stacked scenario, weekday, momentum and noise multipliers must
		// not project more listeners than exist.
		track := testTrack(testNow.Year(), 95, "Pop")
		history, params := buildHistory(t, track, models.VariantSIS)

		series, sc, err := Forecast(track, params, history, 30, models.VariantSIS)
		if err != nil {
			t.Fatalf("Forecast: %v", err)
		}
		for _, stage := range []models.Series{series, SmoothPredictions(series, sc, models.VariantSIS)} {
			for idx, dp := range stage {
				if dp.Infected > params.TotalPopulation {
					t.Fatalf("day %d: infected = %v exceeds population %v",
						idx, dp.Infected, params.TotalPopulation)
				}
				if math.Abs(dp.Susceptible+dp.Infected-params.TotalPopulation) > 2 {
					t.Fatalf("day %d: s+i = %v, population = %v",
						idx, dp.Susceptible+dp.Infected, params.TotalPopulation)
				}
			}
		}
	})

	t.Run("rejects degenerate inputs", func(t *testing.T) {
		track := testTrack(testNow.Year(), 80, "Pop")
		history, params := buildHistory(t, track, models.VariantSIS)

		if _, _, err := Forecast(track, params, history, 1, models.VariantSIS); err == nil {
			t.Error("expected an error for a one-day horizon")
		}
		if _, _, err := Forecast(track, params, nil, 30, models.VariantSIS); err == nil {
			t.Error("expected an error for empty history")
		}
	})
}

func TestScenarioWeights(t *testing.T) {
	t.Run("every classification yields positive total weight", func(t *testing.T) {
		classifications := []Classification{
			{Age: 0, Popularity: 90, IsNew: true, IsRecent: true, IsViral: true},
			{Age: 25, Popularity: 30, IsClassic: true},
			{Age: 25, Popularity: 60, IsClassic: true, IsViral: true},
			{Age: 8, Popularity: 20},
			{},
		}
		for _, c := range classifications {
			var total float64
			for _, sc := range scenarioCatalog {
				w := sc.weight(c)
				if w < 0 {
					t.Errorf("scenario %q returned negative weight for %+v", sc.Name, c)
				}
				total += w
			}
			if total <= 0 {
				t.Errorf("total weight is %v for %+v", total, c)
			}
		}
	})

	t.Run("base multipliers are finite across the horizon", func(t *testing.T) {
		for _, sc := range scenarioCatalog {
			for day := 0; day <= 100; day++ {
				p := float64(day) / 100
				if b := sc.Base(p); math.IsNaN(b) || math.IsInf(b, 0) {
					t.Errorf("scenario %q base(%v) = %v", sc.Name, p, b)
				}
				if v := sc.Volatility(p); v < 0 {
					t.Errorf("scenario %q volatility(%v) = %v", sc.Name, p, v)
				}
			}
		}
	})
}

func TestMomentumFactor(t *testing.T) {
	cases := []struct {
		name   string
		window []float64
		check  func(float64) bool
	}{
		{"short window is neutral", []float64{5}, func(m float64) bool { return m == 1 }},
		{"flat window is neutral", []float64{100, 100, 100}, func(m float64) bool { return m == 1 }},
		{"rising window boosts", []float64{100, 120, 140}, func(m float64) bool { return m > 1 }},
		{"falling window damps", []float64{140, 120, 100}, func(m float64) bool { return m < 1 }},
		{"extreme slope is bounded", []float64{1, 1, 10000}, func(m float64) bool { return m <= 1.15 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if m := momentumFactor(tc.window); !tc.check(m) {
				t.Errorf("momentumFactor(%v) = %v", tc.window, m)
			}
		})
	}
}
