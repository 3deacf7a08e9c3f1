package simulation

import (
	"testing"

	"github.com/spacesedan/tunecast/internal/models"
)

func historySeries(values []float64) models.Series {
	series := make(models.Series, len(values))
	for idx, v := range values {
		series[idx] = models.DataPoint{
			Date:            testNow.AddDate(0, 0, idx-len(values)+1),
			Infected:        v,
			Susceptible:     1_000_000 - v,
			TotalPopulation: 1_000_000,
		}
	}
	return series
}

func rampSeries(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for idx := range out {
		out[idx] = start + step*float64(idx)
	}
	return out
}

func TestClassifyTrend(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   string
	}{
		{"steep ramp up is rising", rampSeries(10_000, 500, 14), models.TrendRising},
		{"steep ramp down is declining", rampSeries(20_000, -500, 14), models.TrendDeclining},
		{"flat tail is stable", rampSeries(10_000, 0, 14), models.TrendStable},
		{"shallow drift stays stable", rampSeries(10_000, 100, 14), models.TrendStable},
		{"single point is stable", []float64{5_000}, models.TrendStable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyTrend(historySeries(tc.values)); got != tc.want {
				t.Errorf("classifyTrend = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyOutlook(t *testing.T) {
	cases := []struct {
		name                                 string
		growth, volatility, momentum, overall float64
		trend                                string
		want                                 string
	}{
		{"explosive wins first", 3.0, 0.9, 2.0, 2.0, models.TrendRising, models.OutlookExplosiveGrowth},
		{"high growth low volatility is viral", 2.0, 0.4, 1.3, 1.5, models.TrendRising, models.OutlookViralPotential},
		{"moderate growth sustains", 1.5, 0.2, 1.1, 1.4, models.TrendStable, models.OutlookSustainedMomentum},
		{"declining with late momentum is comeback", 1.2, 0.3, 1.2, 1.0, models.TrendDeclining, models.OutlookComebackLikely},
		{"flat and quiet is niche", 1.1, 0.2, 1.0, 1.0, models.TrendStable, models.OutlookStableNiche},
		{"shrinking is decline", 0.9, 0.2, 0.8, 0.6, models.TrendStable, models.OutlookSteadyDecline},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyOutlook(tc.growth, tc.volatility, tc.momentum, tc.overall, tc.trend)
			if got != tc.want {
				t.Errorf("classifyOutlook = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAnalyzeInsights(t *testing.T) {
	track := testTrack(testNow.Year(), 80, "Pop")

	t.Run("rising tail with volatile high growth reads explosive", func(t *testing.T) {
		// Strictly increasing last 14 points ending at 10k listeners.
		history := historySeries(rampSeries(3_500, 500, 14))
		// Future peaks above 2.5x current with a wide swing.
		predictions := historySeries([]float64{
			8_000, 12_000, 18_000, 26_000, 9_000, 21_000, 28_000, 15_000, 26_500, 27_500,
		})
		insights := AnalyzeInsights(history, predictions, models.VariantSIS, track)

		if insights.CurrentTrend != models.TrendRising {
			t.Errorf("trend = %q, want rising", insights.CurrentTrend)
		}
		if insights.FutureOutlook != models.OutlookExplosiveGrowth {
			t.Errorf("outlook = %q, want %q", insights.FutureOutlook, models.OutlookExplosiveGrowth)
		}
	})

	t.Run("peak spans both series", func(t *testing.T) {
		history := historySeries(rampSeries(1_000, 100, 30))
		predictions := historySeries([]float64{2_000, 90_000, 2_500})
		insights := AnalyzeInsights(history, predictions, models.VariantSIS, track)
		if insights.Peak.Value != 90_000 {
			t.Errorf("peak = %v, want 90000", insights.Peak.Value)
		}
	})

	t.Run("historical peak wins when the future is quiet", func(t *testing.T) {
		history := historySeries([]float64{5_000, 80_000, 4_000})
		predictions := historySeries(rampSeries(3_000, 10, 10))
		insights := AnalyzeInsights(history, predictions, models.VariantSIS, track)
		if insights.Peak.Value != 80_000 {
			t.Errorf("peak = %v, want 80000", insights.Peak.Value)
		}
	})

	t.Run("empty history degrades without dividing by zero", func(t *testing.T) {
		predictions := historySeries(rampSeries(1_000, 50, 10))
		insights := AnalyzeInsights(nil, predictions, models.VariantSIS, track)
		if insights.CurrentTrend != models.TrendStable {
			t.Errorf("trend = %q, want stable", insights.CurrentTrend)
		}
	})

	t.Run("confidence stays inside the outlook band", func(t *testing.T) {
		history := historySeries(rampSeries(3_500, 500, 14))
		predictions := historySeries([]float64{8_000, 12_000, 18_000, 26_000, 9_000, 21_000, 28_000, 15_000, 26_500, 27_500})
		insights := AnalyzeInsights(history, predictions, models.VariantSIS, track)

		band := recommendationTable[insights.FutureOutlook]
		conf := insights.Recommendation.Confidence
		if conf < band.confLo || conf > band.confHi {
			t.Errorf("confidence %v outside band [%v, %v]", conf, band.confLo, band.confHi)
		}
	})

	t.Run("recommendation is deterministic", func(t *testing.T) {
		history := historySeries(rampSeries(3_500, 500, 14))
		predictions := historySeries(rampSeries(8_000, 900, 20))
		a := AnalyzeInsights(history, predictions, models.VariantSIS, track)
		b := AnalyzeInsights(history, predictions, models.VariantSIS, track)
		if a.Recommendation.Confidence != b.Recommendation.Confidence {
			t.Error("confidence changed between identical calls")
		}
		if a.Recommendation.Action != b.Recommendation.Action {
			t.Error("action changed between identical calls")
		}
	})
}

func TestPlatformsFor(t *testing.T) {
	cases := []struct {
		name   string
		genres []string
		want   []string
	}{
		{"pop maps to short form video", []string{"Pop"}, []string{"TikTok", "Instagram Reels"}},
		{"unknown genre falls back", []string{"polka"}, []string{"Spotify Playlists", "YouTube"}},
		{"no genres fall back", nil, []string{"Spotify Playlists", "YouTube"}},
		{"duplicates collapse", []string{"hip-hop", "rap"}, []string{"TikTok", "YouTube Shorts"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := platformsFor(tc.genres)
			if len(got) != len(tc.want) {
				t.Fatalf("platformsFor(%v) = %v, want %v", tc.genres, got, tc.want)
			}
			for idx := range got {
				if got[idx] != tc.want[idx] {
					t.Fatalf("platformsFor(%v) = %v, want %v", tc.genres, got, tc.want)
				}
			}
		})
	}
}
