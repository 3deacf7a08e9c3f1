package simulation

import (
	"math"
	"strings"

	"github.com/spacesedan/tunecast/internal/models"
)

const (
	// Points of history inspected for the current trend.
	trendWindow = 14
	// Absolute listeners/day below which a slope counts as stable.
	trendThreshold = 250.0
)

// Platform suggestions per genre tag. First matches win; unmatched genres
// fall back to the default pair.
var genrePlatforms = map[string][]string{
	"pop":        {"TikTok", "Instagram Reels"},
	"hip-hop":    {"TikTok", "YouTube Shorts"},
	"hip hop":    {"TikTok", "YouTube Shorts"},
	"rap":        {"TikTok", "YouTube Shorts"},
	"rock":       {"YouTube", "Spotify Playlists"},
	"metal":      {"YouTube", "Bandcamp"},
	"electronic": {"SoundCloud", "Beatport"},
	"edm":        {"SoundCloud", "Beatport"},
	"dance":      {"TikTok", "Beatport"},
	"jazz":       {"Spotify Playlists", "Bandcamp"},
	"classical":  {"YouTube", "Apple Music"},
	"country":    {"YouTube", "Spotify Playlists"},
	"k-pop":      {"TikTok", "YouTube"},
	"latin":      {"TikTok", "YouTube Shorts"},
	"reggaeton":  {"TikTok", "YouTube Shorts"},
	"indie":      {"Spotify Playlists", "Bandcamp"},
	"folk":       {"Spotify Playlists", "Bandcamp"},
}

var defaultPlatforms = []string{"Spotify Playlists", "YouTube"}

type recommendationBand struct {
	action string
	timing string
	confLo float64
	confHi float64
}

// Per-outlook recommendation table. Confidence is drawn inside the band
// with a seeded draw so responses stay stable for a given track and day.
var recommendationTable = map[string]recommendationBand{
	models.OutlookExplosiveGrowth:   {"promote aggressively across all channels", "immediately", 0.80, 0.95},
	models.OutlookViralPotential:    {"ramp up short-form video promotion", "within the week", 0.70, 0.88},
	models.OutlookSustainedMomentum: {"keep a steady release and playlist cadence", "ongoing", 0.60, 0.80},
	models.OutlookComebackLikely:    {"re-engage past listeners with a refreshed push", "within two weeks", 0.55, 0.75},
	models.OutlookStableNiche:       {"deepen the niche with targeted playlists", "flexible", 0.50, 0.70},
	models.OutlookSteadyDecline:     {"refresh the catalog with a remix or feature", "when ready", 0.40, 0.60},
}

// AnalyzeInsights distills the historical and predicted series into the
// peak, the current trend, a future outlook and an artist recommendation.
func AnalyzeInsights(history, predictions models.Series, variant models.ModelVariant, t models.Track) models.Insights {
	peak := findPeak(history, predictions)
	trend := classifyTrend(history)

	current := 1.0
	if len(history) > 0 {
		current = math.Max(history[len(history)-1].Infected, 1)
	}

	maxF, minF, avgF := futureStats(predictions)
	growth := maxF / current
	volatility := (maxF - minF) / avgF
	momentum := momentumRatio(predictions)
	overall := avgF / current

	outlook := classifyOutlook(growth, volatility, momentum, overall, trend)

	return models.Insights{
		Peak:           peak,
		CurrentTrend:   trend,
		FutureOutlook:  outlook,
		Recommendation: buildRecommendation(t, trend, outlook),
	}
}

func findPeak(history, predictions models.Series) models.Peak {
	var peak models.Peak
	for _, s := range []models.Series{history, predictions} {
		for _, dp := range s {
			if dp.Infected > peak.Value {
				peak = models.Peak{Date: dp.Date, Value: dp.Infected}
			}
		}
	}
	return peak
}

// classifyTrend fits the average daily change over the last trendWindow
// historical points against the fixed absolute threshold.
func classifyTrend(history models.Series) string {
	w := trendWindow
	if w > len(history) {
		w = len(history)
	}
	if w < 2 {
		return models.TrendStable
	}
	tail := history[len(history)-w:]
	slope := (tail[len(tail)-1].Infected - tail[0].Infected) / float64(len(tail)-1)

	switch {
	case slope > trendThreshold:
		return models.TrendRising
	case slope < -trendThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

func futureStats(predictions models.Series) (maxF, minF, avgF float64) {
	if len(predictions) == 0 {
		return 1, 1, 1
	}
	minF = math.Inf(1)
	var sum float64
	for _, dp := range predictions {
		maxF = math.Max(maxF, dp.Infected)
		minF = math.Min(minF, dp.Infected)
		sum += dp.Infected
	}
	avgF = sum / float64(len(predictions))
	if avgF < 1 {
		avgF = 1
	}
	return maxF, minF, avgF
}

// momentumRatio compares the second half of the predictions to the first.
func momentumRatio(predictions models.Series) float64 {
	if len(predictions) < 2 {
		return 1
	}
	half := len(predictions) / 2
	first := seriesAverage(predictions[:half])
	second := seriesAverage(predictions[half:])
	return second / first
}

func seriesAverage(s models.Series) float64 {
	if len(s) == 0 {
		return 1
	}
	var sum float64
	for _, dp := range s {
		sum += dp.Infected
	}
	avg := sum / float64(len(s))
	if avg < 1 {
		return 1
	}
	return avg
}

// classifyOutlook is an ordered guard chain; the first matching guard wins
// and the order encodes the intensity ranking.
func classifyOutlook(growth, volatility, momentum, overall float64, trend string) string {
	switch {
	case growth > 2.5 && volatility > 0.8:
		return models.OutlookExplosiveGrowth
	case growth > 1.8 && momentum > 1.2:
		return models.OutlookViralPotential
	case overall > 1.25 && momentum > 1.05:
		return models.OutlookSustainedMomentum
	case trend == models.TrendDeclining && momentum > 1.15:
		return models.OutlookComebackLikely
	case overall >= 0.85 && overall <= 1.15 && volatility < 0.5:
		return models.OutlookStableNiche
	default:
		return models.OutlookSteadyDecline
	}
}

func buildRecommendation(t models.Track, trend, outlook string) models.Recommendation {
	band, ok := recommendationTable[outlook]
	if !ok {
		band = recommendationTable[models.OutlookStableNiche]
	}

	timing := band.timing
	// A rising track shortens the window; there is no reason to wait out a
	// trend that is already moving.
	if trend == models.TrendRising && outlook != models.OutlookExplosiveGrowth {
		timing = "within the week"
	}

	conf := band.confLo + draw(TrackSeed(t.Title, t.Artist), 97)*(band.confHi-band.confLo)

	return models.Recommendation{
		Action:     band.action,
		Timing:     timing,
		Confidence: math.Round(conf*100) / 100,
		Platforms:  platformsFor(t.Genres),
	}
}

func platformsFor(genres []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, g := range genres {
		for _, p := range genrePlatforms[strings.ToLower(strings.TrimSpace(g))] {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
			if len(out) == 4 {
				return out
			}
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultPlatforms...)
	}
	return out
}
