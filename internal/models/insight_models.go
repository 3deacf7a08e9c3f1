package models

import "time"

// Trend categories for the last stretch of historical data.
const (
	TrendRising    = "rising"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// Future outlook categories, ordered by intensity.
const (
	OutlookExplosiveGrowth   = "explosive growth"
	OutlookViralPotential    = "viral potential"
	OutlookSustainedMomentum = "sustained momentum"
	OutlookComebackLikely    = "comeback likely"
	OutlookStableNiche       = "stable niche"
	OutlookSteadyDecline     = "steady decline"
)

type Peak struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Recommendation is the artist-facing action derived from trend + outlook.
type Recommendation struct {
	Action     string   `json:"action"`
	Timing     string   `json:"timing"`
	Confidence float64  `json:"confidence"`
	Platforms  []string `json:"platforms"`
}

type Insights struct {
	Peak           Peak           `json:"peak"`
	CurrentTrend   string         `json:"current_trend"`
	FutureOutlook  string         `json:"future_outlook"`
	Recommendation Recommendation `json:"recommendation"`
}
