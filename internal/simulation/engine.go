package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/spacesedan/tunecast/internal/cache"
	"github.com/spacesedan/tunecast/internal/models"
	"github.com/spacesedan/tunecast/internal/monitoring"
)

// ErrTrackNotFound is returned when a request names a track id with no
// supplied payload and no cache entry. The routing layer maps it to a
// not-found response.
var ErrTrackNotFound = errors.New("track not found")

// Engine runs one full analysis per request: resolve the track, derive
// parameters, simulate history, forecast, smooth and distill insights.
// Everything executes strictly in sequence; concurrent requests share only
// the track cache.
type Engine struct {
	cache cache.TrackCache
	noise NoiseFunc
	now   func() time.Time
}

type EngineOption func(*Engine)

// WithNoise swaps the historical noise source; tests pin it to NoNoise.
func WithNoise(n NoiseFunc) EngineOption {
	return func(e *Engine) { e.noise = n }
}

// WithClock fixes the engine's notion of "today".
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func NewEngine(c cache.TrackCache, opts ...EngineOption) *Engine {
	e := &Engine{
		cache: c,
		noise: RandomNoise,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AnalyzeTrack executes the full pipeline for one request. Pure apart from
// the historical noise path; repeated calls will not reproduce identical
// historical series, which is intentional.
func (e *Engine) AnalyzeTrack(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error) {
	started := time.Now()

	track, err := e.resolveTrack(ctx, req)
	if err != nil {
		monitoring.AnalysisErrors.WithLabelValues("track_not_found").Inc()
		return nil, err
	}

	today := midnightUTC(e.now())
	params := DeriveParameters(*track, req.Variant, today)
	if err := ValidateParameters(params, req.Variant); err != nil {
		// Deriver defect, not a runtime condition. Fail loudly.
		monitoring.AnalysisErrors.WithLabelValues("invalid_parameters").Inc()
		return nil, fmt.Errorf("[Engine] parameter derivation violated its clamp contract: %w", err)
	}

	historyStart := today.AddDate(0, 0, -(DefaultHistoryDays - 1))
	history, err := SimulateHistory(params, historyStart, DefaultHistoryDays, req.Variant, track, e.noise)
	if err != nil {
		monitoring.AnalysisErrors.WithLabelValues("simulation").Inc()
		return nil, fmt.Errorf("[Engine] historical simulation failed: %w", err)
	}

	horizon := req.HorizonDays
	if horizon <= 0 {
		horizon = DefaultPredictionDays
	}

	predictions, scenario, err := Forecast(*track, params, history, horizon, req.Variant)
	if err != nil {
		monitoring.AnalysisErrors.WithLabelValues("forecast").Inc()
		return nil, fmt.Errorf("[Engine] forecast failed: %w", err)
	}
	predictions = SmoothPredictions(predictions, scenario, req.Variant)

	insights := AnalyzeInsights(history, predictions, req.Variant, *track)

	monitoring.AnalysesTotal.WithLabelValues(string(req.Variant)).Inc()
	monitoring.AnalysisDuration.Observe(time.Since(started).Seconds())

	slog.Info("[Engine] Analysis complete",
		slog.String("track", track.Title),
		slog.String("artist", track.Artist),
		slog.String("variant", string(req.Variant)),
		slog.String("scenario", scenario.Name),
		slog.String("outlook", insights.FutureOutlook))

	return &models.AnalysisResponse{
		AnalysisID:  uuid.NewString(),
		Track:       *track,
		Variant:     req.Variant,
		Parameters:  params,
		History:     history,
		Predictions: predictions,
		Insights:    insights,
	}, nil
}

// resolveTrack prefers an inline payload over the cache; a payload with an
// id refreshes the cache entry for subsequent id-only requests.
func (e *Engine) resolveTrack(ctx context.Context, req models.AnalysisRequest) (*models.Track, error) {
	if req.Track != nil {
		t := *req.Track
		if t.ID == "" {
			t.ID = req.TrackID
		}
		if t.ID != "" && e.cache != nil {
			e.cache.Put(ctx, t.ID, t)
		}
		return &t, nil
	}

	if e.cache != nil {
		if t, ok := e.cache.Get(ctx, req.TrackID); ok {
			monitoring.CacheHits.Inc()
			return t, nil
		}
		monitoring.CacheMisses.Inc()
	}

	slog.Warn("[Engine] Track lookup missed", slog.String("track_id", req.TrackID))
	return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, req.TrackID)
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
