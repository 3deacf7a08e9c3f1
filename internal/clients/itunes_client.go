package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/spacesedan/tunecast/internal/models"
)

const (
	ITUNES_SEARCH_ENDPOINT = "https://itunes.apple.com/search"
	MAX_RETRIES            = 5
	INITIAL_BACKOFF        = 1 * time.Second
	MAX_BACKOFF            = 32 * time.Second
	DEFAULT_SEARCH_LIMIT   = 25
)

var (
	itunesInstance *ITunesClient
	itunesOnce     sync.Once
)

// ITunesClient is the catalog search collaborator. The iTunes Search API is
// unauthenticated; the client only needs retry handling for rate limits and
// server hiccups.
type ITunesClient struct {
	Client  *http.Client
	BaseURL string
}

func GetITunesClient() *ITunesClient {
	itunesOnce.Do(func() {
		itunesInstance = &ITunesClient{
			Client:  &http.Client{Timeout: 10 * time.Second},
			BaseURL: ITUNES_SEARCH_ENDPOINT,
		}
	})
	return itunesInstance
}

// SearchTracks queries the catalog, deduplicates by title+artist and maps
// the results to Tracks with a synthesized popularity score.
func (c *ITunesClient) SearchTracks(ctx context.Context, term string, limit int) ([]models.Track, error) {
	if strings.TrimSpace(term) == "" {
		return nil, errors.New("[ITunesClient] search term is empty")
	}
	if limit <= 0 || limit > 50 {
		limit = DEFAULT_SEARCH_LIMIT
	}

	endpoint := c.BaseURL + "?" + url.Values{
		"term":   {term},
		"media":  {"music"},
		"entity": {"song"},
		"limit":  {strconv.Itoa(limit)},
	}.Encode()

	response, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	return rankAndDedupe(response.Results), nil
}

func (c *ITunesClient) fetch(ctx context.Context, endpoint string) (*models.ITunesSearchResponse, error) {
	var lastErr error
	backoff := INITIAL_BACKOFF

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		slog.Info("[ITunesClient] Searching catalog", slog.Int("attempt", attempt))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		res, err := c.Client.Do(req)
		if err != nil {
			slog.Error("[ITunesClient] Request failed", slog.String("error", err.Error()))
			lastErr = err
		} else {
			body, readErr := io.ReadAll(res.Body)
			res.Body.Close()

			switch res.StatusCode {
			case http.StatusOK:
				if readErr != nil {
					slog.Error("[ITunesClient] Failed to read response body", slog.String("error", readErr.Error()))
					return nil, readErr
				}
				var response models.ITunesSearchResponse
				if err := json.Unmarshal(body, &response); err != nil {
					slog.Error("[ITunesClient] Failed to parse JSON response", slog.String("error", err.Error()))
					return nil, err
				}
				slog.Info("[ITunesClient] Successfully fetched results",
					slog.Int("count", response.ResultCount))
				return &response, nil
			case http.StatusBadRequest:
				slog.Warn("[ITunesClient] Bad request: check query parameters")
				return nil, errors.New("[ITunesClient] bad request: check query parameters")
			case http.StatusForbidden, http.StatusTooManyRequests:
				slog.Warn("[ITunesClient] Rate limited, retrying...",
					slog.Duration("backoff", backoff), slog.Int("attempt", attempt))
				time.Sleep(backoff)
				backoff *= 2
				if backoff > MAX_BACKOFF {
					backoff = MAX_BACKOFF
				}
			case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
				slog.Warn("[ITunesClient] Server error",
					slog.Int("statusCode", res.StatusCode),
					slog.Duration("backoff", backoff), slog.Int("attempt", attempt))
				time.Sleep(backoff)
				backoff *= 2
				if backoff > MAX_BACKOFF {
					backoff = MAX_BACKOFF
				}
			default:
				slog.Warn("[ITunesClient] Unexpected response", slog.Int("statusCode", res.StatusCode))
				return nil, fmt.Errorf("[ITunesClient] unexpected status code %d", res.StatusCode)
			}
		}

		if attempt == MAX_RETRIES {
			slog.Error("[ITunesClient] Failed after max retries")
			lastErr = errors.New("[ITunesClient] failed after max retries")
		}
	}
	return nil, lastErr
}

// rankAndDedupe keeps the first (most relevant) hit per title+artist pair
// and synthesizes the popularity score from rank and release recency.
func rankAndDedupe(results []models.ITunesResult) []models.Track {
	seen := make(map[string]struct{}, len(results))
	tracks := make([]models.Track, 0, len(results))
	currentYear := time.Now().UTC().Year()

	for _, r := range results {
		key := strings.ToLower(r.TrackName) + "|" + strings.ToLower(r.ArtistName)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		releaseYear := parseReleaseYear(r.ReleaseDate)
		rank := len(tracks)

		popularity := 95.0 - float64(rank)*3
		if releaseYear > 0 && currentYear-releaseYear <= 2 {
			popularity += 8
		}
		if popularity > 100 {
			popularity = 100
		}
		if popularity < 5 {
			popularity = 5
		}

		var genres []string
		if r.PrimaryGenreName != "" {
			genres = []string{r.PrimaryGenreName}
		}

		tracks = append(tracks, models.Track{
			ID:          strconv.FormatInt(r.TrackID, 10),
			Title:       r.TrackName,
			Artist:      r.ArtistName,
			Album:       r.CollectionName,
			ReleaseYear: releaseYear,
			Genres:      genres,
			Popularity:  popularity,
		})
	}
	return tracks
}

func parseReleaseYear(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}
