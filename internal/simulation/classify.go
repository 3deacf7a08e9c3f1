package simulation

import (
	"strings"
	"time"

	"github.com/spacesedan/tunecast/internal/models"
)

// Genres that historically correlate with share-driven listener spikes.
var viralGenres = map[string]struct{}{
	"pop":        {},
	"hip-hop":    {},
	"hip hop":    {},
	"rap":        {},
	"dance":      {},
	"electronic": {},
	"edm":        {},
	"k-pop":      {},
	"reggaeton":  {},
	"trap":       {},
	"latin":      {},
}

// Classification places a track on the three axes that drive parameter
// derivation, initial compartment splits and scenario weighting.
type Classification struct {
	Age        int
	Popularity float64
	IsNew      bool
	IsRecent   bool
	IsClassic  bool
	IsViral    bool
}

// ClassifyTrack derives the classification from release year and genre
// tags. A missing release year counts as released this year. The recency
// window is wider for SEIR, whose exposure lag stretches adoption out.
func ClassifyTrack(t models.Track, variant models.ModelVariant, now time.Time) Classification {
	age := 0
	if t.ReleaseYear > 0 {
		age = now.Year() - t.ReleaseYear
		if age < 0 {
			age = 0
		}
	}

	recentWindow := 2
	if variant == models.VariantSEIR {
		recentWindow = 3
	}

	return Classification{
		Age:        age,
		Popularity: t.Popularity,
		IsNew:      age <= 1,
		IsRecent:   age <= recentWindow,
		IsClassic:  age > 20,
		IsViral:    hasViralGenre(t.Genres),
	}
}

func hasViralGenre(genres []string) bool {
	for _, g := range genres {
		if _, ok := viralGenres[strings.ToLower(strings.TrimSpace(g))]; ok {
			return true
		}
	}
	return false
}
