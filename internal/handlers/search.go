package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/spacesedan/tunecast/internal/monitoring"
)

// HandleSearch proxies the catalog collaborator and primes the track cache
// so a follow-up analysis request can refer to a result by id alone.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	monitoring.CatalogSearches.Inc()

	tracks, err := h.catalog.SearchTracks(r.Context(), term, limit)
	if err != nil {
		slog.Error("[HTTP] Catalog search failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "catalog search failed")
		return
	}

	for _, t := range tracks {
		h.cache.Put(r.Context(), t.ID, t)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(tracks),
		"tracks": tracks,
	})
}
