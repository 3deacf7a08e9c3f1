package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/spacesedan/tunecast/internal/models"
	"github.com/spacesedan/tunecast/internal/simulation"
)

// HandleAnalysis runs one full analysis. The request carries a track id, a
// model variant, an optional inline track payload (used preferentially
// over any cached copy) and an optional forecast horizon.
func (h *Handler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Track != nil {
		if err := h.validate.Struct(req.Track); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	resp, err := h.engine.AnalyzeTrack(r.Context(), req)
	if err != nil {
		if errors.Is(err, simulation.ErrTrackNotFound) {
			writeError(w, http.StatusNotFound, "track not found, please search again")
			return
		}
		slog.Error("[HTTP] Analysis failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
