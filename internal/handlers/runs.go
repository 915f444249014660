package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rgoodwin/leaguelotto/internal/repository"
)

// handleListRuns returns summaries of all stored runs, newest first
func (h *Handlers) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Results.ListRuns(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if runs == nil {
		runs = []repository.RunSummary{}
	}
	respondOK(w, RunListResponse{Runs: runs})
}

// handleGetRun returns the full results document for one run
func (h *Handlers) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := h.Results.GetRun(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, doc)
}

// handleRunLottery re-runs the lottery from the configured input files
func (h *Handlers) handleRunLottery(w http.ResponseWriter, r *http.Request) {
	// An empty body means "run with defaults"
	var req RunLotteryRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	doc, err := h.Lottery.RunFromSource(r.Context(), seed)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, doc)
}

// handleDeleteRun removes a stored run
func (h *Handlers) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Results.DeleteRun(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// handleGetLeague returns a single league's results from a stored run
func (h *Handlers) handleGetLeague(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	leagueID, err := parseIntParam(r, "leagueID")
	if err != nil {
		respondError(w, err)
		return
	}

	league, err := h.Results.GetLeague(r.Context(), runID, leagueID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, league)
}

// handleGetLeagueQR returns a QR code PNG linking to a league roster
func (h *Handlers) handleGetLeagueQR(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	leagueID, err := parseIntParam(r, "leagueID")
	if err != nil {
		respondError(w, err)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	baseURL := fmt.Sprintf("%s://%s", scheme, r.Host)

	png, err := h.Results.RosterQR(r.Context(), runID, leagueID, baseURL)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
