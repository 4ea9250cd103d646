package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/bobmcallan/navcalc/internal/models"
)

// handleFundsActive handles GET /api/funds/active with search, category,
// sorting and paging query params.
func (s *Server) handleFundsActive(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sortOrder := 1
	if strings.EqualFold(r.URL.Query().Get("sortOrder"), "desc") {
		sortOrder = -1
	}

	query := models.FundsQuery{
		Page:      QueryInt(r, "page", 1),
		Limit:     QueryInt(r, "limit", 50),
		Search:    r.URL.Query().Get("search"),
		Category:  r.URL.Query().Get("category"),
		SortBy:    r.URL.Query().Get("sortBy"),
		SortOrder: sortOrder,
	}

	result, err := s.app.FundsService.ActiveFunds(r.Context(), query)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleFundsStats handles GET /api/funds/active/stats.
func (s *Server) handleFundsStats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats, err := s.app.FundsService.Stats(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// handleFundsSync handles POST (start a sync) and GET (last job status)
// on /api/funds/sync. A sync can take minutes over the full directory, so
// POST runs it in the background and returns 202.
func (s *Server) handleFundsSync(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if s.app.FundsService.SyncRunning() {
			WriteError(w, http.StatusConflict, "fund directory sync already in progress")
			return
		}

		// The request context ends with the response; the sync must outlive it.
		go func() {
			if _, err := s.app.FundsService.Sync(context.Background()); err != nil {
				s.logger.Warn().Err(err).Msg("Background fund sync failed")
			}
		}()

		WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sync started"})
	case http.MethodGet:
		job, err := s.app.FundsService.LastSync(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"running":  s.app.FundsService.SyncRunning(),
			"last_job": job,
		})
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}
