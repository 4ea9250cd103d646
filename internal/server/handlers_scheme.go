package server

import (
	"net/http"
)

// handleSchemeList handles GET /api/schemes with optional search, paging
// and active-only filtering.
func (s *Server) handleSchemeList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	search := r.URL.Query().Get("search")
	page := QueryInt(r, "page", 1)
	limit := QueryInt(r, "limit", 50)
	activeOnly := QueryBool(r, "activeOnly")

	result, err := s.app.SchemeService.ListSchemes(r.Context(), search, page, limit, activeOnly)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleSchemeDetail handles GET /api/schemes/{code}.
func (s *Server) handleSchemeDetail(w http.ResponseWriter, r *http.Request, code string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	detail, err := s.app.SchemeService.SchemeDetail(r.Context(), code)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, detail)
}

// handleSchemeChart handles GET /api/schemes/{code}/chart and returns a
// PNG of the NAV history, optionally clipped by from/to query params.
func (s *Server) handleSchemeChart(w http.ResponseWriter, r *http.Request, code string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	png, err := s.app.SchemeService.RenderNavChart(r.Context(), code, from, to)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleSchemeCache handles DELETE /api/schemes/{code}/cache, dropping
// the cached provider payload so the next read refetches.
func (s *Server) handleSchemeCache(w http.ResponseWriter, r *http.Request, code string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	if err := s.app.SchemeService.Invalidate(r.Context(), code); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "invalidated", "code": code})
}
