package server

import (
	"net/http"

	"github.com/bobmcallan/navcalc/internal/models"
)

// handleLumpsum handles POST /api/schemes/{code}/lumpsum.
func (s *Server) handleLumpsum(w http.ResponseWriter, r *http.Request, code string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.LumpsumRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.CalculatorService.Lumpsum(r.Context(), code, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleSIP handles POST /api/schemes/{code}/sip.
func (s *Server) handleSIP(w http.ResponseWriter, r *http.Request, code string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.SIPRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.CalculatorService.SIP(r.Context(), code, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleStepUpSIP handles POST /api/schemes/{code}/stepup-sip.
func (s *Server) handleStepUpSIP(w http.ResponseWriter, r *http.Request, code string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.StepUpSIPRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.CalculatorService.StepUpSIP(r.Context(), code, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleSWP handles POST /api/schemes/{code}/swp.
func (s *Server) handleSWP(w http.ResponseWriter, r *http.Request, code string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.SWPRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.CalculatorService.SWP(r.Context(), code, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleStepUpSWP handles POST /api/schemes/{code}/stepup-swp.
func (s *Server) handleStepUpSWP(w http.ResponseWriter, r *http.Request, code string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.StepUpSWPRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.CalculatorService.StepUpSWP(r.Context(), code, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleReturns handles GET and POST /api/schemes/{code}/returns.
// GET computes the two-point return over from/to query params; POST
// partitions the range into calendar windows per the request body.
func (s *Server) handleReturns(w http.ResponseWriter, r *http.Request, code string) {
	switch r.Method {
	case http.MethodGet:
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		result, err := s.app.CalculatorService.SimpleReturn(r.Context(), code, from, to)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, result)
	case http.MethodPost:
		var req models.PeriodReturnsRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		result, err := s.app.CalculatorService.PeriodReturns(r.Context(), code, req)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, result)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleRollingReturns handles GET and POST /api/schemes/{code}/rolling-returns.
// GET reads on/interval/annualize from query params.
func (s *Server) handleRollingReturns(w http.ResponseWriter, r *http.Request, code string) {
	var req models.RollingReturnsRequest

	switch r.Method {
	case http.MethodGet:
		req.On = r.URL.Query().Get("on")
		req.Interval = r.URL.Query().Get("interval")
		req.Annualize = QueryBool(r, "annualize")
	case http.MethodPost:
		if !DecodeJSON(w, r, &req) {
			return
		}
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
		return
	}

	result, err := s.app.CalculatorService.RollingReturns(r.Context(), code, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleRollingSeries handles POST /api/schemes/{code}/rolling-returns-series.
func (s *Server) handleRollingSeries(w http.ResponseWriter, r *http.Request, code string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.RollingSeriesRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.CalculatorService.RollingSeries(r.Context(), code, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
