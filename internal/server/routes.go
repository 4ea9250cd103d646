package server

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/bobmcallan/navcalc/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)
	mux.HandleFunc("/debug/memstats", s.handleMemstats)

	// Schemes and calculators
	mux.HandleFunc("/api/schemes/", s.routeSchemes)
	mux.HandleFunc("/api/schemes", s.handleSchemeList)

	// Fund directory
	mux.HandleFunc("/api/funds/active/stats", s.handleFundsStats)
	mux.HandleFunc("/api/funds/active", s.handleFundsActive)
	mux.HandleFunc("/api/funds/sync", s.handleFundsSync)
}

// routeSchemes dispatches /api/schemes/{code}/* to the appropriate handler.
func (s *Server) routeSchemes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/schemes/")
	if path == "" {
		s.handleSchemeList(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	code := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	switch subpath {
	case "":
		s.handleSchemeDetail(w, r, code)
	case "chart":
		s.handleSchemeChart(w, r, code)
	case "cache":
		s.handleSchemeCache(w, r, code)
	case "lumpsum":
		s.handleLumpsum(w, r, code)
	case "sip":
		s.handleSIP(w, r, code)
	case "stepup-sip":
		s.handleStepUpSIP(w, r, code)
	case "swp":
		s.handleSWP(w, r, code)
	case "stepup-swp":
		s.handleStepUpSWP(w, r, code)
	case "returns":
		s.handleReturns(w, r, code)
	case "rolling-returns":
		s.handleRollingReturns(w, r, code)
	case "rolling-returns-series":
		s.handleRollingSeries(w, r, code)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	uptime := time.Since(s.app.StartupTime).Round(time.Second)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":    cfg.Environment,
		"uptime":         uptime.String(),
		"started_at":     s.app.StartupTime,
		"provider_url":   cfg.Clients.MFAPI.BaseURL,
		"cache_ttl":      cfg.Clients.MFAPI.CacheTTL,
		"cache_path":     cfg.Storage.Cache.Path,
		"funds_path":     cfg.Storage.Funds.Path,
		"sync_enabled":   cfg.Scheduler.SyncEnabled,
		"sync_interval":  cfg.Scheduler.SyncInterval,
		"sync_running":   s.app.FundsService.SyncRunning(),
		"logging_level":  cfg.Logging.Level,
		"logging_format": cfg.Logging.Format,
	})
}

func (s *Server) handleMemstats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"heap_alloc_bytes": m.HeapAlloc,
		"heap_inuse_bytes": m.HeapInuse,
		"heap_idle_bytes":  m.HeapIdle,
		"sys_bytes":        m.Sys,
		"num_gc":           m.NumGC,
		"heap_alloc_mb":    float64(m.HeapAlloc) / 1024 / 1024,
		"heap_inuse_mb":    float64(m.HeapInuse) / 1024 / 1024,
		"heap_idle_mb":     float64(m.HeapIdle) / 1024 / 1024,
		"sys_mb":           float64(m.Sys) / 1024 / 1024,
	})
}
