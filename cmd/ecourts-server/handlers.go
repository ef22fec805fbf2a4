package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/download"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/logging"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/models"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/scraper"
)

// apiServer wires the scraper, download service, and session manager
// into HTTP handlers.
type apiServer struct {
	portal  *scraper.Scraper
	svc     *download.Service
	manager *download.Manager
	logger  zerolog.Logger
}

func newAPIServer(portal *scraper.Scraper, svc *download.Service, manager *download.Manager) *apiServer {
	return &apiServer{
		portal:  portal,
		svc:     svc,
		manager: manager,
		logger:  logging.NewLogger("api"),
	}
}

func (s *apiServer) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/states", s.handleStates)
	mux.HandleFunc("GET /api/districts/{state_code}", s.handleDistricts)
	mux.HandleFunc("GET /api/court-complexes/{state_code}/{district_code}", s.handleComplexes)
	mux.HandleFunc("GET /api/courts/{complex_code}", s.handleCourts)
	mux.HandleFunc("POST /api/download", s.handleDownload)
	mux.HandleFunc("POST /api/download/bulk", s.handleBulkDownload)
	mux.HandleFunc("GET /api/download/status/{session_id}", s.handleDownloadStatus)
	mux.HandleFunc("DELETE /api/download/{session_id}", s.handleCancelDownload)
	mux.HandleFunc("GET /api/downloads/active", s.handleActiveDownloads)
	mux.HandleFunc("GET /api/stats", s.handleStats)
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.portal.GetStates(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("States lookup failed")
		writeError(w, http.StatusServiceUnavailable, "failed to fetch states")
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func (s *apiServer) handleDistricts(w http.ResponseWriter, r *http.Request) {
	districts, err := s.portal.GetDistricts(r.Context(), r.PathValue("state_code"))
	if err != nil {
		s.logger.Error().Err(err).Msg("Districts lookup failed")
		writeError(w, http.StatusServiceUnavailable, "failed to fetch districts")
		return
	}
	writeJSON(w, http.StatusOK, districts)
}

func (s *apiServer) handleComplexes(w http.ResponseWriter, r *http.Request) {
	complexes, err := s.portal.GetCourtComplexes(r.Context(),
		r.PathValue("state_code"), r.PathValue("district_code"))
	if err != nil {
		s.logger.Error().Err(err).Msg("Court complexes lookup failed")
		writeError(w, http.StatusServiceUnavailable, "failed to fetch court complexes")
		return
	}
	writeJSON(w, http.StatusOK, complexes)
}

func (s *apiServer) handleCourts(w http.ResponseWriter, r *http.Request) {
	courts, err := s.portal.GetCourts(r.Context(), r.PathValue("complex_code"))
	if err != nil {
		s.logger.Error().Err(err).Msg("Courts lookup failed")
		writeError(w, http.StatusServiceUnavailable, "failed to fetch courts")
		return
	}
	writeJSON(w, http.StatusOK, courts)
}

func (s *apiServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req models.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CourtCode == "" {
		writeError(w, http.StatusBadRequest, "court_code is required")
		return
	}

	result := s.svc.DownloadSingle(r.Context(), req)
	writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleBulkDownload(w http.ResponseWriter, r *http.Request) {
	var req models.BulkDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID := s.manager.Start(req)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"session_id": sessionID,
		"status":     string(download.StatusStarting),
	})
}

func (s *apiServer) handleDownloadStatus(w http.ResponseWriter, r *http.Request) {
	view, err := s.manager.Status(r.PathValue("session_id"))
	if err != nil {
		if errors.Is(err, download.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read session")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *apiServer) handleCancelDownload(w http.ResponseWriter, r *http.Request) {
	err := s.manager.Cancel(r.PathValue("session_id"))
	switch {
	case errors.Is(err, download.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, download.ErrSessionFinished):
		writeError(w, http.StatusConflict, "session already finished")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to cancel session")
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"session_id": r.PathValue("session_id"),
			"status":     string(download.StatusCancelled),
		})
	}
}

func (s *apiServer) handleActiveDownloads(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.ListActive())
}

func (s *apiServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Statistics()
	if err != nil {
		s.logger.Error().Err(err).Msg("Statistics collection failed")
		writeError(w, http.StatusInternalServerError, "failed to collect statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
