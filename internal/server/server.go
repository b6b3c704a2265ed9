// Package server exposes the dashboard and reporting surface over HTTP.
// Handlers stay thin: they decode, invoke the core and render its results.
package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"maktaba/internal/models"
	"maktaba/internal/report"
	"maktaba/internal/repository"
)

// Server handles HTTP requests for the dashboard API.
type Server struct {
	books        *repository.Repository[models.Book, models.BookPatch]
	participants *repository.Repository[models.Participant, models.ParticipantPatch]
	reports      *report.Service
	logger       *zap.Logger
}

// New creates a dashboard API server.
func New(
	books *repository.Repository[models.Book, models.BookPatch],
	participants *repository.Repository[models.Participant, models.ParticipantPatch],
	reports *report.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		books:        books,
		participants: participants,
		reports:      reports,
		logger:       logger,
	}
}

// RegisterRoutes registers the API routes on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/books", s.instrument("/api/books", s.handleBooks))
	mux.HandleFunc("/api/books/", s.instrument("/api/books/{id}", s.handleBookByID))
	mux.HandleFunc("/api/participants", s.instrument("/api/participants", s.handleParticipants))
	mux.HandleFunc("/api/participants/", s.instrument("/api/participants/{id}", s.handleParticipantByID))
	mux.HandleFunc("/api/reports", s.instrument("/api/reports", s.handleReports))
	mux.HandleFunc("/api/reports/export", s.instrument("/api/reports/export", s.handleReportExport))
	mux.HandleFunc("/api/calendar", s.instrument("/api/calendar", s.handleCalendar))
	mux.HandleFunc("/api/stats/status", s.instrument("/api/stats/status", s.handleStatusStats))
	mux.HandleFunc("/api/stats/monthly", s.instrument("/api/stats/monthly", s.handleMonthlyStats))
	mux.HandleFunc("/api/stats/levels", s.instrument("/api/stats/levels", s.handleLevelStats))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeFieldErrors(w http.ResponseWriter, errs models.FieldErrors) {
	s.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
}
