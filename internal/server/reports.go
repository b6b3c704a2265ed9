package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"maktaba/internal/export"
	"maktaba/internal/models"
	"maktaba/internal/report"
)

// handleReports runs a filtered report query. POST with a ReportFilter body;
// an empty body means no constraints.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	filter, ok := s.decodeFilter(w, r)
	if !ok {
		return
	}
	books, err := s.reports.FilteredBooks(r.Context(), filter)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "failed to fetch report")
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	s.writeJSON(w, http.StatusOK, books)
}

// handleReportExport streams a filtered report as a file download.
// The format query parameter defaults to csv; pdf is recognized but
// permanently unimplemented.
func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatCSV
	}
	if format != export.FormatCSV {
		s.writeError(w, http.StatusNotImplemented, fmt.Sprintf("export format %q is not available", format))
		return
	}
	filter, ok := s.decodeFilter(w, r)
	if !ok {
		return
	}
	books, err := s.reports.FilteredBooks(r.Context(), filter)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "failed to fetch report")
		return
	}

	filename := export.Filename(format, time.Now())
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	if err := export.Write(w, format, books); err != nil {
		// Headers are already written; log and give up on the stream.
		s.logger.Error("Failed to stream export", zap.Error(err))
	}
}

func (s *Server) decodeFilter(w http.ResponseWriter, r *http.Request) (models.ReportFilter, bool) {
	var filter models.ReportFilter
	if r.Body == nil || r.ContentLength == 0 {
		return filter, true
	}
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		s.logger.Warn("Failed to decode report filter", zap.Error(err))
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return filter, false
	}
	return filter, true
}

// handleCalendar returns the calendar events for one month:
// GET /api/calendar?year=2025&month=6.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		s.writeError(w, http.StatusBadRequest, "invalid month")
		return
	}
	events, err := s.reports.CalendarEvents(r.Context(), year, time.Month(month))
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "failed to fetch calendar events")
		return
	}
	if events == nil {
		events = []models.CalendarEvent{}
	}
	s.writeJSON(w, http.StatusOK, events)
}

// handleStatusStats returns the status tally plus the published count. Both
// numbers come from the same fetch so the response never mixes datasets.
func (s *Server) handleStatusStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	books, err := s.reports.FilteredBooks(r.Context(), models.ReportFilter{})
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "failed to fetch status stats")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"statuses":  report.TallyStatuses(books),
		"published": report.CountPublished(books),
	})
}

// handleMonthlyStats returns the twelve monthly buckets:
// GET /api/stats/monthly?year=2025.
func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	stats, err := s.reports.MonthlyStats(r.Context(), year)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "failed to fetch monthly stats")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

// handleLevelStats returns the participant level distribution computed over
// a fresh fetch of the participant collection.
func (s *Server) handleLevelStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	participants, err := s.participants.FetchAll(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, s.participants.LastError())
		return
	}
	s.writeJSON(w, http.StatusOK, report.LevelDistribution(participants))
}
