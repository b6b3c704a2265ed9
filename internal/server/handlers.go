package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"maktaba/internal/models"
)

// handleBooks serves the book collection: GET lists, POST creates.
func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		books, err := s.books.FetchAll(r.Context())
		if err != nil {
			s.writeError(w, http.StatusBadGateway, s.books.LastError())
			return
		}
		if books == nil {
			books = []models.Book{}
		}
		s.writeJSON(w, http.StatusOK, books)
	case http.MethodPost:
		var draft models.Book
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			s.logger.Warn("Failed to decode book payload", zap.Error(err))
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if errs := draft.ValidateDraft(); errs != nil {
			s.writeFieldErrors(w, errs)
			return
		}
		book, err := s.books.Create(r.Context(), draft)
		if err != nil {
			s.writeError(w, http.StatusBadGateway, s.books.LastError())
			return
		}
		s.writeJSON(w, http.StatusCreated, book)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleBookByID serves a single book: PATCH updates, DELETE removes.
// PATCH /api/books/{id}/status and /api/books/{id}/publish-status are the
// single-field convenience paths used by the workflow board.
func (s *Server) handleBookByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/books/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		s.writeError(w, http.StatusNotFound, "missing book id")
		return
	}

	switch {
	case action == "" && (r.Method == http.MethodPatch || r.Method == http.MethodPut):
		var patch models.BookPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			s.logger.Warn("Failed to decode book patch", zap.Error(err))
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		book, err := s.books.Update(r.Context(), id, patch)
		if err != nil {
			s.writeError(w, http.StatusBadGateway, s.books.LastError())
			return
		}
		s.writeJSON(w, http.StatusOK, book)
	case action == "" && r.Method == http.MethodDelete:
		if err := s.books.Delete(r.Context(), id); err != nil {
			s.writeError(w, http.StatusBadGateway, s.books.LastError())
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	case action == "status" && r.Method == http.MethodPatch:
		s.patchBookStatus(w, r, id)
	case action == "publish-status" && r.Method == http.MethodPatch:
		s.patchPublishStatus(w, r, id)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) patchBookStatus(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Status models.BookStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !body.Status.Valid() {
		s.writeFieldErrors(w, models.FieldErrors{"status": "unknown status"})
		return
	}
	book, err := s.books.Update(r.Context(), id, models.BookPatch{Status: &body.Status})
	if err != nil {
		s.writeError(w, http.StatusBadGateway, s.books.LastError())
		return
	}
	s.writeJSON(w, http.StatusOK, book)
}

func (s *Server) patchPublishStatus(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		PublishStatus models.PublishStatus `json:"publishStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !body.PublishStatus.Valid() {
		s.writeFieldErrors(w, models.FieldErrors{"publishStatus": "unknown publish status"})
		return
	}
	book, err := s.books.Update(r.Context(), id, models.BookPatch{PublishStatus: &body.PublishStatus})
	if err != nil {
		s.writeError(w, http.StatusBadGateway, s.books.LastError())
		return
	}
	s.writeJSON(w, http.StatusOK, book)
}

// handleParticipants serves the participant collection: GET lists, POST
// creates.
func (s *Server) handleParticipants(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		participants, err := s.participants.FetchAll(r.Context())
		if err != nil {
			s.writeError(w, http.StatusBadGateway, s.participants.LastError())
			return
		}
		if participants == nil {
			participants = []models.Participant{}
		}
		s.writeJSON(w, http.StatusOK, participants)
	case http.MethodPost:
		var draft models.Participant
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			s.logger.Warn("Failed to decode participant payload", zap.Error(err))
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if errs := draft.ValidateDraft(); errs != nil {
			s.writeFieldErrors(w, errs)
			return
		}
		participant, err := s.participants.Create(r.Context(), draft)
		if err != nil {
			s.writeError(w, http.StatusBadGateway, s.participants.LastError())
			return
		}
		s.writeJSON(w, http.StatusCreated, participant)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleParticipantByID serves a single participant: PATCH updates, DELETE
// removes, GET /api/participants/{id}/books lists the participant's assigned
// books without touching the shared book cache.
func (s *Server) handleParticipantByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/participants/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		s.writeError(w, http.StatusNotFound, "missing participant id")
		return
	}

	switch {
	case action == "books" && r.Method == http.MethodGet:
		books, err := s.books.FetchRelated(r.Context(), id)
		if err != nil {
			s.writeError(w, http.StatusBadGateway, s.books.LastError())
			return
		}
		if books == nil {
			books = []models.Book{}
		}
		s.writeJSON(w, http.StatusOK, books)
	case action == "" && (r.Method == http.MethodPatch || r.Method == http.MethodPut):
		var patch models.ParticipantPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			s.logger.Warn("Failed to decode participant patch", zap.Error(err))
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		participant, err := s.participants.Update(r.Context(), id, patch)
		if err != nil {
			s.writeError(w, http.StatusBadGateway, s.participants.LastError())
			return
		}
		s.writeJSON(w, http.StatusOK, participant)
	case action == "" && r.Method == http.MethodDelete:
		if err := s.participants.Delete(r.Context(), id); err != nil {
			s.writeError(w, http.StatusBadGateway, s.participants.LastError())
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
