package server

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maktaba/internal/export"
	"maktaba/internal/models"
	"maktaba/internal/report"
	"maktaba/internal/repository"
	"maktaba/internal/storage/fixtures"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	bookSrc := fixtures.NewBookSource().WithDelay(0)
	participantSrc := fixtures.NewParticipantSource().WithDelay(0)

	books := repository.New[models.Book, models.BookPatch](repository.Config{
		Name:       "books",
		SortColumn: "updated_at",
		ForeignKey: "reader_id",
	}, bookSrc, logger)
	participants := repository.New[models.Participant, models.ParticipantPatch](repository.Config{
		Name:       "participants",
		SortColumn: "updated_at",
	}, participantSrc, logger)
	reports := report.NewService(bookSrc, logger)

	mux := http.NewServeMux()
	New(books, participants, reports, logger).RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestListBooks(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/books")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var books []models.Book
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&books))
	require.Len(t, books, 3)
	// Sorted newest-first by update time.
	assert.Equal(t, "b3", books[0].ID)
}

func TestCreateBookValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	body := strings.NewReader(`{"title": "", "readerId": "p1"}`)
	resp, err := http.Post(srv.URL+"/api/books", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Contains(t, payload.Errors, "title")
	assert.Contains(t, payload.Errors, "status")
}

func TestCreateBookMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/books", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListParticipants(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/participants")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var participants []models.Participant
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&participants))
	assert.Len(t, participants, 3)
}

func TestParticipantBooks(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/participants/p1/books")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var books []models.Book
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&books))
	require.Len(t, books, 1)
	assert.Equal(t, "b1", books[0].ID)
}

func TestReportsFilter(t *testing.T) {
	srv := newTestServer(t)

	body := strings.NewReader(`{"readerName": "أحمد"}`)
	resp, err := http.Post(srv.URL+"/api/reports", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var books []models.Book
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&books))
	require.Len(t, books, 1)
	assert.Equal(t, "b1", books[0].ID)
}

func TestReportsEmptyBodyReturnsAll(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/reports", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var books []models.Book
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&books))
	assert.Len(t, books, 3)
}

func TestReportExportCSV(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/reports/export", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4) // header plus three fixture books
	assert.Equal(t, export.Headers, records[0])
}

func TestReportExportPDFNotImplemented(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/reports/export?format=pdf", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestCalendar(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/calendar?year=2025&month=6")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []models.CalendarEvent
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	assert.Len(t, events, 3)
}

func TestCalendarInvalidMonth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/calendar?year=2025&month=13")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusStats(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/stats/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Statuses  models.StatusTally `json:"statuses"`
		Published int                `json:"published"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, 1, payload.Statuses.OnTrial)
	assert.Equal(t, 1, payload.Statuses.UnderReview)
	assert.Equal(t, 1, payload.Statuses.SentForApproval)
	assert.Equal(t, 3, payload.Statuses.Total)
	// b3 is audio_published; the count must be right on a cold server that
	// has served no other request.
	assert.Equal(t, 1, payload.Published)
}

func TestMonthlyStats(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/stats/monthly?year=2025")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats []models.MonthlyStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	require.Len(t, stats, 12)

	total := 0
	for _, m := range stats {
		total += m.Total
	}
	assert.Equal(t, 3, total)
}

func TestLevelStats(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/stats/levels")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var shares []models.LevelShare
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&shares))
	require.Len(t, shares, 3)

	counts := map[models.ParticipantLevel]int{}
	for _, s := range shares {
		counts[s.Level] = s.Count
	}
	assert.Equal(t, 1, counts[models.LevelTrainee])
	assert.Equal(t, 1, counts[models.LevelAdjudicator])
	assert.Equal(t, 1, counts[models.LevelReader])
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/reports", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/books")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestUpdateAgainstReadOnlySourceFails(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/api/books/b1",
		strings.NewReader(`{"reviewerNotes": "note"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
