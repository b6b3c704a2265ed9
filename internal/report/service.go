package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"maktaba/internal/models"
	"maktaba/internal/storage"
)

// Service answers report, calendar and scheduling queries against the book
// source. It never keeps state of its own; derived views are recomputed on
// every call.
type Service struct {
	books  storage.DataSource[models.Book, models.BookPatch]
	logger *zap.Logger
}

// NewService builds a report service over the given book source.
func NewService(books storage.DataSource[models.Book, models.BookPatch], logger *zap.Logger) *Service {
	return &Service{books: books, logger: logger}
}

// FilteredBooks runs the composed filter query, newest-first.
func (s *Service) FilteredBooks(ctx context.Context, f models.ReportFilter) ([]models.Book, error) {
	books, err := s.books.Select(ctx, BuildQuery(f))
	if err != nil {
		s.logger.Error("failed to fetch report", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}
	return books, nil
}

// CalendarEvents returns the books updated within the given month projected
// as calendar events. The window includes the whole final day of the month.
func (s *Service) CalendarEvents(ctx context.Context, year int, month time.Month) ([]models.CalendarEvent, error) {
	start, end := monthWindow(year, month)
	q := storage.Query{Sort: storage.Sort{Column: "updated_at", Descending: true}}
	q = q.Where("updated_at", storage.OpGte, start)
	q = q.Where("updated_at", storage.OpLte, end)
	books, err := s.books.Select(ctx, q)
	if err != nil {
		s.logger.Error("failed to fetch calendar events",
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to fetch calendar events: %w", err)
	}
	return ProjectCalendar(books), nil
}

// MonthlyStats returns the twelve per-month status tallies for the year.
func (s *Service) MonthlyStats(ctx context.Context, year int) ([]models.MonthlyStats, error) {
	start, end := yearWindow(year)
	q := storage.Query{Sort: storage.Sort{Column: "updated_at", Descending: true}}
	q = q.Where("updated_at", storage.OpGte, start)
	q = q.Where("updated_at", storage.OpLte, end)
	books, err := s.books.Select(ctx, q)
	if err != nil {
		s.logger.Error("failed to fetch monthly stats", zap.Int("year", year), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch monthly stats: %w", err)
	}
	return MonthlyBuckets(books, year), nil
}

// StatusStats fetches every book and tallies the workflow statuses.
func (s *Service) StatusStats(ctx context.Context) (models.StatusTally, error) {
	books, err := s.books.Select(ctx, storage.Query{})
	if err != nil {
		s.logger.Error("failed to fetch status stats", zap.Error(err))
		return models.StatusTally{}, fmt.Errorf("failed to fetch status stats: %w", err)
	}
	return TallyStatuses(books), nil
}
