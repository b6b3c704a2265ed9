package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maktaba/internal/models"
	"maktaba/internal/storage"
)

const bookColumns = `id, title, level, reader_id, reader_name, status, reviewer_notes,
	audio_reviewer1, audio_reviewer2, recording_editor, reading_duration, publish_status,
	created_at, updated_at`

// BookSource implements storage.DataSource for books against Postgres.
type BookSource struct {
	pool *pgxpool.Pool
}

var _ storage.DataSource[models.Book, models.BookPatch] = (*BookSource)(nil)

func scanBook(row pgx.Row) (models.Book, error) {
	var b models.Book
	var status, publish string
	err := row.Scan(&b.ID, &b.Title, &b.Level, &b.ReaderID, &b.ReaderName, &status,
		&b.ReviewerNotes, &b.AudioReviewer1, &b.AudioReviewer2, &b.RecordingEditor,
		&b.ReadingDuration, &publish, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return models.Book{}, err
	}
	b.Status = models.BookStatus(status)
	b.PublishStatus = models.PublishStatus(publish)
	return b, nil
}

// Select returns books matching the query, in the query's sort order.
func (s *BookSource) Select(ctx context.Context, q storage.Query) ([]models.Book, error) {
	where, args, err := buildWhere(q)
	if err != nil {
		return nil, fmt.Errorf("failed to build book query: %w", err)
	}
	sql := "SELECT " + bookColumns + " FROM books" + where + orderBy(q.Sort)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read books: %w", err)
	}
	return books, nil
}

// Insert creates a book. The database assigns the identity and stamps both
// timestamps; the draft's ID/CreatedAt/UpdatedAt are ignored.
func (s *BookSource) Insert(ctx context.Context, draft models.Book) (models.Book, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO books (title, level, reader_id, reader_name, status, reviewer_notes,
			audio_reviewer1, audio_reviewer2, recording_editor, reading_duration, publish_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+bookColumns,
		draft.Title, draft.Level, draft.ReaderID, draft.ReaderName, string(draft.Status),
		draft.ReviewerNotes, draft.AudioReviewer1, draft.AudioReviewer2, draft.RecordingEditor,
		draft.ReadingDuration, string(draft.PublishStatus))
	b, err := scanBook(row)
	if err != nil {
		return models.Book{}, fmt.Errorf("failed to insert book: %w", err)
	}
	return b, nil
}

// Update applies the non-nil patch fields to the identified book, bumps
// updated_at and returns the authoritative row.
func (s *BookSource) Update(ctx context.Context, id string, patch models.BookPatch) (models.Book, error) {
	sets := []string{"updated_at = now()"}
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Level != nil {
		add("level", *patch.Level)
	}
	if patch.ReaderID != nil {
		add("reader_id", *patch.ReaderID)
	}
	if patch.ReaderName != nil {
		add("reader_name", *patch.ReaderName)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.ReviewerNotes != nil {
		add("reviewer_notes", *patch.ReviewerNotes)
	}
	if patch.AudioReviewer1 != nil {
		add("audio_reviewer1", *patch.AudioReviewer1)
	}
	if patch.AudioReviewer2 != nil {
		add("audio_reviewer2", *patch.AudioReviewer2)
	}
	if patch.RecordingEditor != nil {
		add("recording_editor", *patch.RecordingEditor)
	}
	if patch.ReadingDuration != nil {
		add("reading_duration", *patch.ReadingDuration)
	}
	if patch.PublishStatus != nil {
		add("publish_status", string(*patch.PublishStatus))
	}

	args = append(args, id)
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf("UPDATE books SET %s WHERE id = $%d RETURNING %s",
			strings.Join(sets, ", "), len(args), bookColumns),
		args...)
	b, err := scanBook(row)
	if err != nil {
		return models.Book{}, fmt.Errorf("failed to update book %s: %w", id, err)
	}
	return b, nil
}

// Delete removes the identified book. Deleting an unknown identity affects
// zero rows and succeeds.
func (s *BookSource) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete book %s: %w", id, err)
	}
	return nil
}
