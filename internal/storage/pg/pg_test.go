package pg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresTC "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"maktaba/internal/models"
	"maktaba/internal/storage"
)

// runMigrations creates the schema directly; the test containers start empty
// and the goose history table is not needed here.
func runMigrations(ctx context.Context, db *DB) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS participants (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			full_name TEXT NOT NULL,
			phone_number TEXT NOT NULL,
			nationality TEXT NOT NULL,
			level TEXT NOT NULL,
			suggested_books TEXT[] NOT NULL DEFAULT '{}',
			committee_opinion TEXT NOT NULL DEFAULT '',
			registration_date TIMESTAMPTZ NOT NULL,
			completion_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			title TEXT NOT NULL,
			level TEXT NOT NULL DEFAULT '',
			reader_id TEXT NOT NULL,
			reader_name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			reviewer_notes TEXT NOT NULL DEFAULT '',
			audio_reviewer1 TEXT NOT NULL DEFAULT '',
			audio_reviewer2 TEXT NOT NULL DEFAULT '',
			recording_editor TEXT NOT NULL DEFAULT '',
			reading_duration INTEGER NOT NULL DEFAULT 0 CHECK (reading_duration >= 0),
			publish_status TEXT NOT NULL DEFAULT 'unpublished',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// setupTestDB creates a test Postgres instance using testcontainers
func setupTestDB(t *testing.T) (*DB, func()) {
	ctx := context.Background()

	pgContainer, err := postgresTC.Run(ctx,
		"postgres:16-alpine",
		postgresTC.WithDatabase("maktaba_test"),
		postgresTC.WithUsername("postgres"),
		postgresTC.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start Postgres container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := New(ctx, dsn)
	require.NoError(t, err, "Failed to connect to Postgres")

	err = runMigrations(ctx, db)
	require.NoError(t, err, "Failed to run migrations")

	cleanup := func() {
		db.Close()
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func testBook() models.Book {
	return models.Book{
		Title:           "مختصر صحيح البخاري",
		Level:           "متقدم",
		ReaderID:        "p1",
		ReaderName:      "أحمد محمد علي",
		Status:          models.StatusOnTrial,
		ReadingDuration: 1850,
		PublishStatus:   models.PublishNone,
	}
}

func TestBookInsert(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	src := db.Books()

	book, err := src.Insert(ctx, testBook())
	require.NoError(t, err)

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "مختصر صحيح البخاري", book.Title)
	assert.Equal(t, models.StatusOnTrial, book.Status)
	assert.Equal(t, models.PublishNone, book.PublishStatus)
	assert.Equal(t, book.CreatedAt, book.UpdatedAt)
	assert.False(t, book.CreatedAt.IsZero())
}

func TestBookInsertIgnoresClientIdentity(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	src := db.Books()

	draft := testBook()
	draft.ID = "client-chosen"
	draft.CreatedAt = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	book, err := src.Insert(ctx, draft)
	require.NoError(t, err)
	assert.NotEqual(t, "client-chosen", book.ID)
	assert.NotEqual(t, 2000, book.CreatedAt.Year())
}

func TestBookSelectSortsByUpdatedAtDesc(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	src := db.Books()

	first, err := src.Insert(ctx, testBook())
	require.NoError(t, err)
	second := testBook()
	second.Title = "الأربعين النووية"
	_, err = src.Insert(ctx, second)
	require.NoError(t, err)

	// Bump the first book so it becomes the most recently updated.
	notes := "تم الاستماع للتسجيل"
	_, err = src.Update(ctx, first.ID, models.BookPatch{ReviewerNotes: &notes})
	require.NoError(t, err)

	books, err := src.Select(ctx, storage.Query{
		Sort: storage.Sort{Column: "updated_at", Descending: true},
	})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, first.ID, books[0].ID)
}

func TestBookUpdatePartialPatch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	src := db.Books()

	created, err := src.Insert(ctx, testBook())
	require.NoError(t, err)

	status := models.StatusUnderReview
	updated, err := src.Update(ctx, created.ID, models.BookPatch{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, models.StatusUnderReview, updated.Status)
	// Untouched fields survive the patch.
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.ReaderName, updated.ReaderName)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestBookUpdateUnknownIdentity(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	src := db.Books()

	status := models.StatusUnderReview
	_, err := src.Update(ctx, "missing", models.BookPatch{Status: &status})
	assert.Error(t, err)
}

func TestBookDeleteIsIdempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	src := db.Books()

	created, err := src.Insert(ctx, testBook())
	require.NoError(t, err)

	require.NoError(t, src.Delete(ctx, created.ID))
	// Deleting again affects zero rows and still succeeds.
	require.NoError(t, src.Delete(ctx, created.ID))

	books, err := src.Select(ctx, storage.Query{})
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestBookSelectFilters(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	src := db.Books()

	_, err := src.Insert(ctx, testBook())
	require.NoError(t, err)
	other := testBook()
	other.Title = "Small Treatise"
	other.ReaderID = "p2"
	other.Status = models.StatusSentForApproval
	_, err = src.Insert(ctx, other)
	require.NoError(t, err)

	// Equality on the workflow status.
	books, err := src.Select(ctx, storage.Query{}.
		Where("status", storage.OpEq, string(models.StatusSentForApproval)))
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Small Treatise", books[0].Title)

	// ILIKE is case-insensitive and matches substrings.
	books, err = src.Select(ctx, storage.Query{}.
		Where("title", storage.OpILike, "small"))
	require.NoError(t, err)
	require.Len(t, books, 1)

	// Foreign-key equality.
	books, err = src.Select(ctx, storage.Query{}.
		Where("reader_id", storage.OpEq, "p1"))
	require.NoError(t, err)
	require.Len(t, books, 1)

	// Clauses compose as an intersection.
	books, err = src.Select(ctx, storage.Query{}.
		Where("reader_id", storage.OpEq, "p2").
		Where("status", storage.OpEq, string(models.StatusOnTrial)))
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestParticipantRoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	src := db.Participants()

	draft := models.Participant{
		FullName:         "أحمد محمد علي",
		PhoneNumber:      "0512345678",
		Nationality:      "سعودي",
		Level:            models.LevelReader,
		SuggestedBooks:   []string{"رياض الصالحين"},
		RegistrationDate: time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
	}

	created, err := src.Insert(ctx, draft)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.LevelReader, created.Level)
	assert.Equal(t, []string{"رياض الصالحين"}, created.SuggestedBooks)
	assert.Nil(t, created.CompletionDate)

	// Completing the program sets the nullable date.
	done := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	updated, err := src.Update(ctx, created.ID, models.ParticipantPatch{CompletionDate: &done})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletionDate)
	assert.True(t, updated.CompletionDate.Equal(done))

	require.NoError(t, src.Delete(ctx, created.ID))
	participants, err := src.Select(ctx, storage.Query{})
	require.NoError(t, err)
	assert.Empty(t, participants)
}

func TestBuildWhere(t *testing.T) {
	where, args, err := buildWhere(storage.Query{})
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)

	q := storage.Query{}.
		Where("title", storage.OpILike, "نووية").
		Where("status", storage.OpEq, "on_trial").
		Where("created_at", storage.OpGte, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	where, args, err = buildWhere(q)
	require.NoError(t, err)
	assert.Equal(t, " WHERE title ILIKE $1 AND status = $2 AND created_at >= $3", where)
	require.Len(t, args, 3)
	assert.Equal(t, "%نووية%", args[0])
	assert.Equal(t, "on_trial", args[1])

	_, _, err = buildWhere(storage.Query{}.Where("x", storage.Op("neq"), 1))
	assert.Error(t, err)
}

func TestOrderBy(t *testing.T) {
	assert.Empty(t, orderBy(storage.Sort{}))
	assert.Equal(t, " ORDER BY updated_at DESC", orderBy(storage.Sort{Column: "updated_at", Descending: true}))
	assert.Equal(t, " ORDER BY created_at ASC", orderBy(storage.Sort{Column: "created_at"}))
}
