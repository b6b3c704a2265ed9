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

const participantColumns = `id, full_name, phone_number, nationality, level, suggested_books,
	committee_opinion, registration_date, completion_date, created_at, updated_at`

// ParticipantSource implements storage.DataSource for participants against
// Postgres.
type ParticipantSource struct {
	pool *pgxpool.Pool
}

var _ storage.DataSource[models.Participant, models.ParticipantPatch] = (*ParticipantSource)(nil)

func scanParticipant(row pgx.Row) (models.Participant, error) {
	var p models.Participant
	var level string
	err := row.Scan(&p.ID, &p.FullName, &p.PhoneNumber, &p.Nationality, &level,
		&p.SuggestedBooks, &p.CommitteeOpinion, &p.RegistrationDate, &p.CompletionDate,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Participant{}, err
	}
	p.Level = models.ParticipantLevel(level)
	return p, nil
}

// Select returns participants matching the query, in the query's sort order.
func (s *ParticipantSource) Select(ctx context.Context, q storage.Query) ([]models.Participant, error) {
	where, args, err := buildWhere(q)
	if err != nil {
		return nil, fmt.Errorf("failed to build participant query: %w", err)
	}
	sql := "SELECT " + participantColumns + " FROM participants" + where + orderBy(q.Sort)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}
	return participants, nil
}

// Insert creates a participant with a database-assigned identity and
// timestamps.
func (s *ParticipantSource) Insert(ctx context.Context, draft models.Participant) (models.Participant, error) {
	suggested := draft.SuggestedBooks
	if suggested == nil {
		suggested = []string{}
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO participants (full_name, phone_number, nationality, level, suggested_books,
			committee_opinion, registration_date, completion_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+participantColumns,
		draft.FullName, draft.PhoneNumber, draft.Nationality, string(draft.Level), suggested,
		draft.CommitteeOpinion, draft.RegistrationDate, draft.CompletionDate)
	p, err := scanParticipant(row)
	if err != nil {
		return models.Participant{}, fmt.Errorf("failed to insert participant: %w", err)
	}
	return p, nil
}

// Update applies the non-nil patch fields to the identified participant,
// bumps updated_at and returns the authoritative row.
func (s *ParticipantSource) Update(ctx context.Context, id string, patch models.ParticipantPatch) (models.Participant, error) {
	sets := []string{"updated_at = now()"}
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.FullName != nil {
		add("full_name", *patch.FullName)
	}
	if patch.PhoneNumber != nil {
		add("phone_number", *patch.PhoneNumber)
	}
	if patch.Nationality != nil {
		add("nationality", *patch.Nationality)
	}
	if patch.Level != nil {
		add("level", string(*patch.Level))
	}
	if patch.SuggestedBooks != nil {
		add("suggested_books", *patch.SuggestedBooks)
	}
	if patch.CommitteeOpinion != nil {
		add("committee_opinion", *patch.CommitteeOpinion)
	}
	if patch.RegistrationDate != nil {
		add("registration_date", *patch.RegistrationDate)
	}
	if patch.CompletionDate != nil {
		add("completion_date", *patch.CompletionDate)
	}

	args = append(args, id)
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf("UPDATE participants SET %s WHERE id = $%d RETURNING %s",
			strings.Join(sets, ", "), len(args), participantColumns),
		args...)
	p, err := scanParticipant(row)
	if err != nil {
		return models.Participant{}, fmt.Errorf("failed to update participant %s: %w", id, err)
	}
	return p, nil
}

// Delete removes the identified participant; unknown identities are a no-op.
func (s *ParticipantSource) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM participants WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete participant %s: %w", id, err)
	}
	return nil
}
