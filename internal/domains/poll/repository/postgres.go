package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"newsroom-backend/internal/domains/poll/model"
)

const uniqueViolation = "23505"

type postgresPollRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPollRepository(pool *pgxpool.Pool) PollRepository {
	return &postgresPollRepository{pool: pool}
}

func (r *postgresPollRepository) Create(ctx context.Context, p *model.Poll) error {
	query := `
		INSERT INTO polls (id, question, options, visibility, ends_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Question, pq.Array(p.Options), string(p.Visibility), p.EndsAt, p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}
	return nil
}

func (r *postgresPollRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Poll, error) {
	query := `
		SELECT id, question, options, visibility, ends_at, created_by, created_at
		FROM polls
		WHERE id = $1
	`
	var p model.Poll
	var options pq.StringArray
	var visibility string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Question, &options, &visibility, &p.EndsAt, &p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewNotFoundError()
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	p.Options = []string(options)
	p.Visibility = model.Visibility(visibility)
	return &p, nil
}

// Delete removes the poll; votes go with it (ON DELETE CASCADE)
func (r *postgresPollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError()
	}
	return nil
}

func (r *postgresPollRepository) AddVote(ctx context.Context, v *model.Vote) error {
	query := `
		INSERT INTO poll_votes (poll_id, voter_key, option_index, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, v.PollID, v.VoterKey, v.Option, v.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.NewAlreadyVotedError()
		}
		return fmt.Errorf("failed to add vote: %w", err)
	}
	return nil
}

func (r *postgresPollRepository) HasVoted(ctx context.Context, pollID uuid.UUID, voterKey string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM poll_votes WHERE poll_id = $1 AND voter_key = $2)`,
		pollID, voterKey,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return exists, nil
}

func (r *postgresPollRepository) CountVotes(ctx context.Context, pollID uuid.UUID) (map[int]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT option_index, COUNT(*) FROM poll_votes WHERE poll_id = $1 GROUP BY option_index`,
		pollID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var option, n int
		if err := rows.Scan(&option, &n); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[option] = n
	}
	return counts, rows.Err()
}
