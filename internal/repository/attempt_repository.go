package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// AttemptRepository handles test attempt data access. Attempts are
// append-only: rows are inserted once and never updated.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Insert writes a single attempt. ON CONFLICT DO NOTHING keeps a requeued
// payload from duplicating a row that already landed.
func (r *AttemptRepository) Insert(ctx context.Context, a *model.TestAttempt) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO test_attempts (id, user_id, paper_id, score, total_questions, answers, time_spent_seconds, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		a.ID, a.UserID, a.PaperID, a.Score, a.TotalQuestions, a.Answers, a.TimeSpentSeconds, a.CompletedAt,
	)
	return err
}

// BulkInsert writes a batch of attempts in one statement via UNNEST.
func (r *AttemptRepository) BulkInsert(ctx context.Context, batch []*model.TestAttempt) error {
	n := len(batch)
	if n == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, n)
	userIDs := make([]uuid.UUID, 0, n)
	paperIDs := make([]uuid.UUID, 0, n)
	scores := make([]int, 0, n)
	totals := make([]int, 0, n)
	answers := make([]string, 0, n)
	timeSpents := make([]int, 0, n)
	completedAts := make([]time.Time, 0, n)

	for _, a := range batch {
		raw, err := json.Marshal(a.Answers)
		if err != nil {
			return err
		}
		ids = append(ids, a.ID)
		userIDs = append(userIDs, a.UserID)
		paperIDs = append(paperIDs, a.PaperID)
		scores = append(scores, a.Score)
		totals = append(totals, a.TotalQuestions)
		answers = append(answers, string(raw))
		timeSpents = append(timeSpents, a.TimeSpentSeconds)
		completedAts = append(completedAts, a.CompletedAt)
	}

	query := `
		INSERT INTO test_attempts (id, user_id, paper_id, score, total_questions, answers, time_spent_seconds, completed_at)
		SELECT u.id, u.user_id, u.paper_id, u.score, u.total_questions, u.answers::jsonb, u.time_spent_seconds, u.completed_at
		FROM UNNEST(
			$1::uuid[],
			$2::uuid[],
			$3::uuid[],
			$4::int[],
			$5::int[],
			$6::text[],
			$7::int[],
			$8::timestamptz[]
		) AS u (id, user_id, paper_id, score, total_questions, answers, time_spent_seconds, completed_at)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, ids, userIDs, paperIDs, scores, totals, answers, timeSpents, completedAts)
	return err
}

// ListByUser retrieves a user's attempts, most recent first.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.TestAttempt, error) {
	return r.list(ctx,
		`SELECT id, user_id, paper_id, score, total_questions, answers, time_spent_seconds, completed_at
		 FROM test_attempts WHERE user_id = $1
		 ORDER BY completed_at DESC`, userID)
}

// ListByUserAndPaper retrieves a user's attempts at one paper, most recent
// first.
func (r *AttemptRepository) ListByUserAndPaper(ctx context.Context, userID, paperID uuid.UUID) ([]model.TestAttempt, error) {
	return r.list(ctx,
		`SELECT id, user_id, paper_id, score, total_questions, answers, time_spent_seconds, completed_at
		 FROM test_attempts WHERE user_id = $1 AND paper_id = $2
		 ORDER BY completed_at DESC`, userID, paperID)
}

func (r *AttemptRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.TestAttempt, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.TestAttempt
	for rows.Next() {
		var a model.TestAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.PaperID, &a.Score, &a.TotalQuestions, &a.Answers, &a.TimeSpentSeconds, &a.CompletedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
