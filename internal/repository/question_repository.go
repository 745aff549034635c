package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByPaper retrieves all questions for a paper, ordered by order_num.
func (r *QuestionRepository) ListByPaper(ctx context.Context, paperID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, paper_id, prompt, options, correct_option, explanation, audio_url, order_num
		 FROM questions WHERE paper_id = $1
		 ORDER BY order_num`, paperID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.PaperID, &q.Prompt, &q.Options, &q.CorrectOption, &q.Explanation, &q.AudioURL, &q.OrderNum); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (paper_id, prompt, options, correct_option, explanation, audio_url, order_num)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		q.PaperID, q.Prompt, q.Options, q.CorrectOption, q.Explanation, q.AudioURL, q.OrderNum,
	).Scan(&q.ID)
}

// ReplaceForPaper swaps a paper's full question set in one transaction.
func (r *QuestionRepository) ReplaceForPaper(ctx context.Context, paperID uuid.UUID, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE paper_id = $1`, paperID); err != nil {
		return err
	}
	for i := range questions {
		q := &questions[i]
		if err := tx.QueryRow(ctx,
			`INSERT INTO questions (paper_id, prompt, options, correct_option, explanation, audio_url, order_num)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			paperID, q.Prompt, q.Options, q.CorrectOption, q.Explanation, q.AudioURL, i+1,
		).Scan(&q.ID); err != nil {
			return err
		}
		q.PaperID = paperID
		q.OrderNum = i + 1
	}
	return tx.Commit(ctx)
}

// Delete removes a single question.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
