package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// PaperRepository handles test paper data access.
type PaperRepository struct {
	pool *pgxpool.Pool
}

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(pool *pgxpool.Pool) *PaperRepository {
	return &PaperRepository{pool: pool}
}

const paperColumns = `p.id, p.title, p.description, p.category, p.difficulty,
	p.duration_minutes, p.thumbnail, p.is_premium, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM questions q WHERE q.paper_id = p.id) AS question_count`

func scanPaper(row pgx.Row) (*model.Paper, error) {
	p := &model.Paper{}
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.Difficulty,
		&p.DurationMinutes, &p.Thumbnail, &p.IsPremium, &p.CreatedAt, &p.UpdatedAt,
		&p.QuestionCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID retrieves a paper by ID.
func (r *PaperRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Paper, error) {
	return scanPaper(r.pool.QueryRow(ctx,
		`SELECT `+paperColumns+` FROM papers p WHERE p.id = $1`, id))
}

// ListPaginated retrieves papers with pagination and an optional category
// filter, newest first.
func (r *PaperRepository) ListPaginated(ctx context.Context, category *string, limit, offset int) ([]model.Paper, int, error) {
	countQuery := `SELECT COUNT(*) FROM papers`
	var countArgs []interface{}
	if category != nil {
		countQuery += ` WHERE category = $1`
		countArgs = append(countArgs, *category)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + paperColumns + ` FROM papers p`
	var args []interface{}
	argIdx := 1

	if category != nil {
		query += ` WHERE p.category = $1`
		args = append(args, *category)
		argIdx++
	}

	query += ` ORDER BY p.created_at DESC LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var papers []model.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, 0, err
		}
		papers = append(papers, *p)
	}
	return papers, total, rows.Err()
}

// Create inserts a new paper.
func (r *PaperRepository) Create(ctx context.Context, p *model.Paper) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO papers (title, description, category, difficulty, duration_minutes, thumbnail, is_premium)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		p.Title, p.Description, p.Category, p.Difficulty, p.DurationMinutes, p.Thumbnail, p.IsPremium,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update modifies a paper's metadata.
func (r *PaperRepository) Update(ctx context.Context, p *model.Paper) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE papers
		 SET title = $1, description = $2, category = $3, difficulty = $4,
		     duration_minutes = $5, thumbnail = $6, is_premium = $7,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $8`,
		p.Title, p.Description, p.Category, p.Difficulty, p.DurationMinutes,
		p.Thumbnail, p.IsPremium, p.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a paper; its questions cascade.
func (r *PaperRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM papers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
