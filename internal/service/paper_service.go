package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/fixture"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain errors.
var (
	ErrNoQuestions          = errors.New("paper has no questions")
	ErrInvalidCorrectOption = errors.New("correct option index is out of range")
)

// PaperService handles the test catalog, question sets, and Redis payload
// caching.
type PaperService struct {
	paperRepo    *repository.PaperRepository
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewPaperService creates a new PaperService.
func NewPaperService(
	paperRepo *repository.PaperRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *PaperService {
	return &PaperService{
		paperRepo:    paperRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "paper_service").Logger(),
	}
}

// GetByID retrieves a paper by its UUID.
func (s *PaperService) GetByID(ctx context.Context, id uuid.UUID) (*model.Paper, error) {
	return s.paperRepo.GetByID(ctx, id)
}

// List retrieves papers with pagination and an optional category filter.
func (s *PaperService) List(ctx context.Context, category *string, page, perPage int) ([]model.Paper, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	papers, total, err := s.paperRepo.ListPaginated(ctx, category, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	return papers, response.NewPagination(page, perPage, total), nil
}

// Create inserts a new paper.
func (s *PaperService) Create(ctx context.Context, req *model.CreatePaperRequest) (*model.Paper, error) {
	p := &model.Paper{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Difficulty:      req.Difficulty,
		DurationMinutes: req.DurationMinutes,
		Thumbnail:       req.Thumbnail,
		IsPremium:       req.IsPremium,
	}
	if err := s.paperRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update modifies a paper and refreshes its cache.
func (s *PaperService) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePaperRequest) (*model.Paper, error) {
	p, err := s.paperRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Title = req.Title
	p.Description = req.Description
	p.Category = req.Category
	p.Difficulty = req.Difficulty
	p.DurationMinutes = req.DurationMinutes
	p.Thumbnail = req.Thumbnail
	p.IsPremium = req.IsPremium

	if err := s.paperRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := s.WarmPaperCache(ctx, p); err != nil && !errors.Is(err, ErrNoQuestions) {
		s.log.Warn().Err(err).Str("paper_id", id.String()).Msg("cache refresh after update failed")
	}
	return p, nil
}

// Delete removes a paper and clears its cache entries.
func (s *PaperService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.paperRepo.Delete(ctx, id); err != nil {
		return err
	}
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, config.CacheKey.PaperPayloadKey(id.String()))
	pipe.Del(ctx, config.CacheKey.PaperDurationKey(id.String()))
	_, _ = pipe.Exec(ctx)
	return nil
}

// QuestionsForSession returns the full question set (answer key included)
// used to run a test session. Papers without stored questions fall back to
// the built-in content for their category.
func (s *PaperService) QuestionsForSession(ctx context.Context, paper *model.Paper) ([]model.Question, error) {
	questions, err := s.questionRepo.ListByPaper(ctx, paper.ID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		questions = fixture.QuestionsFor(paper)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

// AddQuestion appends one question to a paper after validating its answer
// key, then refreshes the cache.
func (s *PaperService) AddQuestion(ctx context.Context, paperID uuid.UUID, req *model.AddQuestionRequest) (*model.Question, error) {
	if req.CorrectOption < 0 || req.CorrectOption >= len(req.Options) {
		return nil, ErrInvalidCorrectOption
	}

	paper, err := s.paperRepo.GetByID(ctx, paperID)
	if err != nil {
		return nil, err
	}

	q := &model.Question{
		PaperID:       paperID,
		Prompt:        req.Prompt,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
		Explanation:   req.Explanation,
		AudioURL:      req.AudioURL,
		OrderNum:      paper.QuestionCount + 1,
	}
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, err
	}

	if err := s.WarmPaperCache(ctx, paper); err != nil {
		s.log.Warn().Err(err).Str("paper_id", paperID.String()).Msg("cache refresh after add failed")
	}
	return q, nil
}

// ReplaceQuestions swaps a paper's entire question set, then refreshes the
// cache.
func (s *PaperService) ReplaceQuestions(ctx context.Context, paperID uuid.UUID, req *model.ReplaceQuestionsRequest) ([]model.Question, error) {
	paper, err := s.paperRepo.GetByID(ctx, paperID)
	if err != nil {
		return nil, err
	}

	questions := make([]model.Question, len(req.Questions))
	for i, qr := range req.Questions {
		if qr.CorrectOption < 0 || qr.CorrectOption >= len(qr.Options) {
			return nil, ErrInvalidCorrectOption
		}
		questions[i] = model.Question{
			Prompt:        qr.Prompt,
			Options:       qr.Options,
			CorrectOption: qr.CorrectOption,
			Explanation:   qr.Explanation,
			AudioURL:      qr.AudioURL,
		}
	}

	if err := s.questionRepo.ReplaceForPaper(ctx, paperID, questions); err != nil {
		return nil, err
	}
	if err := s.WarmPaperCache(ctx, paper); err != nil && !errors.Is(err, ErrNoQuestions) {
		s.log.Warn().Err(err).Str("paper_id", paperID.String()).Msg("cache refresh after replace failed")
	}
	return questions, nil
}

// WarmPaperCache loads a paper's student-safe payload from PostgreSQL into
// Redis. Only stored question sets are cached: the built-in fallback
// generates fresh question IDs on every call, so caching it would hand out
// IDs no session recognizes.
func (s *PaperService) WarmPaperCache(ctx context.Context, paper *model.Paper) error {
	questions, err := s.questionRepo.ListByPaper(ctx, paper.ID)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	studentQuestions := make([]model.QuestionForStudent, len(questions))
	for i := range questions {
		studentQuestions[i] = questions[i].ForStudent()
	}

	payload := model.PaperPayload{
		PaperID:         paper.ID,
		Title:           paper.Title,
		DurationMinutes: paper.DurationMinutes,
		Questions:       studentQuestions,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.PaperPayloadKey(paper.ID.String()), payloadJSON, 0)
	pipe.Set(ctx, config.CacheKey.PaperDurationKey(paper.ID.String()), paper.DurationMinutes, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("paper_id", paper.ID.String()).
		Int("questions", len(questions)).
		Msg("cache warmed")
	return nil
}

// GetPaperPayload retrieves the cached student payload, rebuilding it from
// PostgreSQL on a miss.
func (s *PaperService) GetPaperPayload(ctx context.Context, paperID uuid.UUID) (*model.PaperPayload, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.PaperPayloadKey(paperID.String())).Bytes()
	if err == nil {
		var payload model.PaperPayload
		if err := json.Unmarshal(data, &payload); err == nil {
			return &payload, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("payload cache read failed, rebuilding")
	}

	paper, err := s.paperRepo.GetByID(ctx, paperID)
	if err != nil {
		return nil, err
	}
	questions, err := s.QuestionsForSession(ctx, paper)
	if err != nil {
		return nil, err
	}

	studentQuestions := make([]model.QuestionForStudent, len(questions))
	for i := range questions {
		studentQuestions[i] = questions[i].ForStudent()
	}
	return &model.PaperPayload{
		PaperID:         paper.ID,
		Title:           paper.Title,
		DurationMinutes: paper.DurationMinutes,
		Questions:       studentQuestions,
	}, nil
}

// PrewarmAllCaches loads every paper with stored questions into Redis on
// application startup.
func (s *PaperService) PrewarmAllCaches(ctx context.Context) error {
	papers, _, err := s.paperRepo.ListPaginated(ctx, nil, 1000, 0)
	if err != nil {
		return fmt.Errorf("list papers: %w", err)
	}

	warmed := 0
	for i := range papers {
		if err := s.WarmPaperCache(ctx, &papers[i]); err != nil {
			if !errors.Is(err, ErrNoQuestions) {
				s.log.Warn().Err(err).Str("paper_id", papers[i].ID.String()).Msg("failed to warm paper, skipping")
			}
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(papers)).
		Msg("prewarming complete")
	return nil
}
