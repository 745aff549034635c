package main

import (
	"context"
	"fmt"

	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/database"
	"github.com/prepnest/prepnest-backend/internal/fixture"
	"github.com/prepnest/prepnest-backend/internal/logger"
	"github.com/prepnest/prepnest-backend/internal/repository"
)

// seed-papers installs the starter catalog: every built-in paper plus its
// category's question set. Safe to run against an empty database; running
// twice duplicates the catalog, so it is meant for fresh installs only.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	paperRepo := repository.NewPaperRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	papers := fixture.Papers()
	seededQuestions := 0

	for i := range papers {
		p := &papers[i]
		if err := paperRepo.Create(ctx, p); err != nil {
			log.Fatal().Err(err).Str("title", p.Title).Msg("Failed to insert paper")
		}

		questions := fixture.QuestionsFor(p)
		if len(questions) == 0 {
			log.Warn().Str("title", p.Title).Msg("No built-in questions for category, skipping")
			continue
		}
		if err := questionRepo.ReplaceForPaper(ctx, p.ID, questions); err != nil {
			log.Fatal().Err(err).Str("title", p.Title).Msg("Failed to insert questions")
		}
		seededQuestions += len(questions)

		fmt.Printf("Seeded %q (%d questions)\n", p.Title, len(questions))
	}

	fmt.Printf("Done: %d papers, %d questions\n", len(papers), seededQuestions)
}
