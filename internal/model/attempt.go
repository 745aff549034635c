package model

import (
	"time"

	"github.com/google/uuid"
)

// TestAttempt is the persisted record of one finalized test session.
// Attempts are append-only: created exactly once when a session finalizes,
// never on abort, and never updated afterwards.
type TestAttempt struct {
	ID               uuid.UUID      `json:"id"`
	UserID           uuid.UUID      `json:"user_id"`
	PaperID          uuid.UUID      `json:"paper_id"`
	Score            int            `json:"score"`
	TotalQuestions   int            `json:"total_questions"`
	Answers          map[string]int `json:"answers"`
	TimeSpentSeconds int            `json:"time_spent_seconds"`
	CompletedAt      time.Time      `json:"completed_at"`
}

// AttemptStats aggregates a user's attempt history for the progress screen.
type AttemptStats struct {
	TotalTests            int `json:"total_tests"`
	AverageScorePercent   int `json:"average_score_percent"`
	BestScorePercent      int `json:"best_score_percent"`
	TotalTimeSpentMinutes int `json:"total_time_spent_minutes"`
}
