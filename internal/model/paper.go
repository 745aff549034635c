package model

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty enumerates the declared difficulty of a paper.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Paper represents a practice test in the catalog.
type Paper struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Difficulty      Difficulty `json:"difficulty"`
	DurationMinutes int        `json:"duration_minutes"`
	QuestionCount   int        `json:"question_count"`
	Thumbnail       string     `json:"thumbnail,omitempty"`
	IsPremium       bool       `json:"is_premium"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CreatePaperRequest is the payload for creating a new paper.
type CreatePaperRequest struct {
	Title           string     `json:"title" binding:"required,min=3,max=255"`
	Description     string     `json:"description" binding:"omitempty,max=2000"`
	Category        string     `json:"category" binding:"required,min=2,max=100"`
	Difficulty      Difficulty `json:"difficulty" binding:"required,oneof=Beginner Intermediate Advanced"`
	DurationMinutes int        `json:"duration_minutes" binding:"required,min=1,max=480"`
	Thumbnail       string     `json:"thumbnail" binding:"omitempty,max=500"`
	IsPremium       bool       `json:"is_premium"`
}

// UpdatePaperRequest is the payload for updating an existing paper. The
// admin form always submits the complete paper, so updates are full
// replacements.
type UpdatePaperRequest struct {
	Title           string     `json:"title" binding:"required,min=3,max=255"`
	Description     string     `json:"description" binding:"omitempty,max=2000"`
	Category        string     `json:"category" binding:"required,min=2,max=100"`
	Difficulty      Difficulty `json:"difficulty" binding:"required,oneof=Beginner Intermediate Advanced"`
	DurationMinutes int        `json:"duration_minutes" binding:"required,min=1,max=480"`
	Thumbnail       string     `json:"thumbnail" binding:"omitempty,max=500"`
	IsPremium       bool       `json:"is_premium"`
}

// PaperPayload is the Redis-cached payload sent to test takers
// (no correct answers, no explanations).
type PaperPayload struct {
	PaperID         uuid.UUID            `json:"paper_id"`
	Title           string               `json:"title"`
	DurationMinutes int                  `json:"duration_minutes"`
	Questions       []QuestionForStudent `json:"questions"`
}
