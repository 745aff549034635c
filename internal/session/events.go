package session

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the events an engine emits on its event channel.
type EventType string

const (
	EventTick       EventType = "tick"
	EventQuestion   EventType = "question"
	EventAudio      EventType = "audio"
	EventExitPrompt EventType = "exit_prompt"
	EventFinalized  EventType = "finalized"
	EventAborted    EventType = "aborted"
)

// Event is a message emitted by the engine. Exactly one payload field is
// set, matching Type.
type Event struct {
	Type             EventType    `json:"type"`
	RemainingSeconds int          `json:"remaining_seconds,omitempty"`
	QuestionIndex    int          `json:"question_index,omitempty"`
	Audio            *AudioStatus `json:"audio,omitempty"`
	Result           *Result      `json:"result,omitempty"`
}

// AudioStatus is the playback state snapshot for the live audio resource.
type AudioStatus struct {
	Ref             string  `json:"ref"`
	Loaded          bool    `json:"loaded"`
	Playing         bool    `json:"playing"`
	PositionSeconds float64 `json:"position_seconds"`
	DurationSeconds float64 `json:"duration_seconds"`
	LoadFailed      bool    `json:"load_failed,omitempty"`
}

// Result is the in-memory outcome of a finalized session. It is rendered
// immediately, independent of attempt persistence.
type Result struct {
	AttemptID        uuid.UUID      `json:"attempt_id"`
	PaperID          uuid.UUID      `json:"paper_id"`
	Score            int            `json:"score"`
	TotalQuestions   int            `json:"total_questions"`
	Answers          map[string]int `json:"answers"`
	TimeSpentSeconds int            `json:"time_spent_seconds"`
	CompletedAt      time.Time      `json:"completed_at"`
}
