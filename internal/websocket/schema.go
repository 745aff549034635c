package websocket

import (
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/session"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionStart        Action = "start"
	ActionAnswer       Action = "answer"
	ActionNext         Action = "next"
	ActionPrevious     Action = "previous"
	ActionSubmit       Action = "submit"
	ActionLeave        Action = "leave"
	ActionLeaveConfirm Action = "leave_confirm"
	ActionLeaveCancel  Action = "leave_cancel"
	ActionFocus        Action = "focus"
	ActionBlur         Action = "blur"
	ActionAudioPlay    Action = "audio_play"
	ActionAudioPause   Action = "audio_pause"
	ActionAudioReplay  Action = "audio_replay"
	ActionAudioReload  Action = "audio_reload"
	ActionPing         Action = "ping"
)

// RequestPayload carries every client action. Fields beyond Action are only
// set for the actions that use them.
type RequestPayload struct {
	Action     Action `json:"action"`
	QuestionID string `json:"question_id,omitempty"`
	Option     *int   `json:"option,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventSession    Event = "session"
	EventQuestion   Event = "question"
	EventTick       Event = "tick"
	EventAudio      Event = "audio"
	EventExitPrompt Event = "exit_prompt"
	EventFinalized  Event = "finalized"
	EventAborted    Event = "aborted"
	EventError      Event = "error"
	EventPong       Event = "pong"
)

// SessionResponse is sent once the session starts: the full student-safe
// paper payload plus the initial countdown.
type SessionResponse struct {
	Event            Event               `json:"event"`
	Paper            *model.PaperPayload `json:"paper"`
	RemainingSeconds int                 `json:"remaining_seconds"`
}

// QuestionResponse announces the current question index after navigation.
type QuestionResponse struct {
	Event Event `json:"event"`
	Index int   `json:"index"`
}

// TickResponse carries the countdown, once per second.
type TickResponse struct {
	Event            Event `json:"event"`
	RemainingSeconds int   `json:"remaining_seconds"`
}

// AudioResponse mirrors the playback state after any audio mutation.
type AudioResponse struct {
	Event Event                `json:"event"`
	Audio *session.AudioStatus `json:"audio"`
}

// ExitPromptResponse asks the client to show the leave confirmation dialog.
type ExitPromptResponse struct {
	Event Event `json:"event"`
}

// FinalizedResponse delivers the scored result of a finished session.
type FinalizedResponse struct {
	Event  Event           `json:"event"`
	Result *session.Result `json:"result"`
}

// AbortedResponse confirms a session ended without being scored.
type AbortedResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
