package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/rs/zerolog"
)

// State enumerates the session lifecycle. Transitions:
// NotStarted → Active → Finalizing → Finalized, with Aborted reachable only
// from Active via a confirmed exit.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateActive     State = "ACTIVE"
	StateFinalizing State = "FINALIZING"
	StateFinalized  State = "FINALIZED"
	StateAborted    State = "ABORTED"
)

// Engine runs a single timed test session from start to scored completion:
// countdown, answer capture, per-question audio, exit guarding, automatic
// submission on timeout, scoring, and fire-and-forget attempt persistence.
// All transitions are serialized through one mutex; in particular, only the
// first caller to observe Active → Finalizing submits — a timer firing just
// as the user taps submit cannot double-persist.
//
// An Engine is single-use: once Finalized or Aborted it is discarded.
type Engine struct {
	mu    sync.Mutex
	state State

	userID    uuid.UUID
	paper     *model.Paper
	questions []model.Question
	byID      map[string]*model.Question

	current        int
	answers        map[string]int
	initialSeconds int
	remaining      int
	startedAt      time.Time
	result         *Result

	audio *AudioUnit
	guard *ExitGuard
	sink  AttemptSink
	log   zerolog.Logger

	events    chan Event
	tickEvery time.Duration
	stopTick  chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithTickInterval overrides the countdown tick interval. Zero or negative
// disables the internal ticker so tests can drive Tick directly.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) { e.tickEvery = d }
}

// WithLogger attaches a logger to the engine.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log.With().Str("component", "session_engine").Logger() }
}

// New creates an engine for one user taking one paper. The question list is
// owned by the caller and treated as immutable for the session's lifetime.
func New(userID uuid.UUID, paper *model.Paper, questions []model.Question, loader AudioLoader, sink AttemptSink, opts ...Option) *Engine {
	e := &Engine{
		state:     StateNotStarted,
		userID:    userID,
		paper:     paper,
		questions: questions,
		byID:      make(map[string]*model.Question, len(questions)),
		answers:   make(map[string]int),
		guard:     newExitGuard(),
		sink:      sink,
		log:       zerolog.Nop(),
		events:    make(chan Event, 256),
		tickEvery: time.Second,
		stopTick:  make(chan struct{}),
	}
	for i := range questions {
		e.byID[questions[i].ID.String()] = &questions[i]
	}
	for _, opt := range opts {
		opt(e)
	}
	e.audio = newAudioUnit(loader, func(st AudioStatus) {
		s := st
		e.emit(Event{Type: EventAudio, Audio: &s})
	})
	return e
}

// Start transitions NotStarted → Active. The entitlement gate is consulted
// exactly once, here; it is not re-checked mid-session. On success the exit
// guard is armed, the countdown begins, and the first question's audio (if
// any) is loaded paused.
func (e *Engine) Start(ctx context.Context, hasActiveSubscription bool) error {
	e.mu.Lock()
	if e.state != StateNotStarted {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	if !CanAccess(e.paper.IsPremium, hasActiveSubscription) {
		e.mu.Unlock()
		return ErrAccessDenied
	}
	if len(e.questions) == 0 {
		e.mu.Unlock()
		return ErrNoQuestions
	}

	e.initialSeconds = e.paper.DurationMinutes * 60
	e.remaining = e.initialSeconds
	e.current = 0
	e.startedAt = time.Now()
	e.state = StateActive
	e.guard.register()
	first := e.questions[0]
	e.mu.Unlock()

	if e.tickEvery > 0 {
		go e.runTicker()
	}

	// Audio load failures are non-fatal: the session is already Active and
	// the question stays answerable.
	if first.AudioURL != nil {
		if err := e.audio.Load(ctx, *first.AudioURL, false); err != nil {
			e.log.Warn().Err(err).Msg("first question audio load failed")
		}
	}
	return nil
}

// SelectAnswer records the selected option for a question. Reselecting the
// same index is a no-op state-wise; selecting another overwrites, never
// removes. Unknown question IDs and out-of-range indexes are rejected with
// ErrInvalidOption and leave state unchanged.
func (e *Engine) SelectAnswer(questionID string, optionIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateActive {
		return ErrNotActive
	}
	q, ok := e.byID[questionID]
	if !ok {
		return ErrInvalidOption
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return ErrInvalidOption
	}
	e.answers[questionID] = optionIndex
	return nil
}

// Next moves to the following question, clamping at the last one.
func (e *Engine) Next(ctx context.Context) error { return e.move(ctx, 1) }

// Previous moves to the preceding question, clamping at the first one.
func (e *Engine) Previous(ctx context.Context) error { return e.move(ctx, -1) }

func (e *Engine) move(ctx context.Context, delta int) error {
	e.mu.Lock()
	if e.state != StateActive {
		e.mu.Unlock()
		return ErrNotActive
	}
	next := e.current + delta
	if next < 0 || next >= len(e.questions) {
		// Clamped at the boundary: a no-op, not an error.
		e.mu.Unlock()
		return nil
	}
	e.current = next
	q := e.questions[next]
	e.mu.Unlock()

	e.emit(Event{Type: EventQuestion, QuestionIndex: next})

	// Audio follows the current question: whatever was live is stopped and
	// released before the new clip loads, so playback never overlaps.
	if q.AudioURL == nil {
		e.audio.Release()
		return nil
	}
	if err := e.audio.Load(ctx, *q.AudioURL, false); err != nil {
		e.log.Warn().Err(err).Int("question_index", next).Msg("audio load failed")
		return err // *LoadError — non-fatal, surfaced as a retry affordance
	}
	return nil
}

// ReloadAudio retries loading the current question's audio after a failed
// load. No-op for questions without audio.
func (e *Engine) ReloadAudio(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateActive {
		e.mu.Unlock()
		return ErrNotActive
	}
	q := e.questions[e.current]
	e.mu.Unlock()

	if q.AudioURL == nil {
		return nil
	}
	return e.audio.Load(ctx, *q.AudioURL, false)
}

// Submit finalizes the session. The first caller to observe Active wins the
// Active → Finalizing transition; a concurrent call (timeout racing a tap)
// observes Finalizing/Finalized and returns the existing result without
// persisting again. Persistence is fire-and-forget: the returned result is
// rendered immediately regardless of the sink's outcome.
func (e *Engine) Submit() (*Result, error) {
	e.mu.Lock()
	switch e.state {
	case StateActive:
	case StateFinalizing, StateFinalized:
		r := e.result
		e.mu.Unlock()
		return r, nil
	default:
		e.mu.Unlock()
		return nil, ErrNotActive
	}
	result := e.finalizeLocked()
	e.mu.Unlock()

	e.afterFinalize(result)
	return result, nil
}

// RequestExit is called for every navigation-away attempt. While Active it
// raises a confirmation prompt; after finalization (or a confirmed abort)
// navigation proceeds without one.
func (e *Engine) RequestExit() ExitDecision {
	d := e.guard.RequestExit()
	if d == ExitPrompt {
		e.emit(Event{Type: EventExitPrompt})
	}
	return d
}

// CancelExit dismisses the prompt; the session stays Active and unchanged.
func (e *Engine) CancelExit() {
	e.guard.Cancel()
}

// ConfirmExit aborts the session after the user confirmed the exit prompt.
// Valid only while a prompt is pending. No attempt is persisted and any
// loaded audio is released.
func (e *Engine) ConfirmExit() error {
	if !e.guard.confirmPending() {
		return ErrNotActive
	}
	return e.abort()
}

func (e *Engine) abort() error {
	e.mu.Lock()
	if e.state != StateActive {
		e.mu.Unlock()
		return ErrNotActive
	}
	e.state = StateAborted
	close(e.stopTick)
	e.guard.allowNavigation()
	e.mu.Unlock()

	e.audio.Release()
	e.emit(Event{Type: EventAborted})
	return nil
}

// Blur pauses audio when the hosting screen loses focus (tab switch,
// backgrounding). The session itself remains Active and the countdown keeps
// running.
func (e *Engine) Blur() {
	e.audio.Blur()
}

// Focus is the blur counterpart. Playback does not auto-resume; the user
// presses play again.
func (e *Engine) Focus() {}

// Close releases the engine when its hosting connection goes away. An
// Active session is aborted without a prompt — there is no one left to ask.
// Safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.state == StateActive {
		e.state = StateAborted
		close(e.stopTick)
		e.guard.allowNavigation()
	}
	e.mu.Unlock()
	e.audio.Release()
}

// Tick advances the countdown by one second, flooring at zero. Reaching
// zero finalizes the session exactly once and ends the timer. Normally
// driven by the internal ticker; exported so tests can step time
// deterministically.
func (e *Engine) Tick() {
	e.mu.Lock()
	if e.state != StateActive {
		e.mu.Unlock()
		return
	}
	if e.remaining > 0 {
		e.remaining--
	}
	remaining := e.remaining

	var result *Result
	if remaining == 0 {
		result = e.finalizeLocked()
	}
	e.mu.Unlock()

	if result == nil {
		// Playback position rides the same clock as the countdown.
		e.audio.advance(time.Second)
	}
	e.emit(Event{Type: EventTick, RemainingSeconds: remaining})
	if result != nil {
		e.afterFinalize(result)
	}
}

func (e *Engine) runTicker() {
	t := time.NewTicker(e.tickEvery)
	defer t.Stop()
	for {
		select {
		case <-e.stopTick:
			return
		case <-t.C:
			e.Tick()
		}
	}
}

// finalizeLocked performs the Active → Finalizing → Finalized transition.
// Caller must hold e.mu with state == StateActive.
func (e *Engine) finalizeLocked() *Result {
	e.state = StateFinalizing
	close(e.stopTick)

	score := 0
	for i := range e.questions {
		q := &e.questions[i]
		if idx, ok := e.answers[q.ID.String()]; ok && idx == q.CorrectOption {
			score++
		}
	}
	answers := make(map[string]int, len(e.answers))
	for k, v := range e.answers {
		answers[k] = v
	}

	e.result = &Result{
		AttemptID:        uuid.New(),
		PaperID:          e.paper.ID,
		Score:            score,
		TotalQuestions:   len(e.questions),
		Answers:          answers,
		TimeSpentSeconds: e.initialSeconds - e.remaining,
		CompletedAt:      time.Now(),
	}

	e.guard.allowNavigation()
	e.state = StateFinalized
	return e.result
}

func (e *Engine) afterFinalize(r *Result) {
	e.audio.Release()
	e.emit(Event{Type: EventFinalized, Result: r})
	go e.persist(r)
}

// persist writes the attempt record. Failures are logged and surfaced as a
// PersistenceError event at most — the already-rendered result stands.
func (e *Engine) persist(r *Result) {
	attempt := &model.TestAttempt{
		ID:               r.AttemptID,
		UserID:           e.userID,
		PaperID:          r.PaperID,
		Score:            r.Score,
		TotalQuestions:   r.TotalQuestions,
		Answers:          r.Answers,
		TimeSpentSeconds: r.TimeSpentSeconds,
		CompletedAt:      r.CompletedAt,
	}
	if _, err := e.sink.SaveAttempt(context.Background(), attempt); err != nil {
		perr := &PersistenceError{Err: err}
		e.log.Error().Err(perr).
			Str("paper_id", r.PaperID.String()).
			Str("attempt_id", r.AttemptID.String()).
			Msg("attempt not persisted; score already shown")
	}
}

// emit delivers ev without blocking; a slow consumer drops interim events.
// Terminal outcomes stay available through Result and State.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
	}
}

// ─── Accessors ─────────────────────────────────────────────────────────────

// Events returns the engine's event stream.
func (e *Engine) Events() <-chan Event { return e.events }

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentIndex returns the current question index.
func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// CurrentQuestion returns the question at the current index.
func (e *Engine) CurrentQuestion() model.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.questions[e.current]
}

// RemainingSeconds returns the countdown value.
func (e *Engine) RemainingSeconds() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

// Answers returns a copy of the answer map. Absent keys are unanswered.
func (e *Engine) Answers() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]int, len(e.answers))
	for k, v := range e.answers {
		out[k] = v
	}
	return out
}

// Result returns the finalized result, or nil before finalization.
func (e *Engine) Result() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Paper returns the paper under test.
func (e *Engine) Paper() *model.Paper { return e.paper }

// Audio returns the session's audio unit for play/pause/replay controls.
func (e *Engine) Audio() *AudioUnit { return e.audio }
