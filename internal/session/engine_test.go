package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Fakes ─────────────────────────────────────────────────────────────────

type fakeSink struct {
	mu       sync.Mutex
	attempts []*model.TestAttempt
	err      error
	saved    chan *model.TestAttempt
}

func newFakeSink() *fakeSink {
	return &fakeSink{saved: make(chan *model.TestAttempt, 16)}
}

func (s *fakeSink) SaveAttempt(ctx context.Context, a *model.TestAttempt) (uuid.UUID, error) {
	s.mu.Lock()
	s.attempts = append(s.attempts, a)
	s.mu.Unlock()
	s.saved <- a
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return a.ID, nil
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}

type fakeLoader struct {
	mu    sync.Mutex
	loads []string
	dur   time.Duration
	err   error
}

func (l *fakeLoader) Load(ctx context.Context, ref string) (time.Duration, error) {
	l.mu.Lock()
	l.loads = append(l.loads, ref)
	l.mu.Unlock()
	if l.err != nil {
		return 0, l.err
	}
	if l.dur == 0 {
		return 30 * time.Second, nil
	}
	return l.dur, nil
}

func (l *fakeLoader) loaded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.loads...)
}

// ─── Helpers ───────────────────────────────────────────────────────────────

func testPaper(premium bool, durationMinutes int) *model.Paper {
	return &model.Paper{
		ID:              uuid.New(),
		Title:           "IELTS Listening Practice 1",
		Category:        "Listening",
		Difficulty:      model.DifficultyIntermediate,
		DurationMinutes: durationMinutes,
		IsPremium:       premium,
	}
}

func mcq(prompt string, correct int, options ...string) model.Question {
	return model.Question{
		ID:            uuid.New(),
		Prompt:        prompt,
		Options:       options,
		CorrectOption: correct,
	}
}

func audioMCQ(ref string, correct int, options ...string) model.Question {
	q := mcq("listen and answer", correct, options...)
	q.AudioURL = &ref
	return q
}

// manualEngine builds a started engine whose countdown is driven by Tick.
func manualEngine(t *testing.T, paper *model.Paper, questions []model.Question, loader AudioLoader, sink AttemptSink) *Engine {
	t.Helper()
	e := New(uuid.New(), paper, questions, loader, sink, WithTickInterval(0))
	require.NoError(t, e.Start(context.Background(), true))
	return e
}

func waitSaved(t *testing.T, sink *fakeSink) *model.TestAttempt {
	t.Helper()
	select {
	case a := <-sink.saved:
		return a
	case <-time.After(2 * time.Second):
		t.Fatal("attempt was never persisted")
		return nil
	}
}

// ─── Start / entitlement ───────────────────────────────────────────────────

func TestStartPremiumWithoutSubscription(t *testing.T) {
	e := New(uuid.New(), testPaper(true, 10), []model.Question{mcq("q", 0, "a", "b")}, nil, newFakeSink(), WithTickInterval(0))

	err := e.Start(context.Background(), false)

	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, StateNotStarted, e.State())
	assert.Equal(t, 0, e.RemainingSeconds(), "no session state is created")
}

func TestStartFreePaperWithoutSubscription(t *testing.T) {
	e := New(uuid.New(), testPaper(false, 10), []model.Question{mcq("q", 0, "a", "b")}, nil, newFakeSink(), WithTickInterval(0))

	require.NoError(t, e.Start(context.Background(), false))
	assert.Equal(t, StateActive, e.State())
	assert.Equal(t, 600, e.RemainingSeconds())
}

func TestStartTwice(t *testing.T) {
	e := New(uuid.New(), testPaper(false, 10), []model.Question{mcq("q", 0, "a", "b")}, nil, newFakeSink(), WithTickInterval(0))

	require.NoError(t, e.Start(context.Background(), true))
	require.ErrorIs(t, e.Start(context.Background(), true), ErrAlreadyStarted)
}

func TestStartWithoutQuestions(t *testing.T) {
	e := New(uuid.New(), testPaper(false, 10), nil, nil, newFakeSink(), WithTickInterval(0))

	require.ErrorIs(t, e.Start(context.Background(), true), ErrNoQuestions)
	assert.Equal(t, StateNotStarted, e.State())
}

// ─── Answer capture ────────────────────────────────────────────────────────

func TestSelectAnswer(t *testing.T) {
	q1 := mcq("q1", 1, "a", "b", "c")
	e := manualEngine(t, testPaper(false, 10), []model.Question{q1}, nil, newFakeSink())
	qid := q1.ID.String()

	require.NoError(t, e.SelectAnswer(qid, 2))
	assert.Equal(t, map[string]int{qid: 2}, e.Answers())

	// Overwrite, never remove.
	require.NoError(t, e.SelectAnswer(qid, 0))
	assert.Equal(t, map[string]int{qid: 0}, e.Answers())

	// Reselecting the same index is a state no-op.
	require.NoError(t, e.SelectAnswer(qid, 0))
	assert.Equal(t, map[string]int{qid: 0}, e.Answers())
}

func TestSelectAnswerInvalid(t *testing.T) {
	q1 := mcq("q1", 0, "a", "b")
	e := manualEngine(t, testPaper(false, 10), []model.Question{q1}, nil, newFakeSink())

	require.ErrorIs(t, e.SelectAnswer(q1.ID.String(), 2), ErrInvalidOption)
	require.ErrorIs(t, e.SelectAnswer(q1.ID.String(), -1), ErrInvalidOption)
	require.ErrorIs(t, e.SelectAnswer(uuid.NewString(), 0), ErrInvalidOption)
	assert.Empty(t, e.Answers(), "rejected selections leave state unchanged")
}

func TestSelectAnswerRequiresActive(t *testing.T) {
	q1 := mcq("q1", 0, "a", "b")
	e := New(uuid.New(), testPaper(false, 10), []model.Question{q1}, nil, newFakeSink(), WithTickInterval(0))

	require.ErrorIs(t, e.SelectAnswer(q1.ID.String(), 0), ErrNotActive)
}

// ─── Navigation ────────────────────────────────────────────────────────────

func TestNavigationClampsAtBoundaries(t *testing.T) {
	qs := []model.Question{mcq("q1", 0, "a", "b"), mcq("q2", 0, "a", "b"), mcq("q3", 0, "a", "b")}
	e := manualEngine(t, testPaper(false, 10), qs, nil, newFakeSink())
	ctx := context.Background()

	require.NoError(t, e.Previous(ctx))
	assert.Equal(t, 0, e.CurrentIndex(), "Previous at the first question is a no-op")

	require.NoError(t, e.Next(ctx))
	require.NoError(t, e.Next(ctx))
	assert.Equal(t, 2, e.CurrentIndex())

	require.NoError(t, e.Next(ctx))
	assert.Equal(t, 2, e.CurrentIndex(), "Next at the last question is a no-op")
}

func TestNavigationSwitchesAudio(t *testing.T) {
	qs := []model.Question{
		audioMCQ("clip-a.mp3", 0, "a", "b"),
		audioMCQ("clip-b.mp3", 0, "a", "b"),
		mcq("no audio", 0, "a", "b"),
	}
	loader := &fakeLoader{}
	e := manualEngine(t, testPaper(false, 10), qs, loader, newFakeSink())
	ctx := context.Background()

	e.Audio().Play()
	require.NoError(t, e.Next(ctx))

	assert.Equal(t, []string{"clip-a.mp3", "clip-b.mp3"}, loader.loaded())
	st := e.Audio().Status()
	assert.Equal(t, "clip-b.mp3", st.Ref)
	assert.False(t, st.Playing, "the superseding clip starts paused")
	assert.Zero(t, st.PositionSeconds)

	// Moving to a question without audio releases the live clip.
	require.NoError(t, e.Next(ctx))
	st = e.Audio().Status()
	assert.False(t, st.Loaded)
	assert.Empty(t, st.Ref)
}

func TestFailedLoadStillReleasesPreviousClip(t *testing.T) {
	qs := []model.Question{
		audioMCQ("clip-a.mp3", 0, "a", "b"),
		audioMCQ("clip-b.mp3", 0, "a", "b"),
	}
	loader := &fakeLoader{}
	e := manualEngine(t, testPaper(false, 10), qs, loader, newFakeSink())

	e.Audio().Play()
	loader.mu.Lock()
	loader.err = errors.New("404")
	loader.mu.Unlock()

	err := e.Next(context.Background())
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "clip-b.mp3", loadErr.Ref)

	// A was stopped before B began loading; B failed, so nothing is live.
	st := e.Audio().Status()
	assert.False(t, st.Loaded)
	assert.False(t, st.Playing)
	assert.True(t, st.LoadFailed)

	// The session survives a load failure.
	assert.Equal(t, StateActive, e.State())
	require.NoError(t, e.SelectAnswer(qs[1].ID.String(), 1))
}

// ─── Countdown & auto-submit ───────────────────────────────────────────────

func TestTimeoutAutoSubmitScenario(t *testing.T) {
	// Paper with duration 1 minute, 2 questions; Q1 answered correctly,
	// Q2 left unanswered; timer expires.
	q1 := mcq("q1", 2, "a", "b", "c")
	q2 := mcq("q2", 0, "a", "b")
	sink := newFakeSink()
	e := manualEngine(t, testPaper(false, 1), []model.Question{q1, q2}, nil, sink)

	require.NoError(t, e.SelectAnswer(q1.ID.String(), 2))

	for i := 0; i < 60; i++ {
		e.Tick()
	}

	assert.Equal(t, StateFinalized, e.State())
	result := e.Result()
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 60, result.TimeSpentSeconds)
	assert.Equal(t, map[string]int{q1.ID.String(): 2}, result.Answers)

	saved := waitSaved(t, sink)
	assert.Equal(t, 1, saved.Score)
	assert.Equal(t, 60, saved.TimeSpentSeconds)

	// No further ticks are delivered after finalization.
	e.Tick()
	e.Tick()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, sink.count(), "exactly one persisted attempt")
	assert.Equal(t, 0, e.RemainingSeconds(), "remaining floors at zero")
}

func TestRemainingIsNonIncreasing(t *testing.T) {
	e := manualEngine(t, testPaper(false, 1), []model.Question{mcq("q", 0, "a", "b")}, nil, newFakeSink())

	prev := e.RemainingSeconds()
	for i := 0; i < 70; i++ {
		e.Tick()
		cur := e.RemainingSeconds()
		require.LessOrEqual(t, cur, prev)
		require.GreaterOrEqual(t, cur, 0)
		prev = cur
	}
}

func TestInternalTickerAutoSubmits(t *testing.T) {
	sink := newFakeSink()
	e := New(uuid.New(), testPaper(false, 1), []model.Question{mcq("q", 0, "a", "b")}, nil, sink,
		WithTickInterval(time.Millisecond))
	require.NoError(t, e.Start(context.Background(), true))

	waitSaved(t, sink)
	assert.Equal(t, StateFinalized, e.State())
}

// ─── Submit ────────────────────────────────────────────────────────────────

func TestSubmitComputesScore(t *testing.T) {
	q1 := mcq("q1", 0, "a", "b")
	q2 := mcq("q2", 1, "a", "b")
	q3 := mcq("q3", 1, "a", "b", "c")
	sink := newFakeSink()
	e := manualEngine(t, testPaper(false, 2), []model.Question{q1, q2, q3}, nil, sink)

	require.NoError(t, e.SelectAnswer(q1.ID.String(), 0)) // correct
	require.NoError(t, e.SelectAnswer(q2.ID.String(), 0)) // wrong
	for i := 0; i < 45; i++ {
		e.Tick()
	}

	result, err := e.Submit()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score, "unanswered questions are never counted correct")
	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 45, result.TimeSpentSeconds)

	saved := waitSaved(t, sink)
	assert.Equal(t, result.AttemptID, saved.ID)
}

func TestSubmitRaceStorm(t *testing.T) {
	q1 := mcq("q1", 0, "a", "b")
	sink := newFakeSink()
	e := manualEngine(t, testPaper(false, 1), []model.Question{q1}, nil, sink)
	require.NoError(t, e.SelectAnswer(q1.ID.String(), 0))

	var wg sync.WaitGroup
	gate := make(chan struct{})
	results := make([]*Result, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-gate
			if idx%2 == 0 {
				// Half the goroutines simulate the timeout firing.
				for j := 0; j < 60; j++ {
					e.Tick()
				}
			}
			r, err := e.Submit()
			if err == nil {
				results[idx] = r
			}
		}(i)
	}

	close(gate)
	wg.Wait()

	waitSaved(t, sink)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, sink.count(), "concurrent submits persist exactly one attempt")

	first := e.Result()
	require.NotNil(t, first)
	for _, r := range results {
		if r != nil {
			assert.Same(t, first, r, "all callers observe the same result")
		}
	}
}

func TestPersistenceFailureDoesNotRevertResult(t *testing.T) {
	q1 := mcq("q1", 0, "a", "b")
	sink := newFakeSink()
	sink.err = errors.New("write timeout")
	e := manualEngine(t, testPaper(false, 1), []model.Question{q1}, nil, sink)
	require.NoError(t, e.SelectAnswer(q1.ID.String(), 0))

	result, err := e.Submit()
	require.NoError(t, err, "persistence is best-effort and never blocks the result")
	assert.Equal(t, 1, result.Score)

	waitSaved(t, sink)
	assert.Equal(t, StateFinalized, e.State())
	assert.Same(t, result, e.Result())
}

// ─── Exit guard ────────────────────────────────────────────────────────────

func TestQuitConfirmAborts(t *testing.T) {
	q1 := audioMCQ("clip.mp3", 0, "a", "b")
	sink := newFakeSink()
	loader := &fakeLoader{}
	e := manualEngine(t, testPaper(false, 10), []model.Question{q1}, loader, sink)
	e.Audio().Play()

	require.Equal(t, ExitPrompt, e.RequestExit())
	require.NoError(t, e.ConfirmExit())

	assert.Equal(t, StateAborted, e.State())
	assert.False(t, e.Audio().Status().Loaded, "abort releases loaded audio")

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, sink.count(), "aborting never calls the persistence sink")
	assert.Nil(t, e.Result())
}

func TestQuitCancelKeepsSessionUnchanged(t *testing.T) {
	qs := []model.Question{mcq("q1", 0, "a", "b"), mcq("q2", 1, "a", "b")}
	e := manualEngine(t, testPaper(false, 10), qs, nil, newFakeSink())
	require.NoError(t, e.Next(context.Background()))
	require.NoError(t, e.SelectAnswer(qs[1].ID.String(), 1))
	answersBefore := e.Answers()
	indexBefore := e.CurrentIndex()

	require.Equal(t, ExitPrompt, e.RequestExit())
	e.CancelExit()

	assert.Equal(t, StateActive, e.State())
	assert.Equal(t, indexBefore, e.CurrentIndex())
	assert.Equal(t, answersBefore, e.Answers())

	// Cancelling does not consume the intercept: leaving again re-prompts.
	assert.Equal(t, ExitPrompt, e.RequestExit())
}

func TestConfirmWithoutPromptRejected(t *testing.T) {
	e := manualEngine(t, testPaper(false, 10), []model.Question{mcq("q", 0, "a", "b")}, nil, newFakeSink())

	require.ErrorIs(t, e.ConfirmExit(), ErrNotActive)
	assert.Equal(t, StateActive, e.State())
}

func TestSubmitNavigationBypassesPrompt(t *testing.T) {
	e := manualEngine(t, testPaper(false, 10), []model.Question{mcq("q", 0, "a", "b")}, nil, newFakeSink())

	_, err := e.Submit()
	require.NoError(t, err)

	assert.Equal(t, ExitAllowed, e.RequestExit(), "a finalized session never re-triggers the prompt")
}

func TestAbortStopsCountdown(t *testing.T) {
	e := manualEngine(t, testPaper(false, 1), []model.Question{mcq("q", 0, "a", "b")}, nil, newFakeSink())

	require.Equal(t, ExitPrompt, e.RequestExit())
	require.NoError(t, e.ConfirmExit())

	before := e.RemainingSeconds()
	e.Tick()
	assert.Equal(t, before, e.RemainingSeconds(), "no stray ticks after abort")
}

// ─── Focus & lifecycle ─────────────────────────────────────────────────────

func TestBlurPausesAudioButKeepsSessionActive(t *testing.T) {
	q1 := audioMCQ("clip.mp3", 0, "a", "b")
	e := manualEngine(t, testPaper(false, 10), []model.Question{q1}, &fakeLoader{}, newFakeSink())
	e.Audio().Play()
	require.True(t, e.Audio().Status().Playing)

	e.Blur()

	assert.False(t, e.Audio().Status().Playing)
	assert.Equal(t, StateActive, e.State(), "losing focus does not end the session")
}

func TestCloseReleasesEverything(t *testing.T) {
	q1 := audioMCQ("clip.mp3", 0, "a", "b")
	sink := newFakeSink()
	e := manualEngine(t, testPaper(false, 10), []model.Question{q1}, &fakeLoader{}, sink)
	e.Audio().Play()

	e.Close()
	e.Close() // idempotent

	assert.Equal(t, StateAborted, e.State())
	assert.False(t, e.Audio().Status().Loaded)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, sink.count())
}

// ─── Events ────────────────────────────────────────────────────────────────

func TestFinalizedEventCarriesResult(t *testing.T) {
	q1 := mcq("q1", 0, "a", "b")
	e := manualEngine(t, testPaper(false, 1), []model.Question{q1}, nil, newFakeSink())
	require.NoError(t, e.SelectAnswer(q1.ID.String(), 0))

	_, err := e.Submit()
	require.NoError(t, err)

	deadline := time.After(time.Second)
	for {
		select {
		case ev := <-e.Events():
			if ev.Type == EventFinalized {
				require.NotNil(t, ev.Result)
				assert.Equal(t, 1, ev.Result.Score)
				return
			}
		case <-deadline:
			t.Fatal("finalized event was never emitted")
		}
	}
}
