package session

import "sync"

// ExitDecision is the outcome of a navigation-away attempt.
type ExitDecision int

const (
	// ExitAllowed lets the navigation proceed without a prompt.
	ExitAllowed ExitDecision = iota
	// ExitPrompt holds the navigation until the user confirms or cancels.
	ExitPrompt
)

// ExitGuard intercepts navigation away from an active test screen. It is
// registered when the session becomes Active and must never re-prompt once
// the session is finalized or aborting: the engine's own submit sets the
// bypass before navigating to results.
type ExitGuard struct {
	mu      sync.Mutex
	active  bool
	bypass  bool
	pending bool
}

func newExitGuard() *ExitGuard {
	return &ExitGuard{}
}

// register arms the intercept. Called on NotStarted → Active.
func (g *ExitGuard) register() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = true
	g.bypass = false
	g.pending = false
}

// allowNavigation disarms the intercept permanently. Called by finalization
// and by a confirmed abort, before the suppressed navigation proceeds.
func (g *ExitGuard) allowNavigation() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bypass = true
	g.pending = false
}

// RequestExit is invoked for every navigation-away attempt. While the
// intercept is armed it demands confirmation; otherwise navigation proceeds.
func (g *ExitGuard) RequestExit() ExitDecision {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.active || g.bypass {
		return ExitAllowed
	}
	g.pending = true
	return ExitPrompt
}

// Cancel dismisses a pending prompt. The navigation stays suppressed and
// nothing else changes.
func (g *ExitGuard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = false
}

// Pending reports whether a confirmation prompt is currently showing.
func (g *ExitGuard) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// confirmPending consumes a pending prompt, reporting whether there was one.
func (g *ExitGuard) confirmPending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.pending {
		return false
	}
	g.pending = false
	return true
}
