package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitGuardInactiveAllowsNavigation(t *testing.T) {
	g := newExitGuard()
	assert.Equal(t, ExitAllowed, g.RequestExit())
}

func TestExitGuardInterceptsWhileRegistered(t *testing.T) {
	g := newExitGuard()
	g.register()

	assert.Equal(t, ExitPrompt, g.RequestExit())
	assert.True(t, g.Pending())
}

func TestExitGuardCancelRePrompts(t *testing.T) {
	g := newExitGuard()
	g.register()

	assert.Equal(t, ExitPrompt, g.RequestExit())
	g.Cancel()
	assert.False(t, g.Pending())

	// The intercept is not consumed by a cancel.
	assert.Equal(t, ExitPrompt, g.RequestExit())
}

func TestExitGuardBypassAfterAllowNavigation(t *testing.T) {
	g := newExitGuard()
	g.register()
	g.allowNavigation()

	assert.Equal(t, ExitAllowed, g.RequestExit())
	assert.False(t, g.Pending())
}

func TestExitGuardConfirmRequiresPendingPrompt(t *testing.T) {
	g := newExitGuard()
	g.register()

	assert.False(t, g.confirmPending(), "no prompt raised yet")

	g.RequestExit()
	assert.True(t, g.confirmPending())
	assert.False(t, g.confirmPending(), "a prompt is confirmed at most once")
}
