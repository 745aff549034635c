package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedUnit(t *testing.T, dur time.Duration) (*AudioUnit, *[]AudioStatus) {
	t.Helper()
	var emitted []AudioStatus
	u := newAudioUnit(&fakeLoader{dur: dur}, func(st AudioStatus) {
		emitted = append(emitted, st)
	})
	require.NoError(t, u.Load(context.Background(), "clip.mp3", false))
	return u, &emitted
}

func TestAudioLoadStartsPaused(t *testing.T) {
	u, _ := loadedUnit(t, 30*time.Second)

	st := u.Status()
	assert.True(t, st.Loaded)
	assert.False(t, st.Playing)
	assert.Zero(t, st.PositionSeconds)
	assert.Equal(t, 30.0, st.DurationSeconds)
}

func TestAudioPlayPauseToggle(t *testing.T) {
	u, _ := loadedUnit(t, 30*time.Second)

	u.Play()
	assert.True(t, u.Status().Playing)

	u.advance(4 * time.Second)
	u.Pause()
	st := u.Status()
	assert.False(t, st.Playing)
	assert.Equal(t, 4.0, st.PositionSeconds, "pause keeps the position")

	u.Play()
	assert.Equal(t, 4.0, u.Status().PositionSeconds, "resume continues where it left off")
}

func TestAudioFinishResetsToStart(t *testing.T) {
	u, _ := loadedUnit(t, 3*time.Second)

	u.Play()
	for i := 0; i < 3; i++ {
		u.advance(time.Second)
	}

	st := u.Status()
	assert.False(t, st.Playing, "a finished clip does not loop")
	assert.Zero(t, st.PositionSeconds)

	// Playing again after completion restarts from the top.
	u.Play()
	st = u.Status()
	assert.True(t, st.Playing)
	assert.Zero(t, st.PositionSeconds)
}

func TestAudioSeekToStartWhilePlaying(t *testing.T) {
	u, _ := loadedUnit(t, 30*time.Second)

	u.Play()
	u.advance(10 * time.Second)
	u.SeekToStart()

	st := u.Status()
	assert.True(t, st.Playing)
	assert.Zero(t, st.PositionSeconds)
}

func TestAudioAdvanceOnlyWhilePlaying(t *testing.T) {
	u, _ := loadedUnit(t, 30*time.Second)

	u.advance(5 * time.Second)
	assert.Zero(t, u.Status().PositionSeconds, "a paused clip does not advance")
}

func TestAudioControlsNoopWhenEmpty(t *testing.T) {
	u := newAudioUnit(&fakeLoader{}, func(AudioStatus) {})

	u.Play()
	u.Pause()
	u.SeekToStart()
	u.advance(time.Second)
	u.Release()

	st := u.Status()
	assert.False(t, st.Loaded)
	assert.False(t, st.Playing)
}

func TestAudioLoadWithoutLoader(t *testing.T) {
	u := newAudioUnit(nil, func(AudioStatus) {})

	err := u.Load(context.Background(), "clip.mp3", false)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, ErrNoLoader)
	assert.True(t, u.Status().LoadFailed)
}

func TestAudioEmitsStatusOnEveryMutation(t *testing.T) {
	u, emitted := loadedUnit(t, 30*time.Second)

	u.Play()
	u.Pause()
	u.Release()

	// load + play + pause + release
	require.Len(t, *emitted, 4)
	assert.True(t, (*emitted)[1].Playing)
	assert.False(t, (*emitted)[2].Playing)
	assert.False(t, (*emitted)[3].Loaded)
}
