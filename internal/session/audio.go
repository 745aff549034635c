package session

import (
	"context"
	"sync"
	"time"
)

// AudioUnit coordinates playback state for the at-most-one live audio
// resource of a session. It does not decode audio itself — the injected
// AudioLoader validates the resource and reports its duration; the client
// renders actual sound. Position advances on countdown ticks while playing,
// so the whole session runs on a single clock.
//
// Every exit path (question change, blur, submit, abort, unmount) must end
// in Pause or Release; leaking a playing clip past navigation is the defect
// class this type exists to prevent.
type AudioUnit struct {
	mu     sync.Mutex
	loader AudioLoader
	emit   func(AudioStatus)

	ref      string
	loaded   bool
	playing  bool
	position time.Duration
	duration time.Duration
	failed   bool
}

func newAudioUnit(loader AudioLoader, emit func(AudioStatus)) *AudioUnit {
	return &AudioUnit{loader: loader, emit: emit}
}

// Load releases any previously loaded resource first (stop before load),
// then loads ref. A failed load leaves the unit empty and returns a
// LoadError; the question stays usable without audio.
func (u *AudioUnit) Load(ctx context.Context, ref string, autoPlay bool) error {
	u.mu.Lock()
	u.releaseLocked()

	if u.loader == nil {
		u.failed = true
		status := u.statusLocked(ref)
		u.mu.Unlock()
		u.emit(status)
		return &LoadError{Ref: ref, Err: ErrNoLoader}
	}

	duration, err := u.loader.Load(ctx, ref)
	if err != nil {
		u.failed = true
		status := u.statusLocked(ref)
		u.mu.Unlock()
		u.emit(status)
		return &LoadError{Ref: ref, Err: err}
	}

	u.ref = ref
	u.loaded = true
	u.playing = autoPlay
	u.duration = duration
	u.position = 0
	u.failed = false
	status := u.statusLocked(ref)
	u.mu.Unlock()
	u.emit(status)
	return nil
}

// Play starts or resumes playback. If the clip has run to the end, playback
// restarts from the beginning. No-op when nothing is loaded.
func (u *AudioUnit) Play() {
	u.withStatus(func() {
		if !u.loaded || u.playing {
			return
		}
		if u.duration > 0 && u.position >= u.duration {
			u.position = 0
		}
		u.playing = true
	})
}

// Pause suspends playback, keeping the position. No-op when nothing is loaded.
func (u *AudioUnit) Pause() {
	u.withStatus(func() {
		if !u.loaded || !u.playing {
			return
		}
		u.playing = false
	})
}

// SeekToStart rewinds to position zero and plays. No-op when nothing is loaded.
func (u *AudioUnit) SeekToStart() {
	u.withStatus(func() {
		if !u.loaded {
			return
		}
		u.position = 0
		u.playing = true
	})
}

// Blur pauses playback because the hosting screen lost focus. The session
// itself may still be Active.
func (u *AudioUnit) Blur() {
	u.Pause()
}

// Release fully stops and clears the live resource. Safe to call repeatedly.
func (u *AudioUnit) Release() {
	u.withStatus(func() {
		u.releaseLocked()
	})
}

// advance moves the playback position forward by step while playing. On
// natural completion the unit resets to the paused/start state rather than
// looping.
func (u *AudioUnit) advance(step time.Duration) {
	u.withStatus(func() {
		if !u.loaded || !u.playing {
			return
		}
		u.position += step
		if u.duration > 0 && u.position >= u.duration {
			// didFinish: back to paused at the start.
			u.playing = false
			u.position = 0
		}
	})
}

// Status returns a snapshot of the playback state.
func (u *AudioUnit) Status() AudioStatus {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.statusLocked(u.ref)
}

func (u *AudioUnit) releaseLocked() {
	u.ref = ""
	u.loaded = false
	u.playing = false
	u.position = 0
	u.duration = 0
	u.failed = false
}

func (u *AudioUnit) statusLocked(ref string) AudioStatus {
	return AudioStatus{
		Ref:             ref,
		Loaded:          u.loaded,
		Playing:         u.playing,
		PositionSeconds: u.position.Seconds(),
		DurationSeconds: u.duration.Seconds(),
		LoadFailed:      u.failed,
	}
}

// withStatus runs fn under the lock and emits the resulting status.
func (u *AudioUnit) withStatus(fn func()) {
	u.mu.Lock()
	fn()
	status := u.statusLocked(u.ref)
	u.mu.Unlock()
	u.emit(status)
}
