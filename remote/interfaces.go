package remote

import "dirplay/library"

// ControlledPlayer is the transport surface a remote control drives. The
// playback controller implements it; callbacks fire on state transitions,
// in order, on a dispatch goroutine separate from the caller's.
type ControlledPlayer interface {
	// Registers a callback invoked when the player transitions to Paused.
	OnPaused(cb func())

	// Registers a callback invoked when the player transitions to Stopped.
	OnStopped(cb func())

	// Registers a callback invoked when the player transitions to Playing.
	OnPlaying(cb func())

	// Registers a callback invoked when a new track starts.
	OnSongChange(cb func(track library.Track))

	Play() error
	Pause() error
	Stop() error
	Next() error
	Previous() error

	SetVolume(v float64) error
	Volume() float64

	IsPaused() bool
	IsPlaying() bool
}
