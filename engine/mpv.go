// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

package engine

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/supersonic-app/go-mpv"

	"dirplay/library"
	"dirplay/logger"
)

// MpvEngine drives an embedded libmpv instance. End-of-file notifications
// arrive on a dedicated wait goroutine and are funneled into the events
// channel; position and volume ride on mpv properties.
type MpvEngine struct {
	instance *mpv.Mpv
	logger   logger.LoggerInterface
	events   chan Event
	done     chan struct{}

	mu        sync.Mutex
	replacing bool // a loadfile we issued is in flight; suppress its end event
	stopped   bool
	closed    bool
}

var _ Engine = (*MpvEngine)(nil)

func NewMpvEngine(log logger.LoggerInterface) (*MpvEngine, error) {
	instance := mpv.Create()

	options := [][2]string{
		{"audio-display", "no"},
		{"video", "no"},
		{"terminal", "no"},
		{"audio-client-name", "dirplay"},
	}
	for _, opt := range options {
		if err := instance.SetOptionString(opt[0], opt[1]); err != nil {
			instance.TerminateDestroy()
			return nil, fmt.Errorf("%w: option %s: %v", ErrEngineUnavailable, opt[0], err)
		}
	}
	if err := instance.Initialize(); err != nil {
		instance.TerminateDestroy()
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	e := &MpvEngine{
		instance: instance,
		logger:   log,
		events:   make(chan Event, eventBufferSize),
		done:     make(chan struct{}),
		stopped:  true,
	}
	go e.waitEventLoop()
	return e, nil
}

// waitEventLoop translates libmpv events into engine events. It exits when
// the shutdown event arrives after Close issued quit.
func (e *MpvEngine) waitEventLoop() {
	defer close(e.done)
	for {
		evt := e.instance.WaitEvent(1)
		if evt == nil {
			continue
		}
		switch evt.Event_Id {
		case mpv.EVENT_END_FILE:
			e.mu.Lock()
			suppress := e.replacing || e.stopped
			e.stopped = true
			e.mu.Unlock()
			if !suppress {
				select {
				case e.events <- Event{Type: EventTrackEnded}:
				default:
				}
			}
		case mpv.EVENT_START_FILE:
			e.mu.Lock()
			e.replacing = false
			e.stopped = false
			e.mu.Unlock()
		case mpv.EVENT_SHUTDOWN:
			return
		default:
			// property spam and idle notifications, nothing to do
		}
	}
}

// LoadAndPlay replaces whatever is loaded with track. mpv loads
// asynchronously: open failures we can detect locally are returned, decode
// failures surface later as an immediate end-of-file.
func (e *MpvEngine) LoadAndPlay(track library.Track, offset time.Duration) error {
	file, err := os.Open(track.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMediaLoad, err)
	}
	file.Close()

	start := "0"
	if offset > 0 {
		start = fmt.Sprintf("%.3f", offset.Seconds())
	}
	if err := e.instance.SetOptionString("start", start); err != nil {
		e.logger.PrintError("mpv start option", err)
	}

	e.mu.Lock()
	e.replacing = true
	e.mu.Unlock()

	if err := e.instance.Command([]string{"loadfile", track.Path}); err != nil {
		e.mu.Lock()
		e.replacing = false
		e.mu.Unlock()
		return fmt.Errorf("%w: %s: %v", ErrMediaLoad, track.Name, err)
	}

	// a pause left over from the previous track must not stick
	if err := e.instance.SetProperty("pause", mpv.FORMAT_FLAG, false); err != nil {
		e.logger.PrintError("mpv unpause", err)
	}
	return nil
}

func (e *MpvEngine) Pause() error {
	return e.instance.SetProperty("pause", mpv.FORMAT_FLAG, true)
}

func (e *MpvEngine) Resume() error {
	return e.instance.SetProperty("pause", mpv.FORMAT_FLAG, false)
}

func (e *MpvEngine) Stop() error {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()
	return e.instance.Command([]string{"stop"})
}

func (e *MpvEngine) SetVolume(v float64) error {
	return e.instance.SetProperty("volume", mpv.FORMAT_DOUBLE, clampVolume(v)*100)
}

func (e *MpvEngine) Position() (time.Duration, error) {
	pos, err := e.instance.GetProperty("time-pos", mpv.FORMAT_DOUBLE)
	if err != nil {
		return 0, fmt.Errorf("time-pos: %w", err)
	}
	if pos == nil {
		return 0, nil
	}
	return time.Duration(pos.(float64) * float64(time.Second)), nil
}

func (e *MpvEngine) Events() <-chan Event {
	return e.events
}

// Close asks mpv to quit and waits for the event loop to observe the
// shutdown, so TerminateDestroy never races a pending WaitEvent.
func (e *MpvEngine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	if err := e.instance.Command([]string{"quit"}); err != nil {
		e.logger.PrintError("mpv quit", err)
	}
	select {
	case <-e.done:
	case <-time.After(3 * time.Second):
		e.logger.Print("mpv did not shut down in time")
	}
	e.instance.TerminateDestroy()
	return nil
}
