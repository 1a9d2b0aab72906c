// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

package engine

import (
	"fmt"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"dirplay/library"
	"dirplay/logger"
)

// delegate describes one known player binary and the flags to run it
// headless. volumeArgs and seekArgs are nil when the player has no such
// switch.
type delegate struct {
	name       string
	baseArgs   []string
	volumeArgs func(level float64) []string
	seekArgs   func(offset time.Duration) []string
}

// delegates is the auto-detection order. ffplay comes first: it is the only
// one that plays every discovered file type and supports both a start offset
// and a spawn volume.
var delegates = []delegate{
	{
		name:     "ffplay",
		baseArgs: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"},
		volumeArgs: func(level float64) []string {
			return []string{"-volume", strconv.Itoa(int(level * 100))}
		},
		seekArgs: func(offset time.Duration) []string {
			return []string{"-ss", fmt.Sprintf("%.3f", offset.Seconds())}
		},
	},
	{
		name:     "mpg123",
		baseArgs: []string{"-q"},
		volumeArgs: func(level float64) []string {
			return []string{"-f", strconv.Itoa(int(level * 32768))}
		},
	},
	{
		name: "paplay",
		volumeArgs: func(level float64) []string {
			return []string{"--volume", strconv.Itoa(int(level * 65536))}
		},
	},
	{
		name: "afplay",
		volumeArgs: func(level float64) []string {
			return []string{"-v", fmt.Sprintf("%.2f", level)}
		},
	},
	{name: "aplay", baseArgs: []string{"-q"}},
}

// ExecEngine delegates audio output to an external player process, one per
// track. It cannot report a position; callers estimate it from the wall
// clock. A natural process exit is the end-of-track notification.
type ExecEngine struct {
	mu sync.Mutex

	logger logger.LoggerInterface
	events chan Event

	binary   string
	delegate delegate

	cmd       *exec.Cmd
	exited    chan struct{}
	suspended bool
	level     float64
	gen       uint64 // bumps on every load and stop; stale exits are dropped
	closed    bool
}

var _ Engine = (*ExecEngine)(nil)

// NewExecEngine resolves the player binary: the configured command if given,
// otherwise the first delegate found in PATH.
func NewExecEngine(command string, log logger.LoggerInterface) (*ExecEngine, error) {
	e := &ExecEngine{
		logger: log,
		events: make(chan Event, eventBufferSize),
		level:  1,
	}

	if command != "" {
		path, err := exec.LookPath(command)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
		e.binary = path
		e.delegate = delegate{name: command}
		return e, nil
	}

	for _, d := range delegates {
		if path, err := exec.LookPath(d.name); err == nil {
			e.binary = path
			e.delegate = d
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: no player binary found in PATH", ErrEngineUnavailable)
}

func (e *ExecEngine) LoadAndPlay(track library.Track, offset time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()

	args := append([]string{}, e.delegate.baseArgs...)
	if e.delegate.volumeArgs != nil {
		args = append(args, e.delegate.volumeArgs(e.level)...)
	}
	if offset > 0 {
		if e.delegate.seekArgs != nil {
			args = append(args, e.delegate.seekArgs(offset)...)
		} else {
			e.logger.Printf("%s cannot start mid-track, %s restarts from the beginning",
				e.delegate.name, track.Name)
		}
	}
	args = append(args, track.Path)

	cmd := exec.Command(e.binary, args...)
	cmd.SysProcAttr = sysProcAttr()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMediaLoad, track.Name, err)
	}

	e.cmd = cmd
	e.suspended = false
	e.gen++
	gen := e.gen
	exited := make(chan struct{})
	e.exited = exited

	go func() {
		err := cmd.Wait()
		close(exited)
		e.reap(gen, err)
	}()
	return nil
}

// reap turns a natural process exit into a track-ended event. Exits caused
// by Stop or by a replacement load carry a stale gen and are dropped.
func (e *ExecEngine) reap(gen uint64, waitErr error) {
	e.mu.Lock()
	stale := gen != e.gen || e.closed
	if !stale {
		e.cmd = nil
		e.suspended = false
	}
	e.mu.Unlock()
	if stale {
		return
	}

	if waitErr != nil {
		e.logger.Printf("%s exited: %v", e.delegate.name, waitErr)
	}
	select {
	case e.events <- Event{Type: EventTrackEnded}:
	default:
	}
}

// Pause suspends the player process. Platforms without job control get the
// degraded path: the process is dropped and the caller's resume reloads at
// its estimated offset.
func (e *ExecEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd == nil || e.suspended {
		return nil
	}
	if err := suspendProcess(e.cmd); err != nil {
		e.logger.Printf("cannot suspend %s (%v), stopping it instead", e.delegate.name, err)
		e.stopLocked()
		return nil
	}
	e.suspended = true
	return nil
}

func (e *ExecEngine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd == nil {
		return ErrResumeUnsupported
	}
	if !e.suspended {
		return nil
	}
	if err := resumeProcess(e.cmd); err != nil {
		return fmt.Errorf("%w: %v", ErrResumeUnsupported, err)
	}
	e.suspended = false
	return nil
}

func (e *ExecEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	return nil
}

func (e *ExecEngine) stopLocked() {
	e.gen++
	if e.cmd == nil {
		return
	}
	if err := killProcess(e.cmd); err != nil {
		e.logger.PrintError("kill "+e.delegate.name, err)
	}
	e.cmd = nil
	e.suspended = false
}

// SetVolume stores the level for the next spawn. A running process keeps the
// volume it was started with; external players have no live volume control.
func (e *ExecEngine) SetVolume(v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.level = clampVolume(v)
	if e.cmd != nil {
		e.logger.Printf("%s has no live volume control, %.0f%% applies at the next track",
			e.delegate.name, e.level*100)
	}
	return nil
}

func (e *ExecEngine) Position() (time.Duration, error) {
	return 0, ErrPositionUnsupported
}

func (e *ExecEngine) Events() <-chan Event {
	return e.events
}

func (e *ExecEngine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	exited := e.exited
	running := e.cmd != nil
	e.stopLocked()
	e.mu.Unlock()

	if running && exited != nil {
		select {
		case <-exited:
		case <-time.After(3 * time.Second):
			e.logger.Printf("%s did not exit in time", e.delegate.name)
		}
	}
	return nil
}
