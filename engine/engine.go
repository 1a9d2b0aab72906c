// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package engine drives audio output. Each implementation wraps one concrete
// backend; the playback controller is written against the Engine interface
// only and never sees a concrete type.
package engine

import (
	"errors"
	"fmt"
	"time"

	"dirplay/library"
	"dirplay/logger"
)

var (
	// ErrEngineUnavailable wraps construction failures: the backend itself
	// cannot be brought up.
	ErrEngineUnavailable = errors.New("engine unavailable")

	// ErrMediaLoad wraps per-track open and decode failures.
	ErrMediaLoad = errors.New("cannot load media")

	// ErrPositionUnsupported is returned by Position on backends that cannot
	// report elapsed time. Callers fall back to wall-clock estimation.
	ErrPositionUnsupported = errors.New("position not supported")

	// ErrResumeUnsupported is returned by Resume on backends that cannot
	// continue suspended output. Callers reload at the estimated offset.
	ErrResumeUnsupported = errors.New("resume not supported")
)

type EventType int

const (
	EventTrackEnded EventType = iota
)

// Event is a backend notification. Engines hand events to a buffered channel
// so that no backend callback context ever touches controller state.
type Event struct {
	Type EventType
}

const eventBufferSize = 16

// Engine is the capability every audio backend satisfies.
//
// LoadAndPlay starts a track from the given offset; backends that cannot
// seek start at 0 and the caller keeps its own estimate. Pause and Resume
// are no-ops when already in that state. Stop halts output, releases
// per-track resources and is idempotent. Events delivers at most one
// EventTrackEnded per actual track end; ends caused by Stop or by loading a
// replacement track are suppressed by the engine.
type Engine interface {
	LoadAndPlay(track library.Track, offset time.Duration) error
	Pause() error
	Resume() error
	Stop() error
	SetVolume(v float64) error
	Position() (time.Duration, error)
	Events() <-chan Event
	Close() error
}

// New builds the backend selected by name. Unknown names are an error so a
// config typo does not silently fall back to the default.
func New(backend, command string, log logger.LoggerInterface) (Engine, error) {
	switch backend {
	case "", "beep":
		return NewBeepEngine(log)
	case "mpv":
		return NewMpvEngine(log)
	case "exec":
		return NewExecEngine(command, log)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrEngineUnavailable, backend)
	}
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
