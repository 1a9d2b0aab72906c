// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

package playback

import (
	"fmt"
	"time"
)

// State is the controller's lifecycle phase.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

type UiEventType int

const (
	// EventStopped means playback halted; the display resets to none/zero.
	EventStopped UiEventType = iota
	// EventPlaying carries the library.Track that just started.
	EventPlaying
	// EventPaused and EventUnpaused carry the current library.Track.
	EventPaused
	EventUnpaused
	// EventStatus carries a StatusData progress refresh.
	EventStatus
)

type UiEvent struct {
	Type UiEventType
	Data interface{}
}

// EventConsumer is the display sink. SendEvent must not block: the UI hands
// the event to its own buffered channel and drops it when full.
type EventConsumer interface {
	SendEvent(UiEvent)
}

// StatusData is the payload of an EventStatus refresh.
type StatusData struct {
	TrackName string
	State     State
	Volume    float64
	Position  time.Duration
	Duration  time.Duration
	Progress  float64 // 0..100, 0 when the duration is unknown
	TimeText  string  // "M:SS / M:SS"
}

// FormatTimeSpan renders the elapsed/total pair for the status line.
func FormatTimeSpan(position, duration time.Duration) string {
	return formatClock(position) + " / " + formatClock(duration)
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// ProgressPercent clamps elapsed/total to 0..100. Tracks of unknown duration
// report 0 rather than dividing by zero.
func ProgressPercent(position, duration time.Duration) float64 {
	if duration <= 0 {
		return 0
	}
	pct := 100 * position.Seconds() / duration.Seconds()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
