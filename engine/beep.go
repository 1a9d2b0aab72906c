// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

package engine

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"dirplay/library"
	"dirplay/logger"
)

const (
	speakerSampleRate = beep.SampleRate(44100)
	resampleQuality   = 4
)

// BeepEngine decodes and plays audio in-process through the system speaker.
// It reports a native position derived from the decoder's sample counter.
type BeepEngine struct {
	mu sync.Mutex

	logger logger.LoggerInterface
	events chan Event

	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	level  float64
	gen    uint64 // bumps on every load and stop; stale end callbacks are dropped
	closed bool
}

var _ Engine = (*BeepEngine)(nil)

func NewBeepEngine(log logger.LoggerInterface) (*BeepEngine, error) {
	if err := speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("%w: speaker init: %v", ErrEngineUnavailable, err)
	}
	return &BeepEngine{
		logger: log,
		events: make(chan Event, eventBufferSize),
		level:  1,
	}, nil
}

func (e *BeepEngine) LoadAndPlay(track library.Track, offset time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()

	file, err := os.Open(track.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMediaLoad, err)
	}
	streamer, format, err := decodeAudio(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("%w: %s: %v", ErrMediaLoad, track.Name, err)
	}

	if offset > 0 {
		if err := streamer.Seek(format.SampleRate.N(offset)); err != nil {
			e.logger.PrintError("seek "+track.Name, err)
		}
	}

	e.file = file
	e.streamer = streamer
	e.format = format

	var output beep.Streamer = streamer
	if format.SampleRate != speakerSampleRate {
		output = beep.Resample(resampleQuality, format.SampleRate, speakerSampleRate, streamer)
	}
	e.ctrl = &beep.Ctrl{Streamer: output}
	e.volume = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   gain(e.level),
		Silent:   e.level <= 0,
	}

	e.gen++
	gen := e.gen
	speaker.Play(beep.Seq(e.volume, beep.Callback(func() {
		// runs on the speaker goroutine; hop off before taking e.mu
		go e.trackEnded(gen)
	})))
	return nil
}

// trackEnded reports a drained streamer. Ends belonging to a superseded load
// carry a stale gen and are dropped.
func (e *BeepEngine) trackEnded(gen uint64) {
	e.mu.Lock()
	stale := gen != e.gen || e.closed
	e.mu.Unlock()
	if stale {
		return
	}
	select {
	case e.events <- Event{Type: EventTrackEnded}:
	default:
	}
}

func (e *BeepEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl == nil {
		return nil
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

func (e *BeepEngine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl == nil {
		return nil
	}
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (e *BeepEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	return nil
}

func (e *BeepEngine) stopLocked() {
	e.gen++
	if e.streamer == nil {
		return
	}
	speaker.Clear()
	if err := e.streamer.Close(); err != nil {
		e.logger.PrintError("close streamer", err)
	}
	e.file.Close()
	e.file = nil
	e.streamer = nil
	e.ctrl = nil
	e.volume = nil
}

func (e *BeepEngine) SetVolume(v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.level = clampVolume(v)
	if e.volume == nil {
		return nil
	}
	speaker.Lock()
	e.volume.Volume = gain(e.level)
	e.volume.Silent = e.level <= 0
	speaker.Unlock()
	return nil
}

func (e *BeepEngine) Position() (time.Duration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return 0, nil
	}
	speaker.Lock()
	pos := e.streamer.Position()
	speaker.Unlock()
	return e.format.SampleRate.D(pos), nil
}

func (e *BeepEngine) Events() <-chan Event {
	return e.events
}

func (e *BeepEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.stopLocked()
	return nil
}

// gain maps a normalized 0..1 level to the exponential volume scale, so the
// effective amplitude multiplier equals the level itself (2^log2(v) = v).
func gain(level float64) float64 {
	if level <= 0 {
		return 0
	}
	return math.Log2(level)
}

func decodeAudio(file *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(file.Name())) {
	case ".wav":
		return wav.Decode(file)
	case ".mp3":
		return mp3.Decode(file)
	case ".flac":
		return flac.Decode(file)
	case ".ogg":
		return vorbis.Decode(file)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported file type %s", filepath.Ext(file.Name()))
	}
}
