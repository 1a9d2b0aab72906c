// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package playback owns the transport state machine and the position
// monitor. All state lives in the Controller and is mutated only under its
// mutex: commands run on caller goroutines, asynchronous engine
// notifications are drained by the monitor tick alone.
package playback

import (
	"errors"
	"sync"
	"time"

	"dirplay/engine"
	"dirplay/library"
	"dirplay/logger"
)

var (
	ErrIndexOutOfRange  = errors.New("track index out of range")
	ErrControllerClosed = errors.New("controller is closed")
)

// timeNow is swapped out by tests.
var timeNow = time.Now

const defaultVolume = 0.7

// Controller drives one engine over one fixed playlist.
type Controller struct {
	mu sync.Mutex

	playlist library.Playlist
	engine   engine.Engine
	logger   logger.LoggerInterface
	consumer EventConsumer

	index    int
	state    State
	volume   float64
	autoplay bool

	// wall-clock anchor: elapsed = anchorBase + (now - anchorEpoch) while
	// playing. Used whenever the engine cannot report a position. Pause
	// folds the elapsed time into anchorBase, resume re-arms the epoch, so
	// continuity across a pause costs nothing extra.
	anchorBase  time.Duration
	anchorEpoch time.Time

	posSupported bool // cleared once the engine reports ErrPositionUnsupported
	posErrLogged bool

	cbOnPlaying    []func()
	cbOnPaused     []func()
	cbOnStopped    []func()
	cbOnSongChange []func(library.Track)

	// remote callbacks run on one dispatch goroutine fed by this queue, so
	// they observe transitions in order and never run under c.mu
	notify     chan func()
	notifyDone chan struct{}

	monitor *monitor
	closed  bool
}

// New creates a controller over a fixed playlist. An empty playlist yields
// an inert controller: every transport command is a silent no-op and one
// diagnostic line is logged here.
func New(playlist library.Playlist, eng engine.Engine, log logger.LoggerInterface) *Controller {
	c := &Controller{
		playlist:     playlist,
		engine:       eng,
		logger:       log,
		state:        Stopped,
		volume:       defaultVolume,
		autoplay:     true,
		posSupported: true,
		notify:       make(chan func(), 32),
		notifyDone:   make(chan struct{}),
	}
	go c.notifyLoop()
	if len(playlist) == 0 {
		log.Print("no audio files found, transport controls are disabled")
	}
	return c
}

func (c *Controller) notifyLoop() {
	defer close(c.notifyDone)
	for fn := range c.notify {
		fn()
	}
}

// RegisterEventConsumer sets the display sink. Call before StartMonitor.
func (c *Controller) RegisterEventConsumer(consumer EventConsumer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consumer = consumer
}

// StartMonitor spawns the position monitor goroutine. It may be called once;
// later calls and calls after Close are ignored.
func (c *Controller) StartMonitor(interval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.monitor != nil || c.closed {
		return
	}
	c.monitor = newMonitor(c, interval)
	c.monitor.start()
}

// Close stops the monitor (bounded wait), then halts and releases the
// engine. No command is accepted afterwards. Idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	mon := c.monitor
	c.monitor = nil
	c.mu.Unlock()

	if mon != nil {
		if err := mon.stopAndWait(teardownTimeout); err != nil {
			c.logger.PrintError("monitor stop", err)
		}
	}

	// with closed set and the monitor gone nothing enqueues anymore
	close(c.notify)
	select {
	case <-c.notifyDone:
	case <-time.After(teardownTimeout):
		c.logger.Print("remote callback still running at shutdown")
	}

	if err := c.engine.Stop(); err != nil {
		c.logger.PrintError("engine stop", err)
	}
	return c.engine.Close()
}

// Play starts the current track from the beginning, or resumes when paused.
// Playing already is a no-op.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return ErrControllerClosed
	case len(c.playlist) == 0:
		return nil
	case c.state == Playing:
		return nil
	case c.state == Paused:
		return c.resumeLocked()
	default:
		return c.loadAndPlayLocked(c.index, 0)
	}
}

// Pause suspends playback. Anything but Playing is a no-op.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if c.state != Playing {
		return nil
	}

	elapsed := c.elapsedLocked()
	if err := c.engine.Pause(); err != nil {
		c.logger.PrintError("pause", err)
		return err
	}
	c.state = Paused
	c.anchorBase = elapsed
	c.anchorEpoch = time.Time{}
	c.sendEvent(EventPaused, c.playlist[c.index])
	c.notifyLocked(c.cbOnPaused)
	return nil
}

// Stop halts playback and resets the display. Stopping while stopped does
// nothing: no engine call, no display change.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if c.state == Stopped {
		return nil
	}
	return c.stopLocked()
}

func (c *Controller) Next() error     { return c.step(1) }
func (c *Controller) Previous() error { return c.step(-1) }

func (c *Controller) step(delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if len(c.playlist) == 0 {
		return nil
	}
	next := (c.index + delta + len(c.playlist)) % len(c.playlist)
	return c.switchToLocked(next)
}

// Select jumps to an explicit index: switch-and-play when not stopped,
// index-only update when stopped.
func (c *Controller) Select(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if len(c.playlist) == 0 {
		return nil
	}
	if index < 0 || index >= len(c.playlist) {
		return ErrIndexOutOfRange
	}
	return c.switchToLocked(index)
}

// SetVolume clamps v to 0..1 and applies it to the engine immediately, in
// any lifecycle phase.
func (c *Controller) SetVolume(v float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	c.volume = v
	if err := c.engine.SetVolume(v); err != nil {
		c.logger.PrintError("set volume", err)
		return err
	}
	c.sendStatusLocked()
	return nil
}

// AdjustVolume shifts the volume by delta, clamped to 0..1.
func (c *Controller) AdjustVolume(delta float64) error {
	c.mu.Lock()
	v := c.volume + delta
	c.mu.Unlock()
	return c.SetVolume(v)
}

func (c *Controller) SetAutoplay(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.autoplay = enabled
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// CurrentTrack returns the track at the current index; ok is false for an
// empty playlist.
func (c *Controller) CurrentTrack() (library.Track, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.playlist) == 0 {
		return library.Track{}, false
	}
	return c.playlist[c.index], true
}

func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

func (c *Controller) Autoplay() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoplay
}

func (c *Controller) Playlist() library.Playlist {
	return c.playlist
}

func (c *Controller) IsPlaying() bool { return c.State() == Playing }
func (c *Controller) IsPaused() bool  { return c.State() == Paused }

// PositionSeconds reports the current elapsed position for remote clients.
func (c *Controller) PositionSeconds() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Stopped {
		return 0
	}
	return c.elapsedLocked().Seconds()
}

// Remote callbacks run on the dispatch goroutine in transition order, never
// under the controller mutex, so a callback may call back into the controller
// without deadlocking.
func (c *Controller) OnPlaying(cb func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cbOnPlaying = append(c.cbOnPlaying, cb)
}

func (c *Controller) OnPaused(cb func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cbOnPaused = append(c.cbOnPaused, cb)
}

func (c *Controller) OnStopped(cb func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cbOnStopped = append(c.cbOnStopped, cb)
}

func (c *Controller) OnSongChange(cb func(library.Track)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cbOnSongChange = append(c.cbOnSongChange, cb)
}

// tick is one monitor pass: drain engine notifications, then refresh the
// displayed position, advancing when the track ran out.
func (c *Controller) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	// duplicate end notifications within one tick collapse into one
	ended := false
	for drain := true; drain; {
		select {
		case evt := <-c.engine.Events():
			if evt.Type == engine.EventTrackEnded {
				ended = true
			}
		default:
			drain = false
		}
	}
	if ended && c.state == Playing {
		c.advanceLocked()
		return
	}

	if c.state != Playing {
		return
	}

	elapsed := c.elapsedLocked()
	total := c.playlist[c.index].Duration
	if total > 0 && elapsed >= total {
		// covers backends whose end notification is late or missing
		c.advanceLocked()
		return
	}
	c.pushStatusLocked(elapsed, total)
}

// advanceLocked handles the end of the current track: next track when
// autoplay is on, plain stop otherwise.
func (c *Controller) advanceLocked() {
	if !c.autoplay {
		c.logger.Print("track ended, stopping")
		if err := c.stopLocked(); err != nil {
			c.logger.PrintError("stop", err)
		}
		return
	}
	next := (c.index + 1) % len(c.playlist)
	// a load failure already reverted to Stopped and was logged
	_ = c.loadAndPlayLocked(next, 0)
}

// loadAndPlayLocked replaces the current track with playlist[index] starting
// at offset. On failure the state reverts to Stopped and the error is
// returned for the triggering command.
func (c *Controller) loadAndPlayLocked(index int, offset time.Duration) error {
	track := c.playlist[index]

	c.drainEventsLocked()
	if err := c.engine.LoadAndPlay(track, offset); err != nil {
		c.logger.PrintError("load "+track.Name, err)
		c.index = index
		c.state = Stopped
		c.anchorBase = 0
		c.anchorEpoch = time.Time{}
		c.sendEvent(EventStopped, nil)
		c.notifyLocked(c.cbOnStopped)
		return err
	}
	if err := c.engine.SetVolume(c.volume); err != nil {
		c.logger.PrintError("set volume", err)
	}

	c.index = index
	c.state = Playing
	c.anchorBase = offset
	c.anchorEpoch = timeNow()
	c.sendEvent(EventPlaying, track)
	c.notifySongChangeLocked(track)
	c.notifyLocked(c.cbOnPlaying)
	return nil
}

// resumeLocked continues paused output. Engines that cannot suspend get the
// reload path: play again from the estimated offset.
func (c *Controller) resumeLocked() error {
	track := c.playlist[c.index]

	err := c.engine.Resume()
	if errors.Is(err, engine.ErrResumeUnsupported) {
		return c.loadAndPlayLocked(c.index, c.anchorBase)
	}
	if err != nil {
		c.logger.PrintError("resume", err)
		return err
	}

	c.state = Playing
	c.anchorEpoch = timeNow()
	c.sendEvent(EventUnpaused, track)
	c.notifyLocked(c.cbOnPlaying)
	return nil
}

func (c *Controller) stopLocked() error {
	err := c.engine.Stop()
	if err != nil {
		c.logger.PrintError("engine stop", err)
	}
	c.state = Stopped
	c.anchorBase = 0
	c.anchorEpoch = time.Time{}
	c.drainEventsLocked()
	c.sendEvent(EventStopped, nil)
	c.notifyLocked(c.cbOnStopped)
	return err
}

// switchToLocked moves the index; when not stopped the new track starts
// immediately from the beginning.
func (c *Controller) switchToLocked(index int) error {
	if c.state == Stopped {
		c.index = index
		return nil
	}
	return c.loadAndPlayLocked(index, 0)
}

// elapsedLocked returns the current track position. A native engine
// position wins; otherwise the wall-clock anchor estimates it. Engine errors
// other than the permanent capability gap are transient: logged once, the
// anchor covers the tick.
func (c *Controller) elapsedLocked() time.Duration {
	if c.state == Playing && c.posSupported {
		pos, err := c.engine.Position()
		switch {
		case err == nil:
			c.posErrLogged = false
			return pos
		case errors.Is(err, engine.ErrPositionUnsupported):
			c.posSupported = false
		default:
			if !c.posErrLogged {
				c.logger.PrintError("position", err)
				c.posErrLogged = true
			}
		}
	}
	elapsed := c.anchorBase
	if c.state == Playing && !c.anchorEpoch.IsZero() {
		elapsed += timeNow().Sub(c.anchorEpoch)
	}
	return elapsed
}

// drainEventsLocked discards buffered engine notifications. Anything queued
// at load or stop time belongs to a superseded track.
func (c *Controller) drainEventsLocked() {
	for {
		select {
		case <-c.engine.Events():
		default:
			return
		}
	}
}

func (c *Controller) pushStatusLocked(elapsed, total time.Duration) {
	if c.consumer == nil {
		return
	}
	c.consumer.SendEvent(UiEvent{Type: EventStatus, Data: StatusData{
		TrackName: c.playlist[c.index].Name,
		State:     c.state,
		Volume:    c.volume,
		Position:  elapsed,
		Duration:  total,
		Progress:  ProgressPercent(elapsed, total),
		TimeText:  FormatTimeSpan(elapsed, total),
	}})
}

func (c *Controller) sendStatusLocked() {
	if c.consumer == nil {
		return
	}
	data := StatusData{State: c.state, Volume: c.volume}
	if c.state != Stopped && c.index < len(c.playlist) {
		data.TrackName = c.playlist[c.index].Name
		data.Position = c.elapsedLocked()
		data.Duration = c.playlist[c.index].Duration
	}
	data.Progress = ProgressPercent(data.Position, data.Duration)
	data.TimeText = FormatTimeSpan(data.Position, data.Duration)
	c.consumer.SendEvent(UiEvent{Type: EventStatus, Data: data})
}

func (c *Controller) sendEvent(typ UiEventType, data interface{}) {
	if c.consumer != nil {
		c.consumer.SendEvent(UiEvent{Type: typ, Data: data})
	}
}

func (c *Controller) notifyLocked(cbs []func()) {
	if len(cbs) == 0 {
		return
	}
	snapshot := make([]func(), len(cbs))
	copy(snapshot, cbs)
	c.enqueueNotify(func() {
		for _, cb := range snapshot {
			cb()
		}
	})
}

func (c *Controller) notifySongChangeLocked(track library.Track) {
	if len(c.cbOnSongChange) == 0 {
		return
	}
	snapshot := make([]func(library.Track), len(c.cbOnSongChange))
	copy(snapshot, c.cbOnSongChange)
	c.enqueueNotify(func() {
		for _, cb := range snapshot {
			cb(track)
		}
	})
}

// enqueueNotify never blocks. A remote that stalls long enough to fill the
// queue loses updates; the controller keeps running.
func (c *Controller) enqueueNotify(fn func()) {
	select {
	case c.notify <- fn:
	default:
		c.logger.Print("remote callback queue full, dropping update")
	}
}
