// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

package playback

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTickInterval is the position monitor's polling period.
	DefaultTickInterval = 100 * time.Millisecond

	teardownTimeout = 2 * time.Second
)

// monitor runs the controller's tick on a fixed schedule. It is the only
// consumer of engine notifications.
type monitor struct {
	ctrl     *Controller
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newMonitor(c *Controller, interval time.Duration) *monitor {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &monitor{
		ctrl:     c,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (m *monitor) start() {
	go m.run()
}

// run polls on a time.Ticker. The ticker keeps the schedule aligned even
// when a tick runs long, so slow engine calls do not accumulate drift.
func (m *monitor) run() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.ctrl.tick()
		}
	}
}

// stopAndWait signals the goroutine and waits for it to exit, bounded by
// timeout. Safe to call more than once.
func (m *monitor) stopAndWait(timeout time.Duration) error {
	m.stopOnce.Do(func() { close(m.stop) })
	select {
	case <-m.done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("position monitor still running after %v", timeout)
	}
}
