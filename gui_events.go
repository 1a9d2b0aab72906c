// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import "dirplay/playback"

// SendEvent hands a controller event to the gui event loop. It never blocks;
// when the loop is behind, the event is dropped and the next status refresh
// replaces it within one monitor tick.
func (ui *Ui) SendEvent(event playback.UiEvent) {
	select {
	case ui.playerEvents <- event:
	default:
	}
}
