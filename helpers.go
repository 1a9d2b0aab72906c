// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"
	"math"

	"github.com/rivo/tview"

	"dirplay/library"
	"dirplay/playback"
)

func secondsToMinAndSec(seconds int) (int, int) {
	minutes := seconds / 60
	remainingSeconds := seconds % 60
	return minutes, remainingSeconds
}

// formatPlayerStatus renders the right side of the top bar:
// volume, progress and elapsed/total time.
func formatPlayerStatus(status playback.StatusData) string {
	volume := int(math.Round(status.Volume * 100))
	return fmt.Sprintf("[%d%%][%3.0f%%][::b][%s]", volume, status.Progress, status.TimeText)
}

func formatTrackForStatusBar(track library.Track) (text string) {
	if track.Name == "" {
		return
	}
	text += "[::-] [white]" + tview.Escape(track.Name)
	if track.Duration > 0 {
		min, sec := secondsToMinAndSec(int(track.Duration.Seconds()))
		text += fmt.Sprintf(" [gray](%d:%02d)[white]", min, sec)
	}
	return
}
