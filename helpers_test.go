package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dirplay/library"
	"dirplay/playback"
)

func TestSecondsToMinAndSec(t *testing.T) {
	min, sec := secondsToMinAndSec(0)
	assert.Equal(t, 0, min)
	assert.Equal(t, 0, sec)

	min, sec = secondsToMinAndSec(59)
	assert.Equal(t, 0, min)
	assert.Equal(t, 59, sec)

	min, sec = secondsToMinAndSec(185)
	assert.Equal(t, 3, min)
	assert.Equal(t, 5, sec)
}

func TestFormatPlayerStatus(t *testing.T) {
	status := playback.StatusData{
		Volume:   0.7,
		Progress: 50,
		TimeText: "0:05 / 0:10",
	}
	assert.Equal(t, "[70%][ 50%][::b][0:05 / 0:10]", formatPlayerStatus(status))

	idle := playback.StatusData{
		Volume:   1,
		TimeText: playback.FormatTimeSpan(0, 0),
	}
	assert.Equal(t, "[100%][  0%][::b][0:00 / 0:00]", formatPlayerStatus(idle))
}

func TestFormatTrackForStatusBar(t *testing.T) {
	text := formatTrackForStatusBar(library.Track{Name: "everglade.mp3", Duration: 185 * time.Second})
	assert.Equal(t, "[::-] [white]everglade.mp3 [gray](3:05)[white]", text)

	// tracks with a failed duration probe show no time
	text = formatTrackForStatusBar(library.Track{Name: "glitch.ogg"})
	assert.Equal(t, "[::-] [white]glitch.ogg", text)

	assert.Empty(t, formatTrackForStatusBar(library.Track{}))
}
