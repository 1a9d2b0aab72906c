package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "playing", Playing.String())
	assert.Equal(t, "paused", Paused.String())
}

func TestFormatTimeSpan(t *testing.T) {
	assert.Equal(t, "0:00 / 0:00", FormatTimeSpan(0, 0))
	assert.Equal(t, "0:05 / 3:25", FormatTimeSpan(5*time.Second, 205*time.Second))
	assert.Equal(t, "1:00 / 1:00", FormatTimeSpan(60*time.Second, 60*time.Second))
	// seconds are always two digits, minutes are not padded
	assert.Equal(t, "10:03 / 62:07", FormatTimeSpan(603*time.Second, 3727*time.Second))
	// negative positions render as zero
	assert.Equal(t, "0:00 / 0:10", FormatTimeSpan(-time.Second, 10*time.Second))
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0.0, ProgressPercent(0, 0), "unknown duration is indeterminate")
	assert.Equal(t, 0.0, ProgressPercent(time.Hour, 0))
	assert.Equal(t, 50.0, ProgressPercent(5*time.Second, 10*time.Second))
	assert.Equal(t, 100.0, ProgressPercent(15*time.Second, 10*time.Second), "overshoot clamps to 100")
	assert.Equal(t, 0.0, ProgressPercent(-time.Second, 10*time.Second))
}
