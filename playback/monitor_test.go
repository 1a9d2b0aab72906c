package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirplay/logger"
)

func TestMonitorPushesStatusRefreshes(t *testing.T) {
	eng := newFakeEngine()
	c := New(testPlaylist(), eng, logger.Init())
	consumer := &collectingConsumer{}
	c.RegisterEventConsumer(consumer)

	require.NoError(t, c.Play())
	c.StartMonitor(5 * time.Millisecond)

	// refreshes arrive without any further commands
	require.Eventually(t, func() bool {
		return consumer.countType(EventStatus) >= 3
	}, 2*time.Second, 5*time.Millisecond)

	assert.NoError(t, c.Close())
}

func TestMonitorDeliversEndNotification(t *testing.T) {
	eng := newFakeEngine()
	c := New(testPlaylist(), eng, logger.Init())

	require.NoError(t, c.Play())
	c.StartMonitor(5 * time.Millisecond)

	eng.endCurrentTrack()

	// the advance lands within a tick or two, not on some distant poll
	require.Eventually(t, func() bool {
		return c.CurrentIndex() == 1 && c.IsPlaying()
	}, time.Second, time.Millisecond)

	assert.NoError(t, c.Close())
}

func TestMonitorCloseIsBounded(t *testing.T) {
	eng := newFakeEngine()
	c := New(testPlaylist(), eng, logger.Init())
	c.StartMonitor(5 * time.Millisecond)

	start := time.Now()
	require.NoError(t, c.Close())
	assert.Less(t, time.Since(start), teardownTimeout)

	// commands are refused once teardown ran
	assert.ErrorIs(t, c.Play(), ErrControllerClosed)
}

func TestStartMonitorIsOneShot(t *testing.T) {
	eng := newFakeEngine()
	c := New(testPlaylist(), eng, logger.Init())

	c.StartMonitor(5 * time.Millisecond)
	c.StartMonitor(5 * time.Millisecond) // ignored

	require.NoError(t, c.Close())

	// starting after Close is also ignored
	c.StartMonitor(5 * time.Millisecond)
}
