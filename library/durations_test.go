package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirplay/logger"
)

// writeWav writes a mono 16-bit PCM file holding exactly seconds of silence.
func writeWav(t *testing.T, path string, seconds int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	const sampleRate = 8000
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, sampleRate*seconds),
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

func TestProbeWavDuration(t *testing.T) {
	dir := t.TempDir()
	writeWav(t, filepath.Join(dir, "two.wav"), 2)

	playlist, err := Load(dir, logger.Init())
	require.NoError(t, err)
	require.Len(t, playlist, 1)

	assert.InDelta(t, 2.0, playlist[0].Duration.Seconds(), 0.01)
}

func TestProbeFailureLeavesZeroAndContinues(t *testing.T) {
	dir := t.TempDir()

	// sorts before good.wav, so probing must survive it to reach the rest
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corrupt.mp3"), []byte("this is not audio"), 0o644))
	writeWav(t, filepath.Join(dir, "good.wav"), 1)

	playlist, err := Load(dir, logger.Init())
	require.NoError(t, err)
	require.Len(t, playlist, 2)

	assert.Equal(t, "corrupt.mp3", playlist[0].Name)
	assert.Zero(t, playlist[0].Duration)

	assert.Equal(t, "good.wav", playlist[1].Name)
	assert.InDelta(t, 1.0, playlist[1].Duration.Seconds(), 0.01)
}

func TestProbeTruncatedWav(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stub.wav"), []byte("RIFF"), 0o644))

	playlist, err := Load(dir, logger.Init())
	require.NoError(t, err)
	require.Len(t, playlist, 1)
	assert.Zero(t, playlist[0].Duration)
}
