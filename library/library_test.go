package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestScanFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()

	touch(t, filepath.Join(dir, "b.mp3"))
	touch(t, filepath.Join(dir, "a.wav"))
	touch(t, filepath.Join(dir, "z.flac"))
	touch(t, filepath.Join(dir, "c.ogg"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "cover.jpg"))
	touch(t, filepath.Join(dir, "D.WAV")) // extension match is case-insensitive

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	touch(t, filepath.Join(dir, "sub", "nested.mp3")) // not descended into

	playlist, err := Scan(dir)
	require.NoError(t, err)

	names := make([]string, len(playlist))
	for i, track := range playlist {
		names[i] = track.Name
	}
	assert.Equal(t, []string{"D.WAV", "a.wav", "b.mp3", "c.ogg", "z.flac"}, names)

	for _, track := range playlist {
		assert.Equal(t, filepath.Join(dir, track.Name), track.Path)
		assert.Zero(t, track.Duration, "Scan does not probe")
	}
}

func TestScanUnreadableFolder(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read folder")
}

func TestScanEmptyFolder(t *testing.T) {
	playlist, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, playlist)
}
