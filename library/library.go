// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package library discovers the audio files of a folder and probes their
// durations. The resulting playlist is fixed for the session.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dirplay/logger"
)

// Track is one playable audio file. Immutable once discovered.
type Track struct {
	Path     string
	Name     string
	Duration time.Duration // 0 when the probe could not determine it
}

// Playlist is the ordered set of tracks for a session, sorted by path.
type Playlist []Track

// audioExtensions lists the file types discovery picks up. Everything else
// in the folder is ignored.
var audioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
	".ogg":  true,
}

// Load discovers the audio files directly inside dir and probes their
// durations. An unreadable folder returns an empty playlist and an error;
// per-file probe failures are logged and leave that track's duration at 0.
func Load(dir string, log logger.LoggerInterface) (Playlist, error) {
	playlist, err := Scan(dir)
	if err != nil {
		return nil, err
	}
	ProbeDurations(playlist, log)
	return playlist, nil
}

// Scan enumerates the audio files directly inside dir. os.ReadDir returns
// entries sorted by name, which fixes the playlist order.
func Scan(dir string) (Playlist, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", dir, err)
	}

	var playlist Playlist
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !audioExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		playlist = append(playlist, Track{
			Path: filepath.Join(dir, entry.Name()),
			Name: entry.Name(),
		})
	}
	return playlist, nil
}
