// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	gomp3 "github.com/hajimehoshi/go-mp3"

	"dirplay/logger"
)

// ProbeDurations fills in the total playable duration of every track by
// reading container metadata. A track that cannot be probed keeps duration 0
// and probing continues with the remaining files.
func ProbeDurations(playlist Playlist, log logger.LoggerInterface) {
	for i := range playlist {
		d, err := probeFile(playlist[i].Path)
		if err != nil {
			log.PrintError("probe "+playlist[i].Name, err)
			continue
		}
		playlist[i].Duration = d
	}
}

func probeFile(path string) (time.Duration, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wavDuration(file)
	case ".mp3":
		return mp3Duration(file)
	case ".flac":
		return flacDuration(file)
	case ".ogg":
		return vorbisDuration(file)
	default:
		return 0, fmt.Errorf("no duration probe for %s", filepath.Ext(path))
	}
}

func wavDuration(file *os.File) (time.Duration, error) {
	return wav.NewDecoder(file).Duration()
}

func mp3Duration(file *os.File) (time.Duration, error) {
	dec, err := gomp3.NewDecoder(file)
	if err != nil {
		return 0, err
	}
	if dec.SampleRate() <= 0 {
		return 0, fmt.Errorf("mp3 sample rate %d", dec.SampleRate())
	}
	// Length is the decoded stream size in bytes, 4 bytes per sample frame.
	frames := dec.Length() / 4
	return time.Duration(frames) * time.Second / time.Duration(dec.SampleRate()), nil
}

func flacDuration(file *os.File) (time.Duration, error) {
	streamer, format, err := flac.Decode(file)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}

func vorbisDuration(file *os.File) (time.Duration, error) {
	streamer, format, err := vorbis.Decode(file)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}
