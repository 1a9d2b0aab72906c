// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"dirplay/library"
	"dirplay/playback"
)

// handle ui updates
func (ui *Ui) guiEventLoop() {
	for {
		select {
		case msg := <-ui.logger.Prints:
			// handle log page output
			ui.logPage.Print(msg)

		case event := <-ui.playerEvents:
			switch event.Type {
			case playback.EventStatus:
				statusData, ok := event.Data.(playback.StatusData)
				if !ok {
					continue
				}
				ui.app.QueueUpdateDraw(func() {
					ui.playerStatus.SetText(formatPlayerStatus(statusData))
				})

			case playback.EventStopped:
				ui.logger.Print("event: stopped")
				stoppedStatus := formatPlayerStatus(playback.StatusData{
					Volume:   ui.controller.Volume(),
					TimeText: playback.FormatTimeSpan(0, 0),
				})
				ui.app.QueueUpdateDraw(func() {
					ui.startStopStatus.SetText("[red::b]Stopped[::-] [white]none")
					ui.playerStatus.SetText(stoppedStatus)
					ui.playlistPage.UpdateHighlight()
				})

			case playback.EventPlaying:
				ui.logger.Print("event: playing")
				statusText := "[green::b]Playing[::-]"
				if track, ok := event.Data.(library.Track); ok {
					statusText += formatTrackForStatusBar(track)
				}
				ui.app.QueueUpdateDraw(func() {
					ui.startStopStatus.SetText(statusText)
					ui.playlistPage.UpdateHighlight()
				})

			case playback.EventPaused:
				ui.logger.Print("event: paused")
				statusText := "[yellow::b]Paused[::-]"
				if track, ok := event.Data.(library.Track); ok {
					statusText += formatTrackForStatusBar(track)
				}
				ui.app.QueueUpdateDraw(func() {
					ui.startStopStatus.SetText(statusText)
					ui.playlistPage.UpdateHighlight()
				})

			case playback.EventUnpaused:
				ui.logger.Print("event: unpaused")
				statusText := "[green::b]Playing[::-]"
				if track, ok := event.Data.(library.Track); ok {
					statusText += formatTrackForStatusBar(track)
				}
				ui.app.QueueUpdateDraw(func() {
					ui.startStopStatus.SetText(statusText)
					ui.playlistPage.UpdateHighlight()
				})

			default:
				ui.logger.Printf("guiEventLoop: unhandled event %v", event.Type)
			}
		}
	}
}
