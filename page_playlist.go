// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"dirplay/library"
	"dirplay/logger"
	"dirplay/playback"
)

// columns: marker, name, duration
const playlistDataColumns = 3

const (
	playingMarker = "▶"
	pausedMarker  = "‖"
	stoppedMarker = "·"
)

// data for rendering the playlist table
type playlistData struct {
	tview.TableContentReadOnly

	playlist library.Playlist

	// row carrying the marker and the state deciding its glyph
	currentIndex int
	state        playback.State
}

var _ tview.TableContent = (*playlistData)(nil)

type PlaylistPage struct {
	Root *tview.Flex

	trackList    *tview.Table
	playlistData playlistData

	// external refs
	ui     *Ui
	logger logger.LoggerInterface
}

func (ui *Ui) createPlaylistPage() *PlaylistPage {
	playlistPage := PlaylistPage{
		ui:     ui,
		logger: ui.logger,
	}

	// main table
	playlistPage.trackList = tview.NewTable().
		SetSelectable(true, false). // rows selectable
		SetSelectedStyle(tcell.StyleDefault.Background(tcell.ColorLightGray).Foreground(tcell.ColorBlack))
	playlistPage.trackList.Box.
		SetTitle(" playlist ").
		SetTitleAlign(tview.AlignLeft).
		SetBorder(true)

	// Enter plays the selected track
	playlistPage.trackList.SetSelectedFunc(func(row, column int) {
		if err := ui.controller.Select(row); err != nil {
			playlistPage.logger.PrintError("playlist Select", err)
		}
	})

	// flex wrapper
	playlistPage.Root = tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(playlistPage.trackList, 0, 1, true)

	// private data
	playlistPage.playlistData = playlistData{
		playlist:     ui.controller.Playlist(),
		currentIndex: ui.controller.CurrentIndex(),
		state:        ui.controller.State(),
	}
	playlistPage.trackList.SetContent(&playlistPage.playlistData)

	return &playlistPage
}

// UpdateHighlight re-reads the controller, which is the authoritative source
// for the current track and state. Runs on the draw goroutine.
func (p *PlaylistPage) UpdateHighlight() {
	p.playlistData.currentIndex = p.ui.controller.CurrentIndex()
	p.playlistData.state = p.ui.controller.State()
	p.trackList.SetContent(&p.playlistData)
}

// playlistData methods, used by tview to lazily render the table
func (p *playlistData) GetCell(row, column int) *tview.TableCell {
	if row >= len(p.playlist) || column >= playlistDataColumns || row < 0 || column < 0 {
		return nil
	}
	track := p.playlist[row]

	switch column {
	case 0: // current track marker
		text := " "
		color := tcell.ColorDefault
		if row == p.currentIndex {
			switch p.state {
			case playback.Playing:
				text, color = playingMarker, tcell.ColorGreen
			case playback.Paused:
				text, color = pausedMarker, tcell.ColorYellow
			default:
				text, color = stoppedMarker, tcell.ColorGray
			}
		}
		return &tview.TableCell{
			Text:        text,
			Color:       color,
			Expansion:   0,
			MaxWidth:    1,
			Transparent: true,
		}
	case 1: // name
		return &tview.TableCell{
			Text:        tview.Escape(track.Name),
			Expansion:   1,
			Transparent: true,
		}
	case 2: // duration
		min, sec := secondsToMinAndSec(int(track.Duration.Seconds()))
		text := fmt.Sprintf("%3d:%02d", min, sec)
		return &tview.TableCell{
			Text:        text,
			Align:       tview.AlignRight,
			Expansion:   0,
			MaxWidth:    6,
			Transparent: true,
		}
	}

	return nil
}

// Return the total number of rows in the table.
func (p *playlistData) GetRowCount() int {
	return len(p.playlist)
}

// Return the total number of columns in the table.
func (p *playlistData) GetColumnCount() int {
	return playlistDataColumns
}
