// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"github.com/gdamore/tcell/v2"
)

func (ui *Ui) handlePageInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case '1':
		ui.ShowPage(PagePlaylist)

	case '2':
		ui.ShowPage(PageLog)

	case 'q', 'Q':
		ui.Quit()

	case ' ', 'p':
		// toggle playing/pause
		var err error
		if ui.controller.IsPlaying() {
			err = ui.controller.Pause()
		} else {
			err = ui.controller.Play()
		}
		if err != nil {
			ui.logger.PrintError("handlePageInput: PlayPause", err)
		}

	case 'P', 's':
		// stop playing, keep the current track selected
		if err := ui.controller.Stop(); err != nil {
			ui.logger.PrintError("handlePageInput: Stop", err)
		}

	case '>', 'n':
		// skip to next track
		if err := ui.controller.Next(); err != nil {
			ui.logger.PrintError("handlePageInput: Next", err)
		}
		ui.playlistPage.UpdateHighlight()

	case '<', 'N':
		// skip to previous track
		if err := ui.controller.Previous(); err != nil {
			ui.logger.PrintError("handlePageInput: Previous", err)
		}
		ui.playlistPage.UpdateHighlight()

	case '-':
		// volume-
		if err := ui.controller.AdjustVolume(-0.05); err != nil {
			ui.logger.PrintError("handlePageInput: AdjustVolume-", err)
		}

	case '+', '=':
		// volume+
		if err := ui.controller.AdjustVolume(0.05); err != nil {
			ui.logger.PrintError("handlePageInput: AdjustVolume+", err)
		}

	case 'a':
		enabled := !ui.controller.Autoplay()
		ui.controller.SetAutoplay(enabled)
		if enabled {
			ui.logger.Print("autoplay on")
		} else {
			ui.logger.Print("autoplay off")
		}

	case '?':
		if ui.helpWidget.visible {
			ui.CloseHelp()
		} else {
			ui.ShowHelp()
		}

	default:
		return event
	}

	return nil
}

func (ui *Ui) ShowPage(name string) {
	ui.pages.SwitchToPage(name)
	ui.menuWidget.SetActivePage(name)
	_, prim := ui.pages.GetFrontPage()
	ui.app.SetFocus(prim)
}

func (ui *Ui) Quit() {
	// the controller and engine are torn down by main after Run returns
	ui.app.Stop()
}
