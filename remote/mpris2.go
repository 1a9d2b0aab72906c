// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"errors"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"dirplay/library"
	"dirplay/logger"
)

const (
	mprisPath = "/org/mpris/MediaPlayer2"
	mprisName = "org.mpris.MediaPlayer2.dirplay"
)

// MprisPlayer exposes the player on the session bus so desktop media keys
// and applets can drive it.
type MprisPlayer struct {
	dbus   *dbus.Conn
	props  *prop.Properties
	player ControlledPlayer
	logger logger.LoggerInterface
}

func RegisterMprisPlayer(player ControlledPlayer, logger_ logger.LoggerInterface) (*MprisPlayer, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}

	mpp := &MprisPlayer{
		dbus:   conn,
		player: player,
		logger: logger_,
	}

	if err = conn.ExportAll(mpp, mprisPath, "org.mpris.MediaPlayer2.Player"); err != nil {
		return nil, err
	}

	mprisPlayer := map[string]*prop.Prop{
		"CanControl":     {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanGoNext":      {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanGoPrevious":  {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanPause":       {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanPlay":        {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanSeek":        {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Metadata":       {Value: trackMetadata(library.Track{}), Writable: false, Emit: prop.EmitTrue, Callback: nil},
		"Volume":         {Value: player.Volume(), Writable: true, Emit: prop.EmitTrue, Callback: mpp.volumeChange},
		"PlaybackStatus": {Value: "Stopped", Writable: false, Emit: prop.EmitTrue, Callback: nil},
	}

	mediaPlayer := map[string]*prop.Prop{
		"CanQuit":             {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanRaise":            {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"HasTrackList":        {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Identity":            {Value: "dirplay", Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"SupportedUriSchemes": {Value: "", Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"SupportedMimeTypes":  {Value: "", Writable: false, Emit: prop.EmitFalse, Callback: nil},
	}

	mpp.props, err = prop.Export(
		conn,
		mprisPath,
		map[string]map[string]*prop.Prop{
			"org.mpris.MediaPlayer2":        mediaPlayer,
			"org.mpris.MediaPlayer2.Player": mprisPlayer,
		},
	)
	if err != nil {
		return nil, err
	}

	node := &introspect.Node{
		Name: mprisPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       "org.mpris.MediaPlayer2.Player",
				Methods:    introspect.Methods(mpp),
				Properties: mpp.props.Introspection("org.mpris.MediaPlayer2.Player"),
			},
		},
	}
	if err = conn.Export(introspect.NewIntrospectable(node), mprisPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return nil, err
	}

	reply, err := conn.RequestName(mprisName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, errors.New("name already owned")
	}

	player.OnPlaying(func() { mpp.setPlaybackStatus("Playing") })
	player.OnPaused(func() { mpp.setPlaybackStatus("Paused") })
	player.OnStopped(func() { mpp.setPlaybackStatus("Stopped") })
	player.OnSongChange(mpp.onSongChange)

	return mpp, nil
}

func (m *MprisPlayer) Close() {
	if err := m.dbus.Close(); err != nil {
		m.logger.PrintError("mpris close", err)
	}
}

// Mandatory org.mpris.MediaPlayer2.Player methods, called over the bus.

func (m *MprisPlayer) Play() {
	if err := m.player.Play(); err != nil {
		m.logger.PrintError("mpris Play", err)
	}
}

func (m *MprisPlayer) Pause() {
	if err := m.player.Pause(); err != nil {
		m.logger.PrintError("mpris Pause", err)
	}
}

func (m *MprisPlayer) PlayPause() {
	var err error
	if m.player.IsPlaying() {
		err = m.player.Pause()
	} else {
		err = m.player.Play()
	}
	if err != nil {
		m.logger.PrintError("mpris PlayPause", err)
	}
}

func (m *MprisPlayer) Stop() {
	if err := m.player.Stop(); err != nil {
		m.logger.PrintError("mpris Stop", err)
	}
}

func (m *MprisPlayer) Next() {
	if err := m.player.Next(); err != nil {
		m.logger.PrintError("mpris Next", err)
	}
}

func (m *MprisPlayer) Previous() {
	if err := m.player.Previous(); err != nil {
		m.logger.PrintError("mpris Previous", err)
	}
}

func (m *MprisPlayer) OpenUri(string) {
	// playlist is fixed for the session
}

func (m *MprisPlayer) Seek(int) {
	// CanSeek is false
}

func (m *MprisPlayer) SetPosition(string, int) {
	// CanSeek is false
}

// volumeChange handles writes to the Volume property. MPRIS volume is
// already normalized 0..1, same as the player's.
func (m *MprisPlayer) volumeChange(c *prop.Change) *dbus.Error {
	v, ok := c.Value.(float64)
	if !ok {
		return prop.ErrInvalidArg
	}
	if err := m.player.SetVolume(v); err != nil {
		m.logger.PrintError("mpris volume", err)
	}
	return nil
}

func (m *MprisPlayer) setPlaybackStatus(status string) {
	m.props.SetMust("org.mpris.MediaPlayer2.Player", "PlaybackStatus", status)
}

func (m *MprisPlayer) onSongChange(track library.Track) {
	err := m.dbus.Emit(mprisPath, "org.freedesktop.DBus.Properties.PropertiesChanged",
		"org.mpris.MediaPlayer2.Player", map[string]map[string]interface{}{
			"Metadata": trackMetadata(track),
		}, []string{})
	if err != nil {
		m.logger.PrintError("mpris PropertiesChanged", err)
	}
}

func trackMetadata(track library.Track) map[string]interface{} {
	return map[string]interface{}{
		"mpris:trackid": "",
		"mpris:length":  track.Duration.Microseconds(),
		"xesam:title":   track.Name,
		"xesam:artist":  []string{},
		"xesam:album":   "",
	}
}
