package main

const helpPlayback = `
space/p  play/pause
P/s      stop
>/n      next track
</N      previous track
-/+      volume down/volume up
a        toggle autoplay
`

const helpGeneral = `
1        playlist page
2        log page
?        this help
q        quit
`

const helpPagePlaylist = `
ENTER    play the selected track
`
