// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"time"

	tviewcommand "github.com/spezifisch/tview-command"
	"github.com/spf13/viper"

	"dirplay/engine"
	"dirplay/library"
	"dirplay/logger"
	"dirplay/playback"
	"dirplay/remote"
)

var osExit = os.Exit  // A variable to allow mocking os.Exit in tests
var headlessMode bool // This can be set to true during tests
var testMode bool     // This can be set to true during tests, too

const DEVELOPMENT = "development"

// Name is the program name, shown in the status bar and to D-Bus peers
var Name string = "dirplay"

// Version is the program version; usually set from BuildInfo
var Version string = DEVELOPMENT

func readConfig(configFile *string) error {
	viper.SetDefault("playback.folder", ".")
	viper.SetDefault("playback.volume", 0.7)
	viper.SetDefault("playback.autoplay", true)
	viper.SetDefault("engine.backend", "beep")
	viper.SetDefault("engine.command", "")
	viper.SetDefault("monitor.interval", "100ms")
	viper.SetDefault("ui.mpris", false)

	if configFile != nil && *configFile != "" {
		// use custom config file
		viper.SetConfigFile(*configFile)
	} else {
		// lookup default dirs
		viper.SetConfigName("dirplay")
		viper.SetConfigType("toml")
		viper.AddConfigPath("$HOME/.config/dirplay")
		viper.AddConfigPath(".")
	}

	// read it
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// no config anywhere in the search path, the defaults cover everything
			return nil
		}
		return fmt.Errorf("config file error: %s", err)
	}

	return nil
}

// parseFolder takes the first non-flag argument from flags and stores it in
// the viper config, overriding the configured playback folder.
func parseFolder() {
	if flag.Arg(0) != "" {
		viper.Set("playback.folder", flag.Arg(0))
	}
}

// initCommandHandler sets up tview-command as main input handler
func initCommandHandler(logger *logger.Logger) {
	tviewcommand.SetLogHandler(func(msg string) {
		logger.Print(msg)
	})

	configPath := "dirplay.commands.toml"

	// Load the configuration file
	config, err := tviewcommand.LoadConfig(configPath)
	if err != nil || config == nil {
		logger.PrintError("Failed to load command-shortcut config", err)
	}
}

func printPlaylist(playlist library.Playlist) {
	var total time.Duration
	for i, track := range playlist {
		min, sec := secondsToMinAndSec(int(track.Duration.Seconds()))
		fmt.Printf("%3d  %-50s %3d:%02d\n", i+1, track.Name, min, sec)
		total += track.Duration
	}
	min, sec := secondsToMinAndSec(int(total.Seconds()))
	fmt.Printf("%d tracks, %d:%02d total\n", len(playlist), min, sec)
}

// return codes:
// 0 - OK
// 1 - generic errors
// 2 - config errors
func main() {
	help := flag.Bool("help", false, "Print usage")
	enableMpris := flag.Bool("mpris", false, "Enable MPRIS2")
	list := flag.Bool("list", false, "print the playlist with probed durations and exit")
	backend := flag.String("backend", "", "playback engine: beep, mpv or exec (overrides config)")
	volume := flag.Float64("volume", -1, "initial volume between 0 and 1 (overrides config)")
	noAutoplay := flag.Bool("no-autoplay", false, "do not advance to the next track when one ends")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")
	configFile := flag.String("config", "", "use config `file`")
	version := flag.Bool("version", false, "print the dirplay version and exit")

	flag.Parse()
	if *help {
		fmt.Printf("USAGE: %s <args> [folder]\n", os.Args[0])
		flag.Usage()
		osExit(0)
	}
	if Version == DEVELOPMENT {
		if bi, ok := debug.ReadBuildInfo(); ok {
			Version = bi.Main.Version
		}
	}
	if *version {
		fmt.Printf("dirplay %s\n", Version)
		osExit(0)
	}

	// cpu/memprofile code straight from https://pkg.go.dev/runtime/pprof
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close() // error handling omitted for example
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	// config gathering
	if err := readConfig(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read configuration: %v\n", err)
		osExit(2)
	}
	if len(flag.Args()) > 0 {
		parseFolder()
	}

	logger := logger.Init()
	initCommandHandler(logger)

	if testMode {
		fmt.Println("Running in test mode for testing.")
		osExit(0x23420001)
		return
	}

	folder := viper.GetString("playback.folder")
	playlist, err := library.Load(folder, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading folder %s: %v\n", folder, err)
		osExit(1)
	}

	if *list {
		printPlaylist(playlist)
		osExit(0)
		return
	}

	// init playback engine
	backendName := viper.GetString("engine.backend")
	if *backend != "" {
		backendName = *backend
	}
	eng, err := engine.New(backendName, viper.GetString("engine.command"), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to initialize the %s engine: %v\n", backendName, err)
		osExit(1)
	}

	controller := playback.New(playlist, eng, logger)

	if *volume >= 0 {
		viper.Set("playback.volume", *volume)
	}
	if err := controller.SetVolume(viper.GetFloat64("playback.volume")); err != nil {
		logger.PrintError("set initial volume", err)
	}
	if *noAutoplay {
		viper.Set("playback.autoplay", false)
	}
	controller.SetAutoplay(viper.GetBool("playback.autoplay"))

	// init mpris2 player control (linux only but fails gracefully on other systems)
	if *enableMpris || viper.GetBool("ui.mpris") {
		mprisPlayer, err := remote.RegisterMprisPlayer(controller, logger)
		if err != nil {
			fmt.Printf("Unable to register MPRIS with DBUS: %s\n", err)
			fmt.Println("Try running without MPRIS")
			osExit(1)
		}
		defer mprisPlayer.Close()
	}

	interval := viper.GetDuration("monitor.interval")
	if interval <= 0 {
		logger.Printf("config: invalid monitor.interval %q, using %v",
			viper.GetString("monitor.interval"), playback.DefaultTickInterval)
		interval = playback.DefaultTickInterval
	}
	controller.StartMonitor(interval)

	if headlessMode {
		fmt.Println("Running in headless mode for testing.")
		osExit(0)
		return
	}

	ui := InitGui(controller, logger)

	// run main loop
	if err := ui.Run(); err != nil {
		panic(err)
	}

	if err := controller.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal("could not create memory profile: ", err)
		}
		defer f.Close() // error handling omitted for example
		runtime.GC()    // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
