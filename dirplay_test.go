package main

import (
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestReadConfigDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg := "dirplay-example.toml"
	err := readConfig(&cfg)
	assert.NoError(t, err, "example config should parse")

	assert.Equal(t, "beep", viper.GetString("engine.backend"))
	assert.Equal(t, 0.7, viper.GetFloat64("playback.volume"))
	assert.True(t, viper.GetBool("playback.autoplay"))
	assert.False(t, viper.GetBool("ui.mpris"))
	assert.Equal(t, 100*time.Millisecond, viper.GetDuration("monitor.interval"))
}

func TestReadConfigMissingExplicitFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg := "does-not-exist.toml"
	err := readConfig(&cfg)
	assert.Error(t, err, "an explicitly named config file must exist")
}

func TestMainWithoutTUI(t *testing.T) {
	// Mock osExit to prevent actual exit during test
	exitCalled := false
	osExit = func(code int) {
		exitCalled = true

		// 0x23420001 marks the test mode checkpoint; main reaches it after
		// flag parsing, config reading and logger setup succeeded
		if code != 0 && code != 0x23420001 {
			// Capture and print the stack trace
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := string(stackBuf[:stackSize])

			t.Fatalf("Unexpected exit with code: %d\nStack trace:\n%s\n", code, stackTrace)
		}
		// Since we don't abort execution here, we will run main() until the end or a panic.
	}
	headlessMode = true
	testMode = true

	// Restore patches after the test
	defer func() {
		osExit = os.Exit
		headlessMode = false
		testMode = false
	}()

	viper.Reset()
	defer viper.Reset()

	os.Args = []string{"cmd", "--config=dirplay-example.toml"}

	main()

	if !exitCalled {
		t.Fatalf("osExit was not called")
	}
}
