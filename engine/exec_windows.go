// Copyright 2026 The Dirplay Authors
// SPDX-License-Identifier: GPL-3.0-only

//go:build windows

package engine

import (
	"errors"
	"os/exec"
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// Windows has no job-control signals; Pause falls back to dropping the
// process and Resume reports the gap to the caller.
func suspendProcess(cmd *exec.Cmd) error {
	return errors.New("no process suspension on windows")
}

func resumeProcess(cmd *exec.Cmd) error {
	return errors.New("no process resumption on windows")
}
