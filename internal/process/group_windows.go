//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// SetGroup is a no-op on Windows; tree termination is handled by
// taskkill in KillProcessGroup.
func SetGroup(cmd *exec.Cmd) {}

// KillProcessGroup kills a process and all its children using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; cmd.Process.Kill provides the fallback
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
