//go:build !windows

// Package process provides subprocess group control for backend
// invocations: a child runs in its own process group so timeouts and
// cancellation can terminate the whole tree.
package process

import (
	"os/exec"
	"syscall"
)

// SetGroup configures cmd to start in its own process group, so a later
// KillProcessGroup reaches the child and all its descendants.
func SetGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending
// SIGKILL to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; cmd.Process.Kill provides the fallback
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
