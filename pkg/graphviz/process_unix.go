//go:build !windows

package graphviz

import (
	"os"
	"os/exec"
	"syscall"
	"time"
)

// isolate puts the renderer in its own process group so that helpers it
// forks are stopped together with it.
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate sends SIGTERM to the renderer's process group and SIGKILL to the
// group if anything is still running after grace. A group that is already gone
// is left alone.
func terminate(proc *os.Process, grace time.Duration) {
	pgid := proc.Pid
	if err := syscall.Kill(-pgid, syscall.SIGTERM); err != nil {
		return
	}
	time.AfterFunc(grace, func() {
		_ = syscall.Kill(-pgid, syscall.SIGKILL)
	})
}
