//go:build windows

package graphviz

import (
	"os"
	"os/exec"
	"time"
)

func isolate(*exec.Cmd) {}

// terminate kills the renderer immediately; grace is unused on Windows.
func terminate(proc *os.Process, _ time.Duration) {
	_ = proc.Kill()
}
