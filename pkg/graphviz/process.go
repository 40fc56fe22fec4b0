package graphviz

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// defaultTerminationGrace is the delay between the polite stop signal and a
// hard kill when a render is canceled or times out.
const defaultTerminationGrace = 5 * time.Second

// process is a spawned renderer with stderr merged into stdout.
// The parent owns the write end of stdin and the read end of stdout.
type process struct {
	cmd    *exec.Cmd
	stdin  *os.File
	stdout *os.File
}

// spawn starts loc.Executable with args. Both streams are plain OS pipes, so
// exec starts no copying goroutines and the caller fully controls when each
// end is closed.
func spawn(loc Location, args ...string) (*process, error) {
	cmd := exec.Command(loc.Executable, args...)
	cmd.Dir = loc.Dir
	isolate(cmd)

	inR, inW, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	outR, outW, err := os.Pipe()
	if err != nil {
		inR.Close()
		inW.Close()
		return nil, err
	}

	cmd.Stdin = inR
	cmd.Stdout = outW
	cmd.Stderr = outW

	err = cmd.Start()

	// The child holds its own copies now. Dropping ours lets stdout reach EOF
	// once the renderer exits.
	inR.Close()
	outW.Close()

	if err != nil {
		inW.Close()
		outR.Close()
		return nil, err
	}
	return &process{cmd: cmd, stdin: inW, stdout: outR}, nil
}

// closePipes releases the parent's pipe ends. It is safe to call repeatedly.
func (p *process) closePipes() {
	_ = p.stdin.Close()
	_ = p.stdout.Close()
}

// wait reaps the renderer. A wait interrupted by a signal is retried until the
// process state is known; interruption alone never fails a render.
func (p *process) wait() (*os.ProcessState, error) {
	for {
		state, err := p.cmd.Process.Wait()
		if errors.Is(err, syscall.EINTR) {
			continue
		}
		return state, err
	}
}

// terminateOn arranges for the renderer to be stopped when ctx is done.
// The returned stop func reports false if termination was already triggered.
func (p *process) terminateOn(ctx context.Context, grace time.Duration) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		terminate(p.cmd.Process, grace)
	})
}

// drainLines reads r to EOF and hands each line, without its terminator, to fn.
// Lines of any length are accepted.
func drainLines(r io.Reader, fn func(line string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			fn(strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
