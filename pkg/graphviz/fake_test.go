package graphviz

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/apiviz/pkg/observability"
)

// Fake renderers. Each parses the "-o" arguments the way dot is invoked:
// the first names the image map, the second the PNG.
const (
	scriptVersion = `echo "dot - graphviz version 9.0.0 (0)" >&2
`

	scriptParseOutputs = `map=""; png=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) shift; if [ -z "$map" ]; then map="$1"; else png="$1"; fi ;;
  esac
  shift
done
`

	// scriptRender records its argv, copies stdin into the PNG and writes a
	// minimal map.
	scriptRender = `if [ -n "$FAKE_DOT_ARGS" ]; then printf '%s\n' "$@" > "$FAKE_DOT_ARGS"; fi
` + scriptParseOutputs + `cat > "$png"
printf '<map id="G" name="G">\n</map>\n' > "$map"
echo "Warning: rendered by fake dot" >&2
`

	scriptRejects = `cat > /dev/null
echo "Error: <stdin>: syntax error in line 1 near '{'" >&2
exit 3
`

	scriptRejectsUnread = `echo "Error: giving up before reading input" >&2
exit 2
`

	// scriptChatty prints far more than a pipe buffer before touching stdin.
	scriptChatty = scriptParseOutputs + `yes "Warning: node overlaps cluster" | head -n 50000 >&2
cat > "$png"
: > "$map"
`

	scriptSleeps = `exec sleep 30
`

	// scriptForks leaves a helper behind that reports itself after a second.
	scriptForks = `( sleep 1; echo alive > "$FAKE_DOT_HELPER" ) &
exec sleep 30
`

	// scriptFinishesOnTerm writes both artifacts and exits cleanly when asked
	// to stop.
	scriptFinishesOnTerm = scriptParseOutputs + `trap 'printf finished > "$png"; : > "$map"; exit 0' TERM
sleep 30 &
wait
`
)

// fakeDot writes an executable shell script standing in for dot.
func fakeDot(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake renderer needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "dot")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// within fails the test if fn does not return before d.
func within(t *testing.T, d time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("did not finish within %v", d)
	}
}

type probeEvent struct {
	executable string
	available  bool
}

type renderEvent struct {
	id         string
	executable string
	err        error
}

type recordingHooks struct {
	mu       sync.Mutex
	probes   []probeEvent
	started  []renderEvent
	finished []renderEvent
}

func (h *recordingHooks) OnProbe(_ context.Context, executable string, available bool, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes = append(h.probes, probeEvent{executable: executable, available: available})
}

func (h *recordingHooks) OnRenderStart(_ context.Context, id, executable string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, renderEvent{id: id, executable: executable})
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, id string, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished = append(h.finished, renderEvent{id: id, err: err})
}

func recordHooks(t *testing.T) *recordingHooks {
	t.Helper()
	h := &recordingHooks{}
	observability.SetRenderHooks(h)
	t.Cleanup(observability.Reset)
	return h
}
