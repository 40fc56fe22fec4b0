package graphviz

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	apierrors "github.com/matzehuels/apiviz/pkg/errors"
)

const testDiagram = "digraph G {\n  a -> b;\n}\n"

func TestInvokerRender(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(t.TempDir(), "args")
	t.Setenv("FAKE_DOT_ARGS", argsFile)

	var logs bytes.Buffer
	inv := Invoker{
		Locator: Locator{Executable: fakeDot(t, scriptRender)},
		Logger:  log.New(&logs),
	}

	out, err := inv.Render(context.Background(), Request{Diagram: testDiagram, OutputDir: dir, BaseName: "overview"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	wantImage := filepath.Join(dir, "overview.png")
	wantMap := filepath.Join(dir, "overview.map")
	if out.ImagePath != wantImage || out.MapPath != wantMap {
		t.Errorf("Render() = %+v, want %s and %s", out, wantImage, wantMap)
	}

	image, err := os.ReadFile(wantImage)
	if err != nil {
		t.Fatal(err)
	}
	if string(image) != testDiagram {
		t.Errorf("renderer received %q, want %q", image, testDiagram)
	}
	if m, _ := os.ReadFile(wantMap); !strings.Contains(string(m), "<map") {
		t.Errorf("map = %q", m)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	wantArgs := strings.Join([]string{"-Tcmapx", "-o", wantMap, "-Tpng", "-o", wantImage}, "\n") + "\n"
	if string(args) != wantArgs {
		t.Errorf("renderer args = %q, want %q", args, wantArgs)
	}

	if !strings.Contains(logs.String(), "rendered by fake dot") {
		t.Errorf("renderer output not logged: %q", logs.String())
	}
}

func TestInvokerRenderRelativeOutputDir(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "out"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(root)

	inv := Invoker{Locator: Locator{Home: t.TempDir(), Executable: fakeDot(t, scriptRender)}}
	out, err := inv.Render(context.Background(), Request{Diagram: testDiagram, OutputDir: "out", BaseName: "g"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !filepath.IsAbs(out.ImagePath) {
		t.Errorf("ImagePath = %q, want absolute", out.ImagePath)
	}
	if _, err := os.Stat(filepath.Join(root, "out", "g.png")); err != nil {
		t.Errorf("image not written to output dir: %v", err)
	}
}

func TestInvokerRenderInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	inv := Invoker{Locator: Locator{Executable: fakeDot(t, scriptRender)}}

	_, err := inv.Render(context.Background(), Request{Diagram: "digraph { \"caf\xe9\" }", OutputDir: dir, BaseName: "g"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	got, _ := os.ReadFile(filepath.Join(dir, "g.png"))
	if want := "digraph { \"caf�\" }"; string(got) != want {
		t.Errorf("renderer received %q, want %q", got, want)
	}
}

func TestInvokerRenderFailures(t *testing.T) {
	tests := []struct {
		name       string
		script     string
		diagram    string
		wantCode   apierrors.Code
		wantStatus int
	}{
		{
			name:       "renderer rejects diagram",
			script:     scriptRejects,
			diagram:    "digraph {",
			wantCode:   apierrors.ErrCodeRendererExit,
			wantStatus: 3,
		},
		{
			name:       "renderer exits before reading input",
			script:     scriptRejectsUnread,
			diagram:    strings.Repeat("a -> b;\n", 200_000),
			wantCode:   apierrors.ErrCodeRendererExit,
			wantStatus: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			inv := Invoker{Locator: Locator{Executable: fakeDot(t, tt.script)}}

			_, err := inv.Render(context.Background(), Request{Diagram: tt.diagram, OutputDir: dir, BaseName: "g"})
			if !apierrors.Is(err, tt.wantCode) {
				t.Fatalf("Render() error = %v, want code %s", err, tt.wantCode)
			}
			status, ok := apierrors.ExitStatus(err)
			if !ok || status != tt.wantStatus {
				t.Errorf("ExitStatus() = %d, %v, want %d", status, ok, tt.wantStatus)
			}
			if !strings.Contains(err.Error(), "exited with a non-zero return value") {
				t.Errorf("error %q does not report the exit status", err)
			}
		})
	}
}

func TestInvokerRenderMissingExecutable(t *testing.T) {
	inv := Invoker{Locator: Locator{Executable: filepath.Join(t.TempDir(), "no-such-dot")}}
	_, err := inv.Render(context.Background(), Request{Diagram: testDiagram, OutputDir: t.TempDir(), BaseName: "g"})
	if !apierrors.Is(err, apierrors.ErrCodeRendererIO) {
		t.Errorf("Render() error = %v, want %s", err, apierrors.ErrCodeRendererIO)
	}
}

func TestInvokerRenderInvalidRequest(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		req  Request
	}{
		{"empty base name", Request{OutputDir: dir}},
		{"base name with separator", Request{OutputDir: dir, BaseName: "../escape"}},
		{"dot dot", Request{OutputDir: dir, BaseName: ".."}},
		{"empty dir", Request{BaseName: "g"}},
		{"missing dir", Request{OutputDir: filepath.Join(dir, "missing"), BaseName: "g"}},
		{"dir is a file", Request{OutputDir: file, BaseName: "g"}},
	}

	// The renderer must never run for a rejected request.
	inv := Invoker{Locator: Locator{Executable: filepath.Join(dir, "never-run")}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Diagram = testDiagram
			_, err := inv.Render(context.Background(), tt.req)
			if !apierrors.Is(err, apierrors.ErrCodeInvalidPath) {
				t.Errorf("Render() error = %v, want %s", err, apierrors.ErrCodeInvalidPath)
			}
		})
	}
}

func TestInvokerRenderStaleFiles(t *testing.T) {
	tests := []struct {
		name      string
		script    string
		wantErr   bool
		wantImage string
	}{
		{name: "replaced on success", script: scriptRender, wantImage: testDiagram},
		{name: "removed on failure", script: scriptRejects, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			image := filepath.Join(dir, "g.png")
			imageMap := filepath.Join(dir, "g.map")
			for _, p := range []string{image, imageMap} {
				if err := os.WriteFile(p, []byte("stale"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			inv := Invoker{Locator: Locator{Executable: fakeDot(t, tt.script)}}
			_, err := inv.Render(context.Background(), Request{Diagram: testDiagram, OutputDir: dir, BaseName: "g"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Render() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				for _, p := range []string{image, imageMap} {
					if _, err := os.Stat(p); !os.IsNotExist(err) {
						t.Errorf("%s survived a failed render", filepath.Base(p))
					}
				}
				return
			}
			got, _ := os.ReadFile(image)
			if string(got) != tt.wantImage {
				t.Errorf("image = %q, want %q", got, tt.wantImage)
			}
		})
	}
}

// A renderer that fills its output pipe before reading stdin must not
// deadlock against a large diagram.
func TestInvokerRenderLargeOutputAndInput(t *testing.T) {
	dir := t.TempDir()
	diagram := "digraph G {\n" + strings.Repeat("  node_with_a_long_name -> other_node_with_a_long_name;\n", 40_000) + "}\n"
	inv := Invoker{Locator: Locator{Executable: fakeDot(t, scriptChatty)}}

	within(t, 30*time.Second, func() {
		if _, err := inv.Render(context.Background(), Request{Diagram: diagram, OutputDir: dir, BaseName: "big"}); err != nil {
			t.Errorf("Render() error: %v", err)
		}
	})

	info, err := os.Stat(filepath.Join(dir, "big.png"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != int64(len(diagram)) {
		t.Errorf("renderer received %d bytes, want %d", info.Size(), len(diagram))
	}
}

func TestInvokerRenderLongLine(t *testing.T) {
	script := scriptParseOutputs + `head -c 200000 /dev/zero | tr '\0' x >&2
cat > "$png"
: > "$map"
`
	var logs bytes.Buffer
	inv := Invoker{
		Locator: Locator{Executable: fakeDot(t, script)},
		Logger:  log.New(&logs),
	}
	if _, err := inv.Render(context.Background(), Request{Diagram: testDiagram, OutputDir: t.TempDir(), BaseName: "g"}); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(logs.String(), strings.Repeat("x", 200000)) {
		t.Error("long renderer line was split or dropped")
	}
}

func TestInvokerRenderTimeout(t *testing.T) {
	inv := Invoker{
		Locator:          Locator{Executable: fakeDot(t, scriptSleeps)},
		Timeout:          100 * time.Millisecond,
		TerminationGrace: 100 * time.Millisecond,
	}

	within(t, 10*time.Second, func() {
		_, err := inv.Render(context.Background(), Request{Diagram: testDiagram, OutputDir: t.TempDir(), BaseName: "g"})
		if !apierrors.Is(err, apierrors.ErrCodeTimeout) {
			t.Errorf("Render() error = %v, want %s", err, apierrors.ErrCodeTimeout)
		}
	})
}

func TestInvokerRenderCanceled(t *testing.T) {
	inv := Invoker{
		Locator:          Locator{Executable: fakeDot(t, scriptSleeps)},
		TerminationGrace: 100 * time.Millisecond,
	}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	within(t, 10*time.Second, func() {
		_, err := inv.Render(ctx, Request{Diagram: testDiagram, OutputDir: t.TempDir(), BaseName: "g"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Render() error = %v, want context.Canceled", err)
		}
	})
}

func TestInvokerRenderHooks(t *testing.T) {
	h := recordHooks(t)
	exe := fakeDot(t, scriptRejects)

	inv := Invoker{Locator: Locator{Executable: exe}}
	_, renderErr := inv.Render(context.Background(), Request{Diagram: testDiagram, OutputDir: t.TempDir(), BaseName: "g"})

	if len(h.started) != 1 || len(h.finished) != 1 {
		t.Fatalf("got %d start and %d complete events, want 1 each", len(h.started), len(h.finished))
	}
	if h.started[0].executable != exe {
		t.Errorf("start executable = %q, want %q", h.started[0].executable, exe)
	}
	if h.started[0].id == "" || h.started[0].id != h.finished[0].id {
		t.Errorf("render ids do not match: %q vs %q", h.started[0].id, h.finished[0].id)
	}
	if h.finished[0].err != renderErr {
		t.Errorf("complete err = %v, want %v", h.finished[0].err, renderErr)
	}
}

func TestWriteImageAndMap(t *testing.T) {
	exe := fakeDot(t, scriptRender)
	home := filepath.Dir(exe)
	t.Setenv(HomeEnv, home)
	t.Setenv("PATH", home+string(os.PathListSeparator)+os.Getenv("PATH"))

	dir := t.TempDir()
	out, err := WriteImageAndMap(context.Background(), testDiagram, dir, "pkg")
	if err != nil {
		t.Fatalf("WriteImageAndMap() error: %v", err)
	}
	if out.ImagePath != filepath.Join(dir, "pkg.png") {
		t.Errorf("ImagePath = %q", out.ImagePath)
	}
}
