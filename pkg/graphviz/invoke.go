package graphviz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apierrors "github.com/matzehuels/apiviz/pkg/errors"
	"github.com/matzehuels/apiviz/pkg/observability"
)

// Output file extensions.
const (
	ImageExt = ".png"
	MapExt   = ".map"
)

// Request describes one diagram to render.
type Request struct {
	// Diagram is the finished DOT text. It is sent to the renderer as UTF-8.
	Diagram string

	// OutputDir is an existing directory receiving both artifacts.
	OutputDir string

	// BaseName is the shared file name of the artifacts, without extension.
	// It must not contain path separators.
	BaseName string
}

// Output holds the absolute paths of a successful render's artifacts.
type Output struct {
	ImagePath string
	MapPath   string
}

// Renderer turns a [Request] into an image and an image map.
type Renderer interface {
	Render(ctx context.Context, req Request) (Output, error)
}

// Invoker renders diagrams by running the external dot program.
// The zero value uses the default [Locator], waits indefinitely, and logs
// renderer output nowhere.
//
// An Invoker holds no per-render state and may be used concurrently.
type Invoker struct {
	Locator Locator

	// Logger receives every line the renderer prints, at warn level.
	Logger *log.Logger

	// Timeout bounds a single render. Zero means no bound.
	Timeout time.Duration

	// TerminationGrace is the delay between SIGTERM and SIGKILL when a
	// render is canceled. Defaults to 5s.
	TerminationGrace time.Duration
}

var (
	_ Renderer = (*Invoker)(nil)
	_ Renderer = (*Embedded)(nil)
)

// WriteImageAndMap renders diagram into dir/base.png and dir/base.map using
// the default renderer location.
func WriteImageAndMap(ctx context.Context, diagram, dir, base string) (Output, error) {
	var inv Invoker
	return inv.Render(ctx, Request{Diagram: diagram, OutputDir: dir, BaseName: base})
}

// Render runs the renderer once and blocks until it exits.
//
// Stale files at both output paths are removed before the renderer starts, so
// a failed render never leaves a previous run's artifacts looking fresh. On
// failure nothing is promised about partially written artifacts.
//
// Errors carry one of these codes:
//   - INVALID_PATH: bad output directory or base name, nothing was touched
//   - RENDERER_IO: spawn failure or a broken stdin/stdout pipe
//   - RENDERER_EXIT: the renderer rejected the diagram (see [apierrors.ExitStatus])
//   - TIMEOUT: [Invoker.Timeout] expired
//
// Context cancellation terminates the renderer and returns an error wrapping
// [context.Canceled].
func (inv *Invoker) Render(ctx context.Context, req Request) (Output, error) {
	out, err := req.outputs()
	if err != nil {
		return Output{}, err
	}
	if err := removeStale(out); err != nil {
		return Output{}, err
	}

	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	loc := inv.Locator.Resolve()
	id := uuid.NewString()
	logger := orDiscard(inv.Logger).WithPrefix("dot").With("render", id[:8])

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, id, loc.Executable)
	start := time.Now()

	err = inv.run(ctx, loc, req.Diagram, out, logger)

	hooks.OnRenderComplete(ctx, id, time.Since(start), err)
	if err != nil {
		return Output{}, err
	}
	logger.Debug("Rendered", "image", out.ImagePath, "map", out.MapPath, "took", time.Since(start).Round(time.Millisecond))
	return out, nil
}

func (inv *Invoker) run(ctx context.Context, loc Location, diagram string, out Output, logger *log.Logger) error {
	if err := ctx.Err(); err != nil {
		return contextError(err)
	}

	proc, err := spawn(loc, "-Tcmapx", "-o", out.MapPath, "-Tpng", "-o", out.ImagePath)
	if err != nil {
		return apierrors.Wrap(apierrors.ErrCodeRendererIO, err, "start %s", loc.Executable)
	}
	defer proc.closePipes()

	stop := proc.terminateOn(ctx, inv.grace())

	// Writing and draining run side by side: dot may fill its output pipe
	// before it has read the whole diagram.
	var g errgroup.Group
	g.Go(func() error {
		defer proc.stdin.Close()
		if _, err := io.WriteString(proc.stdin, strings.ToValidUTF8(diagram, "�")); err != nil {
			return fmt.Errorf("write diagram: %w", err)
		}
		if err := proc.stdin.Close(); err != nil {
			return fmt.Errorf("close renderer input: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := drainLines(proc.stdout, func(line string) {
			logger.Warn(line)
		})
		if err != nil {
			// Unblock a renderer stuck writing to us.
			_ = proc.stdout.Close()
			return fmt.Errorf("read renderer output: %w", err)
		}
		return nil
	})
	ioErr := g.Wait()
	proc.closePipes()

	state, waitErr := proc.wait()
	terminated := !stop()

	switch {
	case waitErr == nil && state.Success() && ioErr == nil:
		// A renderer that finished cleanly wins over a late cancel.
		return nil
	case terminated:
		return contextError(ctx.Err())
	case waitErr != nil:
		return apierrors.Wrap(apierrors.ErrCodeRendererIO, waitErr, "wait for %s", loc.Executable)
	case !state.Success():
		exit := &apierrors.ExitError{Executable: loc.Executable, Status: state.ExitCode()}
		return apierrors.Wrap(apierrors.ErrCodeRendererExit, exit, "render %s", filepath.Base(out.ImagePath))
	}
	return apierrors.Wrap(apierrors.ErrCodeRendererIO, ioErr, "talk to %s", loc.Executable)
}

func (inv *Invoker) grace() time.Duration {
	if inv.TerminationGrace > 0 {
		return inv.TerminationGrace
	}
	return defaultTerminationGrace
}

// outputs validates the request and computes absolute artifact paths.
func (r Request) outputs() (Output, error) {
	if err := apierrors.ValidateBaseName(r.BaseName); err != nil {
		return Output{}, err
	}
	dir, err := apierrors.ValidateOutputDir(r.OutputDir)
	if err != nil {
		return Output{}, err
	}
	return Output{
		ImagePath: filepath.Join(dir, r.BaseName+ImageExt),
		MapPath:   filepath.Join(dir, r.BaseName+MapExt),
	}, nil
}

// removeStale deletes earlier artifacts at the output paths. Missing files
// are fine.
func removeStale(out Output) error {
	for _, path := range []string{out.ImagePath, out.MapPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return apierrors.Wrap(apierrors.ErrCodeInvalidPath, err, "remove stale output %s", path)
		}
	}
	return nil
}

// contextError maps a context error onto the render error taxonomy.
func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.Wrap(apierrors.ErrCodeTimeout, err, "renderer did not finish in time")
	}
	return fmt.Errorf("render canceled: %w", err)
}

// orDiscard returns l, or a logger that drops everything when l is nil.
func orDiscard(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}
