package graphviz

import (
	"bytes"
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"
	"github.com/google/uuid"

	apierrors "github.com/matzehuels/apiviz/pkg/errors"
	"github.com/matzehuels/apiviz/pkg/observability"
)

// formatCMAPX is the client-side image map format. go-graphviz has no
// constant for it.
const formatCMAPX graphviz.Format = "cmapx"

// embeddedName is reported to hooks in place of an executable path.
const embeddedName = "go-graphviz"

// Embedded renders diagrams in-process with the Graphviz library bundled in
// go-graphviz. It produces the same artifacts as [Invoker] and is meant for
// hosts without a dot installation.
type Embedded struct {
	Logger *log.Logger
}

// Render lays out the diagram once and writes the PNG and image map.
// Validation and stale-file removal match [Invoker.Render].
func (e *Embedded) Render(ctx context.Context, req Request) (Output, error) {
	out, err := req.outputs()
	if err != nil {
		return Output{}, err
	}
	if err := removeStale(out); err != nil {
		return Output{}, err
	}

	id := uuid.NewString()
	logger := orDiscard(e.Logger).WithPrefix(embeddedName).With("render", id[:8])

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, id, embeddedName)
	start := time.Now()

	err = renderEmbedded(ctx, req.Diagram, out)

	hooks.OnRenderComplete(ctx, id, time.Since(start), err)
	if err != nil {
		logger.Debug("Render failed", "err", err)
		return Output{}, err
	}
	logger.Debug("Rendered", "image", out.ImagePath, "map", out.MapPath, "took", time.Since(start).Round(time.Millisecond))
	return out, nil
}

func renderEmbedded(ctx context.Context, diagram string, out Output) error {
	if err := ctx.Err(); err != nil {
		return contextError(err)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return apierrors.Wrap(apierrors.ErrCodeRendererUnavailable, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(strings.ToValidUTF8(diagram, "�")))
	if err != nil {
		return apierrors.Wrap(apierrors.ErrCodeRendererSyntax, err, "parse diagram")
	}
	defer g.Close()

	targets := []struct {
		format graphviz.Format
		path   string
	}{
		{formatCMAPX, out.MapPath},
		{graphviz.PNG, out.ImagePath},
	}
	for _, t := range targets {
		var buf bytes.Buffer
		if err := gv.Render(ctx, g, t.format, &buf); err != nil {
			return apierrors.Wrap(apierrors.ErrCodeRendererIO, err, "render %s", t.format)
		}
		if err := os.WriteFile(t.path, buf.Bytes(), 0o644); err != nil {
			return apierrors.Wrap(apierrors.ErrCodeRendererIO, err, "write %s", t.path)
		}
	}
	return nil
}

// Lint parses diagram without laying it out and reports syntax errors with
// code RENDERER_SYNTAX.
func Lint(diagram string) error {
	if strings.TrimSpace(diagram) == "" {
		return apierrors.New(apierrors.ErrCodeInvalidInput, "diagram is empty")
	}
	g, err := graphviz.ParseBytes([]byte(diagram))
	if err != nil {
		return apierrors.Wrap(apierrors.ErrCodeRendererSyntax, err, "parse diagram")
	}
	return g.Close()
}
