package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apierrors "github.com/matzehuels/apiviz/pkg/errors"
	"github.com/matzehuels/apiviz/pkg/graphviz"
)

const (
	stdinName       = "-"       // read the diagram from standard input
	defaultBaseName = "diagram" // output name for diagrams read from stdin
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output string        // output directory
	name   string        // base name of the .png and .map files
	gv     graphvizFlags // renderer overrides
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{output: "."}

	cmd := &cobra.Command{
		Use:   "render [file.dot|-]",
		Short: "Render a DOT diagram to a PNG and a client-side image map",
		Long: `Render a DOT diagram to a PNG and a client-side image map.

The diagram is piped to Graphviz dot, which writes <name>.png and <name>.map
into the output directory. Existing files with those names are removed first.
Use "-" to read the diagram from standard input.

Without a dot installation, --engine embedded renders in process instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			diagram, err := readDiagram(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			name := opts.name
			if name == "" {
				name = baseNameFor(args[0])
			}
			return c.runRender(cmd.Context(), diagram, name, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory (must exist)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "base name of the output files (default: input file name)")
	opts.gv.register(cmd, true)

	return cmd
}

// readDiagram loads the diagram text from a file or, for "-", from stdin.
func readDiagram(stdin io.Reader, input string) (string, error) {
	var (
		data []byte
		err  error
	)
	if input == stdinName {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", input, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", apierrors.New(apierrors.ErrCodeInvalidInput, "%s contains no diagram", input)
	}
	return string(data), nil
}

// baseNameFor derives the output name from the input path: graphs/core.dot
// becomes core.
func baseNameFor(input string) string {
	if input == stdinName {
		return defaultBaseName
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// runRender renders diagram and reports the written files.
func (c *CLI) runRender(ctx context.Context, diagram, name string, opts renderOpts) error {
	g, err := c.graphvizConfig(opts.gv)
	if err != nil {
		return err
	}

	out, err := c.render(ctx, g, graphviz.Request{
		Diagram:   diagram,
		OutputDir: opts.output,
		BaseName:  name,
	})
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", StyleHighlight.Render(name))
	printFile(out.ImagePath)
	printFile(out.MapPath)
	return nil
}

// render runs the configured renderer behind a spinner.
func (c *CLI) render(ctx context.Context, g GraphvizConfig, req graphviz.Request) (graphviz.Output, error) {
	if !g.embedded() {
		if err := c.requireRenderer(ctx, g); err != nil {
			return graphviz.Output{}, err
		}
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", req.BaseName))
	spinner.Start()

	out, err := c.renderer(g).Render(ctx, req)
	if err != nil {
		spinner.StopWithError("Render failed")
		if status, ok := apierrors.ExitStatus(err); ok {
			printDetail("dot exited with status %d; see the warnings above", status)
		}
		return graphviz.Output{}, err
	}
	spinner.Stop()
	return out, nil
}

// requireRenderer fails fast when dot cannot be run.
func (c *CLI) requireRenderer(ctx context.Context, g GraphvizConfig) error {
	p := graphviz.Prober{Locator: g.locator(), Logger: c.Logger}
	if p.IsAvailable(ctx) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return apierrors.New(apierrors.ErrCodeRendererUnavailable,
		"Graphviz dot not found (set --graphviz-home or $%s, or use --engine %s)", graphviz.HomeEnv, engineEmbedded)
}
