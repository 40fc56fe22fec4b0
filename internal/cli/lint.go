package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apierrors "github.com/matzehuels/apiviz/pkg/errors"
	"github.com/matzehuels/apiviz/pkg/graphviz"
)

// lintCommand creates the lint command.
func (c *CLI) lintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint [file.dot|-]...",
		Short: "Check DOT diagrams for syntax errors",
		Long: `Check DOT diagrams for syntax errors without rendering them.

Parsing uses the Graphviz library bundled with apiviz, so no dot
installation is needed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd.Context(), cmd.InOrStdin(), args)
		},
	}
}

// runLint parses every input and reports each result.
func runLint(ctx context.Context, stdin io.Reader, inputs []string) error {
	prog := newProgress(loggerFromContext(ctx))

	var failed int
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		diagram, err := readDiagram(stdin, input)
		if err == nil {
			err = graphviz.Lint(diagram)
		}
		if err != nil {
			failed++
			printError("%s", input)
			printDetail("%v", err)
			continue
		}
		printSuccess("%s", input)
	}

	prog.done(fmt.Sprintf("Checked %d diagram(s)", len(inputs)))
	if failed > 0 {
		return apierrors.New(apierrors.ErrCodeRendererSyntax, "%d of %d diagram(s) failed to parse", failed, len(inputs))
	}
	return nil
}
