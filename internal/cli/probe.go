package cli

import (
	"context"

	"github.com/spf13/cobra"

	apierrors "github.com/matzehuels/apiviz/pkg/errors"
	"github.com/matzehuels/apiviz/pkg/graphviz"
)

// probeCommand creates the probe command.
func (c *CLI) probeCommand() *cobra.Command {
	var gv graphvizFlags

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check whether Graphviz dot is installed",
		Long: `Check whether Graphviz dot is installed.

Runs "dot -V" and looks for Graphviz in its output. Exits non-zero when the
renderer is missing or does not identify itself.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runProbe(cmd.Context(), gv)
		},
	}
	gv.register(cmd, false)

	return cmd
}

func (c *CLI) runProbe(ctx context.Context, f graphvizFlags) error {
	g, err := c.graphvizConfig(f)
	if err != nil {
		return err
	}

	p := graphviz.Prober{Locator: g.locator(), Logger: c.Logger}
	res := p.Probe(ctx)

	home := res.Dir
	if home == "" {
		home = "(not set)"
	}
	printKeyValue("Executable", res.Executable)
	printKeyValue("Home", home)

	if !res.Available {
		printWarning("Graphviz is not available")
		printNextStep("Render without dot", "apiviz render --engine embedded <file.dot>")
		return apierrors.New(apierrors.ErrCodeRendererUnavailable, "%s did not identify itself as Graphviz", res.Executable)
	}

	printKeyValue("Version", res.Version)
	printSuccess("Graphviz is available")
	return nil
}
