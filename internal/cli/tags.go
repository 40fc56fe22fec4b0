package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/apiviz/pkg/doclet"
	apierrors "github.com/matzehuels/apiviz/pkg/errors"
	"github.com/matzehuels/apiviz/pkg/tags"
)

// tagsCommand creates the tags command.
func (c *CLI) tagsCommand() *cobra.Command {
	var (
		pathOnly bool
		checks   []string
	)

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List apiviz tags and the tag file passed to the host",
		Long: `List apiviz tags and the tag file passed to the host.

With --check, each message is run through the warning filter and reported as
suppressed or forwarded, exactly as the host documentation tool would see it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pathOnly {
				path, err := tags.Path()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}
			return runTags(cmd.Context(), checks)
		},
	}

	cmd.Flags().BoolVar(&pathOnly, "path", false, "print only the tag file path")
	cmd.Flags().StringArrayVar(&checks, "check", nil, "host warning to test against the filter (repeatable)")

	return cmd
}

func runTags(ctx context.Context, checks []string) error {
	logger := loggerFromContext(ctx)
	root := doclet.NewStatic()
	ic, err := doclet.NewInterceptor(root, doclet.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render("apiviz tags"))
	for _, name := range tags.Names() {
		fmt.Println("  " + StyleHighlight.Render(name))
	}
	printNewline()
	printKeyValue("Tag file", ic.TagsPath())

	if len(checks) == 0 {
		return nil
	}
	printNewline()
	for _, msg := range checks {
		printVerdict(msg, !forwardsWarning(ic, root, msg))
	}
	return nil
}

// forwardsWarning reports whether a warning sent through ic reaches root.
func forwardsWarning(ic *doclet.Interceptor, root *doclet.Static, msg string) bool {
	before := len(root.Messages())
	ic.PrintWarning(msg)
	return len(root.Messages()) > before
}

// optionsCommand creates the options command.
func (c *CLI) optionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "options -- [host-option]...",
		Short: "Show host options after the known-tags option is added",
		Long: `Show the host documentation tool's options as apiviz hands them on.

Pass the host's options after "--". Each argument starting with "-" begins a
new option; the arguments that follow are its values. apiviz appends one
-knowntags option naming the materialized tag file.

Example:
  apiviz options -- -d build/docs -sourcepath src -private`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions(cmd.Context(), args)
		},
	}
}

func runOptions(ctx context.Context, args []string) error {
	rows, err := parseOptionRows(args)
	if err != nil {
		return err
	}

	root := doclet.NewStatic(rows...)
	root.Logger = loggerFromContext(ctx)
	ic, err := doclet.NewInterceptor(root, doclet.WithLogger(root.Logger))
	if err != nil {
		return err
	}

	fmt.Println(optionsTable(ic.Options(), len(rows)))
	return nil
}

// parseOptionRows groups host arguments into {flag, value...} rows.
func parseOptionRows(args []string) ([][]string, error) {
	var rows [][]string
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			rows = append(rows, []string{arg})
			continue
		}
		if len(rows) == 0 {
			return nil, apierrors.New(apierrors.ErrCodeInvalidInput, "value %q does not follow an option", arg)
		}
		last := len(rows) - 1
		rows[last] = append(rows[last], arg)
	}
	return rows, nil
}

// optionsTable renders option rows; rows from index added on are highlighted.
func optionsTable(rows [][]string, added int) string {
	data := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = []string{row[0], strings.Join(row[1:], " ")}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Option", "Values").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case row >= added:
				return cell.Foreground(colorGreen)
			case col == 0:
				return cell.Foreground(colorCyan)
			}
			return cell
		})

	return t.Render()
}
