package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codeviz/pkg/examples"
	"github.com/matzehuels/codeviz/pkg/graph"
	"github.com/matzehuels/codeviz/pkg/source"
)

// examplesCommand creates the examples command and its subcommands.
func (c *CLI) examplesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examples",
		Short: "List the bundled example programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := newExampleRows(examples.All())
			fmt.Fprintln(cmd.OutOrStdout(), exampleTable(rows, 0, len(rows), -1, func(idx, col int) lipgloss.Style {
				if col >= 3 {
					return lipgloss.NewStyle().Foreground(colorGray)
				}
				return lipgloss.NewStyle()
			}))
			printNextStep("Show an example", appName+" examples show <slug>")
			return nil
		},
	}

	cmd.AddCommand(c.examplesShowCommand())
	cmd.AddCommand(c.examplesPickCommand())

	return cmd
}

// examplesShowCommand creates the "examples show" subcommand.
func (c *CLI) examplesShowCommand() *cobra.Command {
	var asGraph bool

	cmd := &cobra.Command{
		Use:               "show <name>",
		Short:             "Print an example's source, or its graph with --graph",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeExamples,
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := examples.Get(args[0])
			if err != nil {
				return err
			}
			if !asGraph {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), ex.Source)
				return err
			}
			return c.printExampleGraph(cmd, ex)
		},
	}

	cmd.Flags().BoolVar(&asGraph, "graph", false, "print the extracted graph JSON instead of the source")

	return cmd
}

// examplesPickCommand creates the "examples pick" subcommand.
func (c *CLI) examplesPickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose an example interactively and print its graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			final, err := tea.NewProgram(NewExampleListModel(examples.All()), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			m, ok := final.(ExampleListModel)
			if !ok || m.Selected == nil {
				printInfo("Nothing selected")
				return nil
			}
			return c.printExampleGraph(cmd, *m.Selected)
		},
	}
}

// printExampleGraph extracts ex through the pipeline and writes the graph
// JSON to the command's output.
func (c *CLI) printExampleGraph(cmd *cobra.Command, ex examples.Example) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	g, _, err := c.extract(ctx, runner, source.Source{Name: ex.Filename, Code: ex.Source}, 0)
	if err != nil {
		return err
	}
	return graph.WriteGraph(g, cmd.OutOrStdout())
}

func completeExamples(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var slugs []string
	for _, name := range examples.Names() {
		slugs = append(slugs, examples.Slug(name))
	}
	return slugs, cobra.ShellCompDirectiveNoFileComp
}
