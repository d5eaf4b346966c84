package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codeviz/pkg/graph"
	"github.com/matzehuels/codeviz/pkg/pipeline"
	"github.com/matzehuels/codeviz/pkg/source"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string
	noCache  bool
	maxBytes int64
}

// graphCommand creates the graph command, which extracts a graph and
// writes it as JSON.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [file|-]",
		Short: "Extract a graph from source code as JSON",
		Long: `Extract declarations and their relationships from a source file.

With no file, or "-", the source is read from standard input. Without -o the
graph JSON is written to standard output.`,
		Example: `  codeviz graph app.js
  codeviz graph app.js -o app.json
  cat app.js | codeviz graph -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, inputPath(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Int64Var(&opts.maxBytes, "max-bytes", 0, "maximum source size in bytes (default from config)")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, path string, opts graphOpts) error {
	ctx := cmd.Context()
	src, err := c.loadSource(path, opts.maxBytes)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	g, hit, err := c.extract(ctx, runner, src, opts.maxBytes)
	if err != nil {
		return err
	}

	if opts.output == "" {
		return graph.WriteGraph(g, cmd.OutOrStdout())
	}
	if err := graph.WriteGraphFile(g, opts.output); err != nil {
		return err
	}
	printSuccess("Extracted %s", src.Name)
	printFile(opts.output)
	printStats(g.Stats(), hit)
	return nil
}

// inputPath returns the single positional argument, or "-" for stdin.
func inputPath(args []string) string {
	if len(args) == 0 {
		return source.StdinName
	}
	return args[0]
}

// loadSource reads path with the configured size ceiling, overridden by
// maxBytes when positive.
func (c *CLI) loadSource(path string, maxBytes int64) (source.Source, error) {
	if maxBytes <= 0 {
		maxBytes = c.config().Limits.MaxBytes
	}
	return source.Load(path, source.LoadOptions{MaxBytes: maxBytes})
}

// extract runs the extraction stage for src.
func (c *CLI) extract(ctx context.Context, runner *pipeline.Runner, src source.Source, maxBytes int64) (graph.Graph, bool, error) {
	opts := c.pipelineOptions()
	opts.Name = src.Name
	if maxBytes > 0 {
		opts.MaxBytes = maxBytes
	}
	return runner.Extract(ctx, src.Code, opts)
}
