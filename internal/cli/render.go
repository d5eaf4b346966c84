package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codeviz/pkg/pipeline"
	"github.com/matzehuels/codeviz/pkg/render"
	"github.com/matzehuels/codeviz/pkg/source"
)

// renderOpts holds the command-line flags shared by render, batch and watch.
type renderOpts struct {
	formats  string  // comma-separated output formats
	output   string  // output file (single format) or base path
	detailed bool    // show kind descriptions in node labels
	free     bool    // let Graphviz place nodes instead of pinning them
	scale    float64 // PNG resolution multiplier
	noCache  bool
}

func (o *renderOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "output format(s): "+strings.Join(render.Formats, ", ")+" (comma-separated)")
	cmd.Flags().BoolVar(&o.detailed, "detailed", false, "include kind descriptions in node labels")
	cmd.Flags().BoolVar(&o.free, "free", false, "let Graphviz place nodes instead of using the column layout")
	cmd.Flags().Float64Var(&o.scale, "scale", 0, "PNG resolution multiplier (default from config)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
}

// apply overlays the flags on options built from the configuration.
func (o *renderOpts) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	if formats := parseFormats(o.formats); len(formats) > 0 {
		opts.Formats = formats
	}
	if cmd.Flags().Changed("detailed") {
		opts.Detailed = o.detailed
	}
	opts.Free = o.free
	if o.scale > 0 {
		opts.Scale = o.scale
	}
	return pipeline.ValidateFormats(opts.Formats)
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render source code as a diagram",
		Long: `Extract a graph from a source file and render it.

With one format, -o names the output file. With several, -o is a base path
and each format adds its own extension. Without -o, outputs are named after
the input file.`,
		Example: `  codeviz render app.js -f svg
  codeviz render app.js -f svg,png,mermaid -o out/app
  codeviz render app.js -f dot --free`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, inputPath(args), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, ropts *renderOpts) error {
	ctx := cmd.Context()
	opts := c.pipelineOptions()
	if err := ropts.apply(cmd, &opts); err != nil {
		return err
	}

	src, err := c.loadSource(path, 0)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, ropts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering "+src.Name+"...")
	spinner.Start()
	res, err := renderSource(ctx, runner, src, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	inputName := src.Path
	if inputName == "" {
		inputName = src.Name
	}
	paths := outputPaths(ropts.output, inputName, opts.Formats)
	written, err := writeArtifacts(res, paths)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", src.Name)
	for _, p := range written {
		printFile(p)
	}
	printStats(res.Stats.Stats, res.CacheInfo.ExtractHit && res.CacheInfo.RenderHit)
	return nil
}

// renderSource runs the full pipeline for one loaded source.
func renderSource(ctx context.Context, runner *pipeline.Runner, src source.Source, opts pipeline.Options) (*pipeline.Result, error) {
	opts.Name = src.Name
	return runner.Execute(ctx, src.Code, opts)
}

// outputPaths maps each format to its output file. A single format with an
// explicit output writes exactly there. Otherwise the output (or the input
// path when output is empty) is a base path that gets each format's
// extension.
func outputPaths(output, inputName string, formats []string) map[string]string {
	if output != "" && len(formats) == 1 {
		return map[string]string{formats[0]: output}
	}

	base := output
	if base == "" {
		base = inputName
		if base == "" || base == "stdin" {
			base = appName
		}
	}
	return basePaths(base, formats)
}

// basePaths replaces the extension of base with each format's extension.
func basePaths(base string, formats []string) map[string]string {
	base = strings.TrimSuffix(base, filepath.Ext(base))
	paths := make(map[string]string, len(formats))
	for _, f := range formats {
		paths[f] = base + render.Extension(f)
	}
	return paths
}

// writeArtifacts writes every rendered format to its path, creating parent
// directories, and returns the written paths sorted.
func writeArtifacts(res *pipeline.Result, paths map[string]string) ([]string, error) {
	written := make([]string, 0, len(paths))
	for format, path := range paths {
		data, ok := res.Artifacts[format]
		if !ok {
			return nil, fmt.Errorf("no %s output for %s", format, res.Name)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	sort.Strings(written)
	return written, nil
}
