package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codeviz/pkg/pipeline"
	"github.com/matzehuels/codeviz/pkg/source/watch"
)

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	renderOpts
	outDir   string
	debounce time.Duration
}

// watchCommand creates the watch command, which re-renders files whenever
// they change.
func (c *CLI) watchCommand() *cobra.Command {
	var opts watchOpts

	cmd := &cobra.Command{
		Use:   "watch file...",
		Short: "Re-render source files when they change",
		Long: `Render the given files once, then again every time one of them is saved.

Changes are collected for a short quiet period (--debounce) so an editor
that writes several times per save triggers a single render. Press Ctrl+C
to stop.`,
		Example: `  codeviz watch app.js -f svg
  codeviz watch src/*.js -f svg,mermaid --out-dir diagrams`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd, args, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "write outputs under this directory instead of next to inputs")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 0, "quiet period before re-rendering (default from config)")

	return cmd
}

func (c *CLI) runWatch(cmd *cobra.Command, files []string, wopts *watchOpts) error {
	ctx := cmd.Context()
	opts := c.pipelineOptions()
	if err := wopts.apply(cmd, &opts); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, wopts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	debounce := wopts.debounce
	if debounce <= 0 {
		debounce = c.config().Watch.Debounce
	}
	w, err := watch.New(files, watch.Options{Debounce: debounce, Logger: c.Logger})
	if err != nil {
		return err
	}
	defer w.Stop()

	// Watching starts first so that edits during the initial render are seen.
	for _, f := range files {
		c.renderWatched(ctx, runner, f, wopts.outDir, opts)
	}

	w.Start(ctx, func(changed []string) {
		for _, f := range changed {
			c.renderWatched(ctx, runner, f, wopts.outDir, opts)
		}
	})

	printInfo("Watching %d file(s), press Ctrl+C to stop", len(files))
	<-ctx.Done()
	printNewline()
	return nil
}

// renderWatched renders one file and reports the outcome. Errors are
// printed rather than returned so that watching continues.
func (c *CLI) renderWatched(ctx context.Context, runner *pipeline.Runner, path, outDir string, opts pipeline.Options) {
	src, err := c.loadSource(path, 0)
	if err != nil {
		printError("%s: %v", path, err)
		return
	}
	res, err := renderSource(ctx, runner, src, opts)
	if err != nil {
		printError("%s: %v", path, err)
		return
	}

	base := path
	if outDir != "" {
		base = filepath.Join(outDir, filepath.Base(path))
	}
	written, err := writeArtifacts(res, basePaths(base, opts.Formats))
	if err != nil {
		printError("%s: %v", path, err)
		return
	}
	printSuccess("%s %s", src.Name, StyleDim.Render(time.Now().Format("15:04:05")))
	for _, p := range written {
		printFile(p)
	}
}
