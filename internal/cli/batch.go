package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codeviz/pkg/pipeline"
	"github.com/matzehuels/codeviz/pkg/source"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	renderOpts
	include []string
	exclude []string
	jobs    int
	outDir  string
}

// batchCommand creates the batch command, which renders every matching
// file under a directory.
func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Render every source file under a directory",
		Long: `Discover source files under a directory and render them in parallel.

Files are selected with glob patterns relative to the directory ("**" crosses
directories). Outputs are written next to each input, or mirrored under
--out-dir. A failing file is reported and does not stop the others.`,
		Example: `  codeviz batch src -f svg
  codeviz batch . --include '**/*.ts' --exclude 'test/**' --out-dir diagrams`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return c.runBatch(cmd, dir, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringSliceVar(&opts.include, "include", nil, "glob patterns to include (default: accepted extensions)")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "glob patterns to exclude (default: node_modules, .git, dist)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "parallel jobs (default: number of CPUs)")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "write outputs under this directory instead of next to inputs")

	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, dir string, bopts *batchOpts) error {
	ctx := cmd.Context()
	opts := c.pipelineOptions()
	if err := bopts.apply(cmd, &opts); err != nil {
		return err
	}
	opts.Jobs = bopts.jobs

	files, err := source.Discover(dir, bopts.include, bopts.exclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		printWarning("No source files found in %s", dir)
		return nil
	}

	var (
		inputs []pipeline.Input
		rels   []string
		failed int
	)
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		if err != nil {
			rel = filepath.Base(f)
		}
		src, err := c.loadSource(f, 0)
		if err != nil {
			printError("%s: %v", rel, err)
			failed++
			continue
		}
		inputs = append(inputs, pipeline.Input{Name: rel, Code: src.Code})
		rels = append(rels, rel)
	}

	runner, err := c.newRunner(ctx, bopts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	results, err := runner.ExecuteBatch(ctx, inputs, opts)
	if err != nil {
		return err
	}

	for i, res := range results {
		if res.Err != nil {
			printError("%s: %v", rels[i], res.Err)
			failed++
			continue
		}
		base := filepath.Join(dir, rels[i])
		if bopts.outDir != "" {
			base = filepath.Join(bopts.outDir, rels[i])
		}
		written, err := writeArtifacts(res, basePaths(base, opts.Formats))
		if err != nil {
			printError("%s: %v", rels[i], err)
			failed++
			continue
		}
		printSuccess("%s", rels[i])
		for _, p := range written {
			printFile(p)
		}
	}

	total := len(files)
	prog.done(fmt.Sprintf("Rendered %d of %d files", total-failed, total))
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, total)
	}
	return nil
}
