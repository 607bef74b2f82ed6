package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/pipeline"
	"github.com/matzehuels/genposter/pkg/poster"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	poster  posterFlags
	output  string // output file, or base path when several formats are requested
	formats string // comma-separated output formats
	noCache bool   // bypass the artifact cache entirely
	refresh bool   // re-render and overwrite cached artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a poster to PNG, SVG, PDF or JSON",
		Long: `Render a poster from a config file and/or flags.

Flags override values from the config file. Without --output, files are named
poster_YYYYMMDD_HHMMSS.<format> in the current directory.`,
		Example: `  genposter render
  genposter render -c poster.toml -f png,pdf -o prints/poster
  genposter render --palette vivid --preset noisetouch --random-seed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.poster.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			formats, err := pipeline.ParseFormats(opts.formats)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, formats, &opts)
		},
	}

	opts.poster.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.DefaultFormat, "output format(s): png, svg, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, cfg poster.Config, formats []string, opts *renderOpts) error {
	if opts.poster.randomSeed {
		c.Logger.Info("Picked random seed", "seed", cfg.Seed)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", strings.Join(formats, ", ")))
	spin.Start()
	result, err := runner.Execute(ctx, pipeline.Options{
		Config:  cfg,
		Formats: formats,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	})
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("Rendered poster", "seed", cfg.Seed, "cached", result.CacheInfo.ArtifactHit)

	paths := outputPaths(opts.output, formats, time.Now())
	for _, format := range formats {
		if err := writeOutput(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	printSuccess(c.out, "Poster %s", StyleNumber.Render(fmt.Sprintf("seed %d", cfg.Seed)))
	printStats(c.out, result.Width, result.Height, result.Stats.BlobCount, result.CacheInfo.ArtifactHit)
	for _, format := range formats {
		printFile(c.out, paths[format])
	}
	return nil
}

// outputPaths maps each format to its file. An explicit output is used as is
// for a single format; with several formats its extension is replaced.
func outputPaths(output string, formats []string, now time.Time) map[string]string {
	paths := make(map[string]string, len(formats))
	if output == "" {
		for _, f := range formats {
			paths[f] = pipeline.FileName(f, now)
		}
		return paths
	}
	if len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if ext := filepath.Ext(output); slices.Contains(pipeline.Formats, strings.TrimPrefix(ext, ".")) {
		base = strings.TrimSuffix(output, ext)
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
