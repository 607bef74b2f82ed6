// Package cli implements the genposter command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/genposter/pkg/buildinfo"
	"github.com/matzehuels/genposter/pkg/cache"
	"github.com/matzehuels/genposter/pkg/observability"
	"github.com/matzehuels/genposter/pkg/pipeline"
)

const (
	appName           = "genposter"
	defaultConfigFile = "poster.toml" // written by "config init"
)

// Levels main can pass to New without importing the log package.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI is shared by every command: diagnostics go to Logger (stderr),
// results go to out (stdout).
type CLI struct {
	Logger *log.Logger
	out    io.Writer
}

// New returns a CLI that logs to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), out: os.Stdout}
}

// SetLogLevel changes the log level. Debug also routes pipeline, cache and
// HTTP events to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Install()
	}
}

// SetOutput redirects command results, for tests.
func (c *CLI) SetOutput(w io.Writer) { c.out = w }

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "genposter renders seeded generative posters",
		Long: `genposter draws layered, translucent, wobbly blobs onto a canvas and exports
the result as PNG, SVG, PDF or JSON. Equal settings always give equal bytes.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.AddCommand(
		c.renderCommand(),
		c.paletteCommand(),
		c.configCommand(),
		c.cacheCommand(),
		c.serveCommand(),
		c.studioCommand(),
		c.completionCommand(),
	)
	return root
}

// newRunner returns a runner backed by the local file cache, or by no cache
// with noCache.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	artifacts, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(artifacts, nil, c.Logger), nil
}

// newCache falls back to no caching when there is no home directory.
func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir is $XDG_CACHE_HOME/genposter, else ~/.cache/genposter.
func cacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, appName), nil
}
