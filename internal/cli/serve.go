package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genposter/pkg/cache"
	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/gallery"
	"github.com/matzehuels/genposter/pkg/pipeline"
	"github.com/matzehuels/genposter/pkg/retry"
	"github.com/matzehuels/genposter/pkg/server"
)

type serveOpts struct {
	addr      string
	redisAddr string
	mongoURI  string
	mongoDB   string
	keyPrefix string
	noCache   bool
}

// serveCommand runs the HTTP front-end.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		redisAddr: os.Getenv(server.EnvRedisAddr),
		mongoURI:  os.Getenv(server.EnvMongoURI),
		mongoDB:   os.Getenv(server.EnvMongoDB),
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web form and poster API",
		Long: `Serve the web form and poster API.

The artifact cache is Redis when --redis (or ` + server.EnvRedisAddr + `) is set and
the local cache directory otherwise. Poster history is kept in MongoDB when
--mongo (or ` + server.EnvMongoURI + `) is set and in memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", opts.redisAddr, "redis address or URL for the artifact cache")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", opts.mongoURI, "MongoDB URI for poster history")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().StringVar(&opts.keyPrefix, "key-prefix", "genposter:", "prefix for redis cache keys")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	artifacts, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if opts.redisAddr != "" && opts.keyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, opts.keyPrefix)
	}

	var store gallery.Store = gallery.NewMemoryStore(gallery.DefaultCapacity)
	if opts.mongoURI != "" {
		err := c.connect(ctx, "mongodb", func() error {
			ms, err := gallery.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
			if err == nil {
				store = ms
			}
			return err
		})
		if err != nil {
			artifacts.Close()
			return err
		}
		c.Logger.Info("Poster history in MongoDB")
	}

	srv := server.New(pipeline.NewRunner(artifacts, keyer, c.Logger), store, c.Logger)
	printSuccess(c.out, "Serving on %s", StyleValue.Render("http://"+opts.addr))
	return srv.ListenAndServe(ctx, opts.addr)
}

func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), nil
	case opts.redisAddr != "":
		var rc *cache.RedisCache
		err := c.connect(ctx, "redis", func() error {
			var err error
			rc, err = cache.NewRedisCache(ctx, opts.redisAddr)
			return err
		})
		if err != nil {
			return nil, err
		}
		c.Logger.Info("Artifact cache in Redis")
		return rc, nil
	}
	return newCache(false)
}

// connect retries fn while it fails with a storage error, so backends may
// start after the server.
func (c *CLI) connect(ctx context.Context, name string, fn func() error) error {
	attempt := 0
	return retry.WithBackoff(ctx, func() error {
		attempt++
		err := fn()
		if errors.Is(err, errors.ErrCodeStorage) {
			c.Logger.Warn("Backend not reachable", "backend", name, "attempt", attempt, "err", err)
			return retry.Transient(err)
		}
		return err
	})
}
