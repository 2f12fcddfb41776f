package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/geosect/geosect/internal/server"
	"github.com/geosect/geosect/pkg/cache"
	"github.com/geosect/geosect/pkg/extraction"
	"github.com/geosect/geosect/pkg/pipeline"
	"github.com/geosect/geosect/pkg/store"
)

// serveCommand creates the serve command, exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reconciliation and layout pipeline over HTTP",
		Long: `Serve starts an HTTP API that accepts extraction fragments, reconciles
them into borehole records, computes the cross-section layout, renders
artifacts, and persists each run. Runs are stored in MongoDB when
store.mongo_uri is configured, in process memory otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	stageCache, err := c.newServeCache(ctx)
	if err != nil {
		return err
	}

	// The server works without an oracle: callers can post their own
	// fragments. Only warn when extraction is unavailable.
	var ext extraction.Extractor
	if c.Config.Oracle.APIKey() != "" {
		ext, err = c.newExtractor("")
		if err != nil {
			return err
		}
	} else {
		c.Logger.Warn("no oracle API key configured; extraction endpoints disabled")
	}

	runner := pipeline.NewRunner(stageCache, nil, c.Logger, ext)
	defer runner.Close()

	srv := server.New(runner, st, c.Logger)
	return srv.Start(ctx, addr)
}

// newServeCache builds the cache backend for the server, where a Redis
// backend is allowed.
func (c *CLI) newServeCache(ctx context.Context) (cache.Cache, error) {
	switch c.Config.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Config.Cache.RedisAddr,
			Password: c.Config.Cache.RedisPassword,
			DB:       c.Config.Cache.RedisDB,
		})
	default:
		return c.newCache(false)
	}
}

// newStore builds the run store selected by config.
func (c *CLI) newStore(ctx context.Context) (store.RunStore, error) {
	if c.Config.Store.MongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, store.MongoConfig{
		URI:      c.Config.Store.MongoURI,
		Database: c.Config.Store.Database,
	})
}
