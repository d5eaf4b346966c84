package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codeviz/internal/config"
	"github.com/matzehuels/codeviz/internal/server"
	"github.com/matzehuels/codeviz/pkg/pipeline"
	"github.com/matzehuels/codeviz/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string
	timeout       time.Duration
	mongoURI      string
	mongoDatabase string
	redisAddr     string
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the extraction and rendering API over HTTP.

Results are cached in memory unless --redis-addr (or cache.backend) selects
Redis. Saved diagrams live in memory unless --mongo-uri points at MongoDB.`,
		Example: `  codeviz serve --addr :8080
  codeviz serve --redis-addr localhost:6379 --mongo-uri mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-request timeout (default from config)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for saved diagrams")
	cmd.Flags().StringVar(&opts.mongoDatabase, "mongo-database", "", "MongoDB database name")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for the result cache")

	return cmd
}

// apply overlays the flags on the configuration.
func (o serveOpts) apply(cfg *config.Config) {
	if o.addr != "" {
		cfg.Server.Addr = o.addr
	}
	if o.timeout > 0 {
		cfg.Server.Timeout = o.timeout
	}
	if o.mongoURI != "" {
		cfg.Server.MongoURI = o.mongoURI
	}
	if o.mongoDatabase != "" {
		cfg.Server.MongoDatabase = o.mongoDatabase
	}
	if o.redisAddr != "" {
		cfg.Cache.RedisAddr = o.redisAddr
		cfg.Cache.Backend = config.BackendRedis
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = config.BackendMemory
	}
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg := *c.config()
	opts.apply(&cfg)

	ch, err := newCache(ctx, &cfg, cfg.Cache.Backend, c.Logger)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, newKeyer(&cfg, cfg.Cache.Backend), c.Logger)
	defer runner.Close()

	st, err := openStore(ctx, &cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()

	c.Logger.Info("starting server",
		"cache", cfg.Cache.Backend,
		"store", storeKind(&cfg))

	srv := server.New(runner, st, server.Options{
		Addr:         cfg.Server.Addr,
		Timeout:      cfg.Server.Timeout,
		MaxBytes:     cfg.Limits.MaxBytes,
		MaxLineBytes: cfg.Limits.MaxLineBytes,
		Logger:       c.Logger,
	})
	return srv.Run(ctx)
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Server.MongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return store.NewMongoStore(connectCtx, store.MongoConfig{
		URI:      cfg.Server.MongoURI,
		Database: cfg.Server.MongoDatabase,
	})
}

func storeKind(cfg *config.Config) string {
	if cfg.Server.MongoURI == "" {
		return "memory"
	}
	return "mongo"
}
