// Command tienda seeds the TiendaRopa database with sample data, applies a
// few updates and prints the sales reports.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/harentsoaR/tienda-ropa/internal/cache"
	"github.com/harentsoaR/tienda-ropa/internal/config"
	"github.com/harentsoaR/tienda-ropa/internal/platform/logger"
	"github.com/harentsoaR/tienda-ropa/internal/services"
	"github.com/harentsoaR/tienda-ropa/internal/store"
)

func main() {
	foundEnv := config.LoadDotEnv()
	cfg := config.Load()

	logr, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logr.Sync()
	if !foundEnv {
		logr.Debug("No .env file found, relying on environment variables.")
	}

	if err := newRootCmd(cfg, logr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config, logr *logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "tienda",
		Short:         "Seed the store database and print the sales reports",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runWorkflow(cmd.Context(), cfg, cmd.OutOrStdout(), logr)
			return nil
		},
	}
	root.AddCommand(newTokenCmd(cfg))
	return root
}

// runWorkflow is the single top-level handler: a failure anywhere is logged
// and swallowed so the process still exits 0.
func runWorkflow(ctx context.Context, cfg config.Config, out io.Writer, logr *logger.Logger) {
	var invalidator services.CacheInvalidator
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		invalidator = cache.NewReportCache(rdb, cfg.Redis.CacheTTL)
	}

	connect := func(ctx context.Context) (*store.Store, error) {
		return store.Connect(ctx, cfg.Mongo)
	}
	if err := services.NewWorkflow(connect, out, logr, invalidator).Run(ctx); err != nil {
		logr.Error("workflow failed", "error", err)
	}
}
