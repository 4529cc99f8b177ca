package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/fincalculate/internal/cache"
	"github.com/iwvelando/fincalculate/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves the JSON calculator API under /api and the generated site from the
static directory until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address override")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conf := app.conf
	repo, err := cache.New(ctx, conf.Cache, app.logger)
	if err != nil {
		return fmt.Errorf("failed to open result cache: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			app.logger.Warn("failed to close result cache",
				zap.String("op", "cmd.serve"),
				zap.Error(err),
			)
		}
	}()

	handler := server.NewHandler(app.logger, server.Options{
		Catalog:      app.catalog,
		SiteName:     siteName(),
		Cache:        repo,
		StaticDir:    conf.StaticDir(),
		MaxBodyBytes: conf.MaxBodyBytes(),
		RateLimit:    conf.Server.RateLimit,
		Burst:        conf.Server.Burst,
		Version:      Version,
	})

	addr := conf.Server.Address
	if serveAddr != "" {
		addr = serveAddr
	}
	return server.Serve(ctx, addr, handler, app.logger)
}
