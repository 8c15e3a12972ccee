package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/httpserver"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/postgres"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/redis"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/report"
	httptransport "github.com/Qin717/Global-Mental-Disorders-Analysis/internal/transport/http"
)

var serveCmd = &cobra.Command{
	Use: "serve",

	Short: "Serves the reporting API over HTTP.",

	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := postgres.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		cache, err := redis.New(cfg.Redis)
		if err != nil {
			log.Warnw("report cache unavailable, continuing without it", "error", err)
		}
		if cache != nil {
			defer cache.Close()
		}

		queries := report.NewQueries(db, cache, cfg.Redis.TTL, log)
		handler := httptransport.NewHandler(queries, cache, log)
		srv := httpserver.New(cfg.Server.Addr, httptransport.NewRouter(handler))

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Infow("http server listening", "addr", cfg.Server.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}
