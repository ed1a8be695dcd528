package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ukumbi/arenapay/api"
	"github.com/ukumbi/arenapay/config"
	pg_listener "github.com/ukumbi/arenapay/internal/pg-listener"
)

func initializeRouter(app *appInstance) *gin.Engine {
	return api.NewAPI(app.arenapay).Router()
}

// startChangeListener feeds the payment change feed into the in-process
// watch registry so waiting payment sessions resolve as callbacks land.
func startChangeListener(ctx context.Context, app *appInstance) {
	listener := pg_listener.NewDBListener(pg_listener.ListenerConfig{
		PgConnStr: app.cnf.DataSource.Dns,
	}, app.arenapay.Watcher())

	go func() {
		if err := listener.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("payment change listener stopped: %v", err)
		}
	}()
}

func startServer(router *gin.Engine, cfg config.ServerConfig) error {
	log.Printf("Starting server on http://localhost:%s", cfg.Port)
	return router.Run(":" + cfg.Port)
}

// serverCommands returns the command that starts the HTTP API together with
// the payment change listener.
func serverCommands(app *appInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start arenapay server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			router := initializeRouter(app)

			cfg, err := config.Fetch()
			if err != nil {
				log.Fatal(err)
			}

			startChangeListener(ctx, app)

			if err := startServer(router, cfg.Server); err != nil {
				log.Fatal(err)
			}
		},
	}

	return cmd
}
