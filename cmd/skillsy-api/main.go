// Command skillsy-api serves the Skillsy API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/skillsy/skillsy-api/bootstrap"
	"github.com/skillsy/skillsy-api/config"
	"github.com/skillsy/skillsy-api/internal/app"
	"github.com/skillsy/skillsy-api/observability"
	"github.com/skillsy/skillsy-api/server"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", app.ServiceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg app.Config
	if err := config.LoadConfig(app.ServiceName, &cfg,
		config.WithEnvAlias("server.port", "PORT"),
		config.WithEnvAlias("server.host", "HOST"),
	); err != nil {
		return err
	}

	a, err := bootstrap.NewApp(&cfg, bootstrap.WithGracefulTimeout(cfg.ShutdownTimeout))
	if err != nil {
		return err
	}

	telemetry := observability.NewComponent(cfg.Observability, cfg.ServiceInfo(), a.Logger)
	if err := a.RegisterComponent(telemetry); err != nil {
		return err
	}

	srv := app.NewServer(&cfg, a.Logger)
	if err := a.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}

	onReady, onStop := app.LifecycleHooks(srv, a.Logger)
	a.OnReady(onReady)
	a.OnStop(onStop)

	return a.Run(ctx)
}
