// Package bootstrap runs a service through its lifecycle: config defaults
// and validation, logger setup, component start in registration order,
// hooks, a startup summary, and graceful shutdown on SIGINT/SIGTERM or
// context cancellation.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.RegisterComponent(server.NewComponent(srv))
//	return app.Run(ctx)
package bootstrap
