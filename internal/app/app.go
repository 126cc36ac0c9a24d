package app

import (
	"context"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/skillsy/skillsy-api/internal/app/docs"
	"github.com/skillsy/skillsy-api/logger"
	"github.com/skillsy/skillsy-api/server"
	"github.com/skillsy/skillsy-api/version"
)

// DocsPath is where the Swagger UI and OpenAPI document are served.
const DocsPath = "/docs/"

// NewServer builds the HTTP server with the standard middleware, the CORS
// policy derived from cfg.FrontendURL, and all routes.
func NewServer(cfg *Config, log *logger.Logger) *server.Server {
	srvCfg := cfg.Server
	srvCfg.CORS = CORSPolicy(cfg.FrontendURL)

	srv := server.New(srvCfg, log)
	srv.ApplyMiddleware()
	RegisterRoutes(srv)

	log.Info("CORS configured", logger.Fields("allowed_origins", srvCfg.CORS.AllowedOrigins))
	return srv
}

// RegisterRoutes mounts the API routes and the docs UI on srv.
func RegisterRoutes(srv *server.Server) {
	r := srv.GinEngine()
	r.GET("/", Root())
	r.GET("/health", Health())

	docs.SwaggerInfo.Title = version.Name
	docs.SwaggerInfo.Version = version.Version
	srv.Handle(DocsPath, httpSwagger.Handler(httpSwagger.URL(DocsPath+"doc.json")))
}

// LifecycleHooks returns hooks announcing when srv starts accepting
// requests and when it begins shutting down.
func LifecycleHooks(srv *server.Server, log *logger.Logger) (onReady, onStop func(context.Context) error) {
	var readyAt time.Time
	onReady = func(context.Context) error {
		readyAt = time.Now()
		log.Info("Skillsy API accepting requests", logger.Fields(
			"addr", srv.Addr(),
			"docs", DocsPath,
			"build", version.Short(),
		))
		return nil
	}
	onStop = func(context.Context) error {
		fields := logger.Fields("addr", srv.Addr())
		if !readyAt.IsZero() {
			fields["uptime"] = time.Since(readyAt).Round(time.Second).String()
		}
		log.Info("Skillsy API stopping", fields)
		return nil
	}
	return onReady, onStop
}
