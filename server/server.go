package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/skillsy/skillsy-api/component"
	"github.com/skillsy/skillsy-api/logger"
	"github.com/skillsy/skillsy-api/server/middleware"
)

const (
	shutdownTimeout           = 5 * time.Second
	defaultMaxBodyBytes int64 = 1 << 20
)

// Server is an HTTP server backed by Gin, with room for extra http.Handler
// mounts on the same port.
type Server struct {
	engine      *gin.Engine
	mux         *http.ServeMux
	middlewares []middleware.Middleware
	mounts      []string
	config      Config
	log         *logger.Logger

	mu         sync.RWMutex
	httpServer *http.Server
	listener   net.Listener
}

// New creates a Server. No middleware is applied until ApplyMiddleware or
// Use is called.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	mux := http.NewServeMux()
	mux.Handle("/", engine)

	return &Server{
		engine: engine,
		mux:    mux,
		config: cfg,
		log:    log.WithComponent("server"),
	}
}

// GinEngine returns the Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handle mounts an http.Handler on the root ServeMux. Use a trailing slash
// for subtree matches (e.g. "/docs/").
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.mounts = append(s.mounts, pattern)
	s.log.Debug("Handler mounted", logger.Fields("pattern", pattern))
}

// Use appends middleware around the whole mux. The first added is outermost.
func (s *Server) Use(mws ...middleware.Middleware) {
	s.middlewares = append(s.middlewares, mws...)
}

// ApplyMiddleware installs the standard stack: recovery, request ID,
// tracing, CORS, body size limit and request logging.
func (s *Server) ApplyMiddleware() {
	limit, err := middleware.ParseSize(s.config.MaxBodySize)
	if err != nil {
		limit = defaultMaxBodyBytes
		s.log.Warn("Invalid max body size, using default", logger.Fields(
			"max_body_size", s.config.MaxBodySize,
			"limit_bytes", limit,
			"error", err.Error(),
		))
	}
	s.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.CORS(s.config.CORS),
		middleware.BodySizeLimit(limit),
		middleware.RequestLogger(s.log),
	)
}

// Handler returns the full handler chain: h2c around middleware around the
// mux.
func (s *Server) Handler() http.Handler {
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}
	return h2c.NewHandler(middleware.Chain(s.middlewares...)(s.mux), h2s)
}

// Start binds the port and serves in a goroutine. It returns once the
// listener is bound.
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Addr()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.config.IdleTimeout) * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down")
	return nil
}

// Addr returns the bound address while running, else the configured one.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Addr()
}

func (s *Server) running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.httpServer != nil
}

// Routes lists Gin routes sorted by path then method, followed by mounted
// handlers.
func (s *Server) Routes() []component.Route {
	ginRoutes := s.engine.Routes()
	sort.Slice(ginRoutes, func(i, j int) bool {
		if ginRoutes[i].Path != ginRoutes[j].Path {
			return ginRoutes[i].Path < ginRoutes[j].Path
		}
		return methodOrder(ginRoutes[i].Method) < methodOrder(ginRoutes[j].Method)
	})

	routes := make([]component.Route, 0, len(ginRoutes)+len(s.mounts))
	for _, r := range ginRoutes {
		routes = append(routes, component.Route{
			Method:  r.Method,
			Path:    r.Path,
			Handler: handlerName(r.Handler),
		})
	}
	for _, p := range s.mounts {
		routes = append(routes, component.Route{Method: "ANY", Path: p, Handler: "mounted"})
	}
	return routes
}

// handlerName trims Gin's fully qualified handler name:
// "github.com/x/y/internal/app.(*Handlers).Root-fm" -> "Handlers.Root".
func handlerName(full string) string {
	name := strings.TrimSuffix(full, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	if pkg, rest, ok := strings.Cut(name, "."); ok && strings.ToLower(pkg) == pkg && rest != "" {
		name = rest
	}
	if idx := strings.Index(name, ".func"); idx > 0 {
		name = name[:idx]
	}
	return name
}

func methodOrder(method string) int {
	switch method {
	case http.MethodGet:
		return 0
	case http.MethodPost:
		return 1
	case http.MethodPut:
		return 2
	case http.MethodPatch:
		return 3
	case http.MethodDelete:
		return 4
	default:
		return 5
	}
}
