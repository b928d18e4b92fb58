// Package httpserver exposes the sync round and the directory operations
// over JSON/HTTP.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/visittracker/internal/logging"
	"github.com/dmitrijs2005/visittracker/internal/server/config"
	"github.com/dmitrijs2005/visittracker/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// Services groups the application services the handlers call into.
type Services struct {
	Sync    *services.SyncService
	Objects *services.ObjectService
	Users   *services.UserService
	Notify  *services.NotifyService
}

type Server struct {
	address     string
	svc         Services
	logger      logging.Logger
	mux         *http.ServeMux
	jwtSecret   []byte
	requireAuth bool
	maxBody     int64
	mediaDir    string
}

func NewServer(cfg *config.Config, l logging.Logger, svc Services) *Server {
	s := &Server{
		address:     cfg.HTTPAddr,
		svc:         svc,
		logger:      l.With("module", "http_server"),
		mux:         http.NewServeMux(),
		jwtSecret:   []byte(cfg.SecretKey),
		requireAuth: cfg.RequireAuth,
		maxBody:     cfg.MaxRequestBytes,
	}
	if cfg.BlobBackend == config.BlobBackendLocal {
		s.mediaDir = cfg.LocalMediaPath
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)

	for _, p := range []string{"/api/sync", "/sync"} {
		s.mux.HandleFunc("GET "+p, s.handlePull)
		s.mux.HandleFunc("POST "+p, s.protect(s.handlePush))
	}

	s.mux.HandleFunc("POST /api/login", s.handleLogin)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/objects", s.handleListObjects)
	s.mux.HandleFunc("POST /api/objects", s.protect(s.handleCreateObject))
	s.mux.HandleFunc("PUT /api/objects/{id}", s.protect(s.handleUpdateObject))
	s.mux.HandleFunc("GET /api/objects/{id}/visits", s.handleObjectVisits)
	s.mux.HandleFunc("POST /api/objects/{id}/visits", s.protect(s.handleCreateVisit))
	s.mux.HandleFunc("POST /api/notify", s.protect(s.handleNotify))

	if s.mediaDir != "" {
		s.mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(s.mediaDir))))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID(requestLogger(s.logger, cors(limitBody(s.maxBody, s.mux)))).ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
